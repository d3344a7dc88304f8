package validation

import (
	"strings"
	"unicode/utf8"
)

// Validation rule limits
var (
	// Post title and body lengths, counted after trimming
	PostTitleMinLength = 5
	PostTitleMaxLength = 100
	PostBodyMinLength  = 10
	PostBodyMaxLength  = 1000

	// Channel and club names
	NameMaxLength = 100

	// Channels must have at least one member
	ChannelMinCount = 1
)

// StringValidation checks a required, trimmed string against length limits
type StringValidation struct {
	Value  string
	MinLen int
	MaxLen int
}

// NewStringValidation creates a new string validation over the trimmed value
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: strings.TrimSpace(value)}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// Validate performs validation. Lengths count characters, not bytes.
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return false
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}
	return true
}

// NumericValidation checks an int against optional bounds; zero means unbounded
type NumericValidation struct {
	Value int
	Min   int
	Max   int
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{Value: value}
}

// WithMin sets minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

// WithMax sets maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	if v.Min != 0 && v.Value < v.Min {
		return false
	}
	if v.Max != 0 && v.Value > v.Max {
		return false
	}
	return true
}

// ValidPostTitle reports whether title fits the post title limits
func ValidPostTitle(title string) bool {
	return NewStringValidation(title).
		WithMinLength(PostTitleMinLength).
		WithMaxLength(PostTitleMaxLength).
		Validate()
}

// ValidPostBody reports whether body fits the post body limits
func ValidPostBody(body string) bool {
	return NewStringValidation(body).
		WithMinLength(PostBodyMinLength).
		WithMaxLength(PostBodyMaxLength).
		Validate()
}

// ValidName reports whether name is present and not too long
func ValidName(name string) bool {
	return NewStringValidation(name).WithMaxLength(NameMaxLength).Validate()
}

// ValidChannelCount reports whether a channel member count is acceptable
func ValidChannelCount(count int) bool {
	return NewNumericValidation(count).WithMin(ChannelMinCount).Validate()
}
