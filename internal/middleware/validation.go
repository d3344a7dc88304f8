package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/unihub/internal/app/models/dto"
)

// BindJSON binds the body into obj and validates its binding tags. On
// failure it writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(validationErrorDetail(err)))
		return false
	}
	return true
}

func validationErrorDetail(err error) *dto.ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format").
			WithDetails(err.Error())
	}

	all := dto.NewValidationErrors()
	for _, fe := range verrs {
		all.AddError(fe.Field(), formatValidationError(fe))
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, all.Errors[0].Message).
		WithField(all.Errors[0].Field)
	if len(all.Errors) > 1 {
		detail = detail.WithDetails(all.Errors)
	}
	return detail
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
