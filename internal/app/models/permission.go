package models

import (
	"github.com/goccy/go-json"
)

// Permission names a posting permission of a channel
type Permission string

const (
	PermissionCreatePosts    Permission = "Create Posts"
	PermissionCommentOnPosts Permission = "Comment on Posts"
	PermissionEditPosts      Permission = "Edit Posts"
	PermissionDeletePosts    Permission = "Delete Posts"
	PermissionPinPosts       Permission = "Pin Posts"
	PermissionManageMembers  Permission = "Manage Members"

	// NoPermissions is the stored sentinel; it is derived, never granted.
	NoPermissions Permission = "No Permissions"
)

// KnownPermissions lists the grantable permissions in display order
var KnownPermissions = []Permission{
	PermissionCreatePosts,
	PermissionCommentOnPosts,
	PermissionEditPosts,
	PermissionDeletePosts,
	PermissionPinPosts,
	PermissionManageMembers,
}

// IsKnownPermission reports whether p is grantable or the sentinel
func IsKnownPermission(p Permission) bool {
	if p == NoPermissions {
		return true
	}
	for _, k := range KnownPermissions {
		if k == p {
			return true
		}
	}
	return false
}

// PermissionSet is the set of permissions granted to a channel's members.
// "No Permissions" holds exactly when the set is empty.
type PermissionSet struct {
	grants map[Permission]struct{}
}

// NewPermissionSet returns a set holding grants; the sentinel and unknown
// names are ignored.
func NewPermissionSet(grants ...Permission) PermissionSet {
	set := PermissionSet{grants: make(map[Permission]struct{}, len(grants))}
	for _, g := range grants {
		if g != NoPermissions && IsKnownPermission(g) {
			set.grants[g] = struct{}{}
		}
	}
	return set
}

// Has reports whether p holds. For the sentinel it reports None().
func (s PermissionSet) Has(p Permission) bool {
	if p == NoPermissions {
		return s.None()
	}
	_, ok := s.grants[p]
	return ok
}

// None reports whether nothing is granted
func (s PermissionSet) None() bool {
	return len(s.grants) == 0
}

// Count returns the number of granted permissions
func (s PermissionSet) Count() int {
	return len(s.grants)
}

// Grants lists granted permissions in display order
func (s PermissionSet) Grants() []Permission {
	out := make([]Permission, 0, len(s.grants))
	for _, k := range KnownPermissions {
		if _, ok := s.grants[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// With returns a copy of s after setting p to value. Setting the sentinel
// true revokes everything; setting it false leaves s unchanged because the
// sentinel cannot be false while nothing is granted.
func (s PermissionSet) With(p Permission, value bool) PermissionSet {
	if p == NoPermissions {
		if value {
			return NewPermissionSet()
		}
		return NewPermissionSet(s.Grants()...)
	}

	next := NewPermissionSet(s.Grants()...)
	if value {
		next.grants[p] = struct{}{}
	} else {
		delete(next.grants, p)
	}
	return next
}

// Flags renders the set as the stored flag map, sentinel included
func (s PermissionSet) Flags() map[Permission]bool {
	flags := make(map[Permission]bool, len(KnownPermissions)+1)
	for _, k := range KnownPermissions {
		flags[k] = s.Has(k)
	}
	flags[NoPermissions] = s.None()
	return flags
}

// MarshalJSON writes the stored flag-map layout
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flags())
}

// UnmarshalJSON reads the flag-map layout. The sentinel is recomputed from
// the other flags, so an inconsistent stored sentinel is repaired.
func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var flags map[Permission]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}

	var grants []Permission
	for k, v := range flags {
		if v {
			grants = append(grants, k)
		}
	}
	*s = NewPermissionSet(grants...)
	return nil
}
