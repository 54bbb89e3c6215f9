// Package authz is the role guard called at the entry of every operation.
// It knows nothing about the web framework: controllers build an Identity
// from the verified token and ask Allow before touching a service.
package authz

import "errors"

type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleDriver  Role = "driver"
	RoleAdmin   Role = "admin"
)

type Identity struct {
	UserID int64
	Role   Role
}

// ErrForbidden is distinct from validation errors so controllers can map it
// to 403 rather than 400.
var ErrForbidden = errors.New("forbidden")

// Allow returns nil when the identity's role is in the allowed set.
func Allow(id Identity, roles ...Role) error {
	for _, r := range roles {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
