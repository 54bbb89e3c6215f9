// app/echoServer/jwtx/identity.go
package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Siyemukel/Digital-online-bookstore/authz"
)

// IdentityFromContext reads the user id and role the auth middleware stashed
// on the request.
func IdentityFromContext(c echo.Context) (authz.Identity, error) {
	uid, ok := c.Get("user_id").(int64)
	if !ok || uid == 0 {
		return authz.Identity{}, errors.New("no user in context")
	}
	role, ok := c.Get("role").(string)
	if !ok || role == "" {
		return authz.Identity{}, errors.New("no role in context")
	}
	return authz.Identity{UserID: uid, Role: authz.Role(role)}, nil
}
