package analytics

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/jwtx"
	"github.com/Siyemukel/Digital-online-bookstore/authz"
	analyticssvc "github.com/Siyemukel/Digital-online-bookstore/service/analytics"
)

type Controller struct {
	Svc analyticssvc.Service
	Log *slog.Logger
}

// GET /v1/analytics  (staff/admin)
func (h *Controller) Summary(c echo.Context) error {
	id, err := jwtx.IdentityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	if err := authz.Allow(id, authz.RoleStaff, authz.RoleAdmin); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	out, err := h.Svc.Summary(c.Request().Context())
	if err != nil {
		h.Log.Error("analytics summary", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}
