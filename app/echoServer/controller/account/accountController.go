package account

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/jwtx"
	"github.com/Siyemukel/Digital-online-bookstore/authz"
	accountsvc "github.com/Siyemukel/Digital-online-bookstore/service/account"
)

type Controller struct {
	Svc accountsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (h *Controller) admin(c echo.Context) bool {
	id, err := jwtx.IdentityFromContext(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		return false
	}
	if err := authz.Allow(id, authz.RoleAdmin); err != nil {
		_ = c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		return false
	}
	return true
}

// role comes from the path so /staff and /drivers share handlers.
func roleParam(c echo.Context) string {
	if c.Param("role") == "drivers" {
		return "driver"
	}
	return "staff"
}

// POST /v1/accounts/:role  (admin; role is staff|drivers)
func (h *Controller) Create(c echo.Context) error {
	if !h.admin(c) {
		return nil
	}
	var req accountsvc.CreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	id, err := h.Svc.Create(c.Request().Context(), roleParam(c), req)
	if err != nil {
		switch {
		case errors.Is(err, accountsvc.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		case errors.Is(err, accountsvc.ErrBadRole):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown role"})
		default:
			h.Log.Error("account create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "message": "account created"})
}

// GET /v1/accounts/staff  (admin)
func (h *Controller) Staff(c echo.Context) error {
	if !h.admin(c) {
		return nil
	}
	rows, err := h.Svc.Staff(c.Request().Context())
	if err != nil {
		h.Log.Error("list staff", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/accounts/drivers  (admin)
func (h *Controller) Drivers(c echo.Context) error {
	if !h.admin(c) {
		return nil
	}
	rows, err := h.Svc.Drivers(c.Request().Context())
	if err != nil {
		h.Log.Error("list drivers", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// DELETE /v1/accounts/:role/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !h.admin(c) {
		return nil
	}
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Delete(c.Request().Context(), roleParam(c), userID); err != nil {
		switch {
		case errors.Is(err, accountsvc.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "account not found"})
		case errors.Is(err, accountsvc.ErrBadRole):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown role"})
		default:
			h.Log.Error("account delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account removed"})
}
