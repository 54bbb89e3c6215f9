package delivery

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/jwtx"
	"github.com/Siyemukel/Digital-online-bookstore/authz"
	deliverysvc "github.com/Siyemukel/Digital-online-bookstore/service/delivery"
)

type Controller struct {
	Svc deliverysvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type AssignDriverReq struct {
	DriverID int64 `json:"driver_id" validate:"required,gt=0"`
}

func (h *Controller) allow(c echo.Context, roles ...authz.Role) (authz.Identity, bool) {
	id, err := jwtx.IdentityFromContext(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		return authz.Identity{}, false
	}
	if err := authz.Allow(id, roles...); err != nil {
		_ = c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		return authz.Identity{}, false
	}
	return id, true
}

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch deliverysvc.Code(err) {
	case deliverysvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "delivery not found"})
	case deliverysvc.ErrBadTransition:
		return c.JSON(http.StatusConflict, echo.Map{"message": "delivery is not in the right state for that"})
	case deliverysvc.ErrNotYourRoute, deliverysvc.ErrDriverRequired:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

// GET /v1/deliveries/pending  (staff)
func (h *Controller) Pending(c echo.Context) error {
	if _, ok := h.allow(c, authz.RoleStaff, authz.RoleAdmin); !ok {
		return nil
	}
	rows, err := h.Svc.Pending(c.Request().Context())
	if err != nil {
		h.Log.Error("pending deliveries", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	drivers, err := h.Svc.Drivers(c.Request().Context())
	if err != nil {
		h.Log.Error("driver options", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deliveries": rows, "drivers": drivers})
}

// POST /v1/deliveries/:id/assign  (staff)
func (h *Controller) Assign(c echo.Context) error {
	if _, ok := h.allow(c, authz.RoleStaff, authz.RoleAdmin); !ok {
		return nil
	}
	deliveryID, ok := pathID(c)
	if !ok {
		return nil
	}
	var req AssignDriverReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.Assign(c.Request().Context(), deliveryID, req.DriverID); err != nil {
		return h.mapErr(c, "assign driver", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "driver assigned"})
}

// GET /v1/deliveries/my  (driver)
func (h *Controller) MyRoutes(c echo.Context) error {
	id, ok := h.allow(c, authz.RoleDriver)
	if !ok {
		return nil
	}
	rows, err := h.Svc.ForDriver(c.Request().Context(), id.UserID)
	if err != nil {
		h.Log.Error("driver deliveries", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/deliveries/:id/pickup  (driver)
func (h *Controller) ConfirmPickup(c echo.Context) error {
	id, ok := h.allow(c, authz.RoleDriver)
	if !ok {
		return nil
	}
	deliveryID, ok := pathID(c)
	if !ok {
		return nil
	}
	if err := h.Svc.ConfirmPickup(c.Request().Context(), id.UserID, deliveryID); err != nil {
		return h.mapErr(c, "confirm pickup", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "pickup confirmed"})
}

// POST /v1/deliveries/:id/complete  (driver)
func (h *Controller) Complete(c echo.Context) error {
	id, ok := h.allow(c, authz.RoleDriver)
	if !ok {
		return nil
	}
	deliveryID, ok := pathID(c)
	if !ok {
		return nil
	}
	if err := h.Svc.Complete(c.Request().Context(), id.UserID, deliveryID); err != nil {
		return h.mapErr(c, "complete delivery", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "delivery completed"})
}

// GET /v1/deliveries/history  (student)
func (h *Controller) History(c echo.Context) error {
	id, ok := h.allow(c, authz.RoleStudent)
	if !ok {
		return nil
	}
	rows, err := h.Svc.HistoryForUser(c.Request().Context(), id.UserID)
	if err != nil {
		h.Log.Error("delivery history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/deliveries/:id  (student)
func (h *Controller) Track(c echo.Context) error {
	id, ok := h.allow(c, authz.RoleStudent)
	if !ok {
		return nil
	}
	deliveryID, ok := pathID(c)
	if !ok {
		return nil
	}
	d, err := h.Svc.Track(c.Request().Context(), id.UserID, deliveryID)
	if err != nil {
		return h.mapErr(c, "track delivery", err)
	}
	return c.JSON(http.StatusOK, d)
}
