package checkout

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/jwtx"
	"github.com/Siyemukel/Digital-online-bookstore/authz"
	checkoutsvc "github.com/Siyemukel/Digital-online-bookstore/service/checkout"
)

type Controller struct {
	Svc checkoutsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (h *Controller) student(c echo.Context) (authz.Identity, bool) {
	id, err := jwtx.IdentityFromContext(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		return authz.Identity{}, false
	}
	if err := authz.Allow(id, authz.RoleStudent); err != nil {
		_ = c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		return authz.Identity{}, false
	}
	return id, true
}

// POST /v1/checkout
func (h *Controller) Start(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	var req StartCheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	out, err := h.Svc.Start(c.Request().Context(), id.UserID, req.Method, req.Address)
	if err != nil {
		switch checkoutsvc.Code(err) {
		case checkoutsvc.ErrCartEmpty:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cart is empty"})
		case checkoutsvc.ErrAddressRequired:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "delivery requires an address"})
		case checkoutsvc.ErrBadMethod:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "method must be pickup or delivery"})
		case checkoutsvc.ErrPaymentInit:
			h.Log.Error("checkout start", "err", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "payment provider unavailable"})
		default:
			h.Log.Error("checkout start", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /v1/checkout/confirm
func (h *Controller) Confirm(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	var req ConfirmCheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	out, err := h.Svc.Confirm(c.Request().Context(), id.UserID, req.PaymentID, req.PayerID)
	if err != nil {
		switch checkoutsvc.Code(err) {
		case checkoutsvc.ErrAttemptNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "checkout expired or unknown"})
		case checkoutsvc.ErrNotYourPayment:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case checkoutsvc.ErrPaymentDeclined:
			return c.JSON(http.StatusPaymentRequired, echo.Map{"message": "payment was not approved"})
		case checkoutsvc.ErrStockChanged:
			return c.JSON(http.StatusConflict, echo.Map{"message": "stock changed during checkout; please review your cart"})
		case checkoutsvc.ErrCartEmpty:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cart is empty"})
		default:
			h.Log.Error("checkout confirm", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "purchase complete", "purchase_id": out.PurchaseID, "total": out.Total})
}

// POST /v1/checkout/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	var req CancelCheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.Cancel(c.Request().Context(), id.UserID, req.PaymentID); err != nil {
		switch checkoutsvc.Code(err) {
		case checkoutsvc.ErrNotYourPayment:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("checkout cancel", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "checkout cancelled"})
}

// GET /v1/checkout/return
// PayPal redirects the approving user here with paymentId and PayerID in the
// query. The frontend picks them up and calls the guarded confirm endpoint.
func (h *Controller) Return(c echo.Context) error {
	paymentID := c.QueryParam("paymentId")
	payerID := c.QueryParam("PayerID")
	if paymentID == "" || payerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing paymentId or PayerID"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "payment approved, confirm to finalize",
		"payment_id": paymentID,
		"payer_id":   payerID,
	})
}

// GET /v1/checkout/cancel
func (h *Controller) Cancelled(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "payment cancelled",
		"payment_id": c.QueryParam("paymentId"),
	})
}

// GET /v1/orders
func (h *Controller) Orders(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	rows, err := h.Svc.Orders(c.Request().Context(), id.UserID)
	if err != nil {
		h.Log.Error("orders", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/orders/:id/items
func (h *Controller) OrderItems(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	purchaseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || purchaseID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Svc.OrderItems(c.Request().Context(), id.UserID, purchaseID)
	if err != nil {
		switch checkoutsvc.Code(err) {
		case checkoutsvc.ErrOrderNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		default:
			h.Log.Error("order items", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
