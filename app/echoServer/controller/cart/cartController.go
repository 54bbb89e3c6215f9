package cart

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/jwtx"
	"github.com/Siyemukel/Digital-online-bookstore/authz"
	cartsvc "github.com/Siyemukel/Digital-online-bookstore/service/cart"
)

type Controller struct {
	Svc cartsvc.Service
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

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch cartsvc.Code(err) {
	case cartsvc.ErrBookNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	case cartsvc.ErrItemNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "cart item not found"})
	case cartsvc.ErrNotOwner:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case cartsvc.ErrStockExceeded:
		return c.JSON(http.StatusConflict, echo.Map{"message": "not enough stock"})
	case cartsvc.ErrQtyFloor:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "quantity cannot drop below one; remove the item instead"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// GET /v1/cart
func (h *Controller) View(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	items, err := h.Svc.Items(c.Request().Context(), id.UserID)
	if err != nil {
		h.Log.Error("cart view", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "subtotal": subtotal})
}

// POST /v1/cart/books/:bookId
func (h *Controller) Add(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	if err := h.Svc.Add(c.Request().Context(), id.UserID, bookID); err != nil {
		return h.mapErr(c, "cart add", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "added to cart"})
}

// POST /v1/cart/items/:id/increase
func (h *Controller) Increase(c echo.Context) error {
	return h.adjust(c, h.Svc.Increase, "cart increase")
}

// POST /v1/cart/items/:id/decrease
func (h *Controller) Decrease(c echo.Context) error {
	return h.adjust(c, h.Svc.Decrease, "cart decrease")
}

func (h *Controller) adjust(c echo.Context, f func(ctx context.Context, userID, itemID int64) error, op string) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid item id"})
	}
	if err := f(c.Request().Context(), id.UserID, itemID); err != nil {
		return h.mapErr(c, op, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cart updated"})
}

// DELETE /v1/cart/items/:id
func (h *Controller) Remove(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid item id"})
	}
	if err := h.Svc.Remove(c.Request().Context(), id.UserID, itemID); err != nil {
		return h.mapErr(c, "cart remove", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "item removed"})
}

// DELETE /v1/cart
func (h *Controller) Clear(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	if err := h.Svc.Clear(c.Request().Context(), id.UserID); err != nil {
		h.Log.Error("cart clear", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}
