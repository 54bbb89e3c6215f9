package library

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/jwtx"
	"github.com/Siyemukel/Digital-online-bookstore/authz"
	librarysvc "github.com/Siyemukel/Digital-online-bookstore/service/library"
)

type Controller struct {
	Svc librarysvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type ReviewReq struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
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

func bookID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
		return 0, false
	}
	return id, true
}

// GET /v1/library
func (h *Controller) MyBooks(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	rows, err := h.Svc.Purchased(c.Request().Context(), id.UserID)
	if err != nil {
		h.Log.Error("library list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/library/:bookId
func (h *Controller) Detail(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	bid, ok := bookID(c)
	if !ok {
		return nil
	}
	b, err := h.Svc.Detail(c.Request().Context(), id.UserID, bid)
	if err != nil {
		if errors.Is(err, librarysvc.ErrNotOwned) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not in your library"})
		}
		h.Log.Error("library detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/library/:bookId/document
func (h *Controller) Read(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	bid, ok := bookID(c)
	if !ok {
		return nil
	}
	doc, err := h.Svc.Document(c.Request().Context(), id.UserID, bid)
	if err != nil {
		if errors.Is(err, librarysvc.ErrNotOwned) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not in your library"})
		}
		h.Log.Error("library document", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	// Inline so the browser renders rather than downloads.
	c.Response().Header().Set(echo.HeaderContentDisposition, "inline")
	return c.Blob(http.StatusOK, http.DetectContentType(doc), doc)
}

// POST /v1/library/:bookId/favorite
func (h *Controller) Favorite(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	bid, ok := bookID(c)
	if !ok {
		return nil
	}
	added, err := h.Svc.Favorite(c.Request().Context(), id.UserID, bid)
	if err != nil {
		if errors.Is(err, librarysvc.ErrNotOwned) {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "buy the book before favoriting it"})
		}
		h.Log.Error("favorite", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !added {
		return c.JSON(http.StatusOK, echo.Map{"message": "already in favorites"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "added to favorites"})
}

// GET /v1/favorites
func (h *Controller) Favorites(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	rows, err := h.Svc.Favorites(c.Request().Context(), id.UserID)
	if err != nil {
		h.Log.Error("favorites", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/library/:bookId/reviews
func (h *Controller) Review(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	bid, ok := bookID(c)
	if !ok {
		return nil
	}
	var req ReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.Review(c.Request().Context(), id.UserID, bid, req.Rating, req.Comment); err != nil {
		switch {
		case errors.Is(err, librarysvc.ErrNotOwned):
			return c.JSON(http.StatusForbidden, echo.Map{"message": "buy the book before reviewing it"})
		case errors.Is(err, librarysvc.ErrBadRating):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "rating must be between 1 and 5"})
		default:
			h.Log.Error("review", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "review posted"})
}

// GET /v1/books/:id/reviews
func (h *Controller) Reviews(c echo.Context) error {
	bid, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bid <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	rows, err := h.Svc.Reviews(c.Request().Context(), bid)
	if err != nil {
		h.Log.Error("reviews", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
