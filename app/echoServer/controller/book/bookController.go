package book

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/jwtx"
	"github.com/Siyemukel/Digital-online-bookstore/authz"
	"github.com/Siyemukel/Digital-online-bookstore/model"
	booksvc "github.com/Siyemukel/Digital-online-bookstore/service/book"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func readFilePart(c echo.Context, name string) ([]byte, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return readFile(fh)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Controller) bindBook(c echo.Context) (*model.Book, error) {
	var req UpsertBookReq
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("invalid form")
	}
	if err := h.V.Struct(req); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, errors.New("invalid price")
	}
	return &model.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		Stock:       req.Stock,
		Condition:   req.Condition,
	}, nil
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	if q := c.QueryParam("q"); q != "" {
		rows, err := h.Svc.Search(c.Request().Context(), q)
		if err != nil {
			h.Log.Error("book search", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"data": rows})
	}
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booksvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/books/:id/cover
func (h *Controller) Cover(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	cover, err := h.Svc.Cover(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booksvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book cover", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.Blob(http.StatusOK, http.DetectContentType(cover), cover)
}

// GET /v1/books/latest
func (h *Controller) Latest(c echo.Context) error {
	rows, err := h.Svc.Latest(c.Request().Context(), 0)
	if err != nil {
		h.Log.Error("latest books", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/popular
func (h *Controller) Popular(c echo.Context) error {
	rows, err := h.Svc.Popular(c.Request().Context(), 0)
	if err != nil {
		h.Log.Error("popular books", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/recommended
func (h *Controller) Recommended(c echo.Context) error {
	id, err := jwtx.IdentityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.Recommended(c.Request().Context(), id.UserID)
	if err != nil {
		h.Log.Error("recommended books", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/books  (staff/admin)
func (h *Controller) Create(c echo.Context) error {
	id, err := jwtx.IdentityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	if err := authz.Allow(id, authz.RoleStaff, authz.RoleAdmin); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	b, err := h.bindBook(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	cover, err := readFilePart(c, "cover")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cover upload"})
	}
	document, err := readFilePart(c, "document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid document upload"})
	}

	bookID, err := h.Svc.Create(c.Request().Context(), b, cover, document)
	if err != nil {
		switch {
		case errors.Is(err, booksvc.ErrBadPrice), errors.Is(err, booksvc.ErrBadStock):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("book create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": bookID, "message": "book created"})
}

// PUT /v1/books/:id  (staff/admin)
func (h *Controller) Update(c echo.Context) error {
	id, err := jwtx.IdentityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	if err := authz.Allow(id, authz.RoleStaff, authz.RoleAdmin); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.bindBook(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	b.ID = bookID

	cover, err := readFilePart(c, "cover")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cover upload"})
	}

	if err := h.Svc.Update(c.Request().Context(), b, cover); err != nil {
		switch {
		case errors.Is(err, booksvc.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case errors.Is(err, booksvc.ErrBadPrice), errors.Is(err, booksvc.ErrBadStock):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("book update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book updated"})
}
