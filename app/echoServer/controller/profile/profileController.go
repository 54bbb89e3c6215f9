package profile

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/jwtx"
	"github.com/Siyemukel/Digital-online-bookstore/authz"
	profilesvc "github.com/Siyemukel/Digital-online-bookstore/service/profile"
)

type Controller struct {
	Svc profilesvc.Service
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

// GET /v1/profile
func (h *Controller) Get(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	p, err := h.Svc.Get(c.Request().Context(), id.UserID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		}
		h.Log.Error("profile get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}

// PUT /v1/profile
func (h *Controller) Update(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	var req profilesvc.UpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.Update(c.Request().Context(), id.UserID, req); err != nil {
		h.Log.Error("profile update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

// PUT /v1/profile/password
func (h *Controller) ChangePassword(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	var req profilesvc.ChangePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.ChangePassword(c.Request().Context(), id.UserID, req); err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrConfirmMismatch):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "password confirmation does not match"})
		case errors.Is(err, profilesvc.ErrWrongPassword):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "current password is wrong"})
		case errors.Is(err, profilesvc.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		default:
			h.Log.Error("change password", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// POST /v1/profile/picture
func (h *Controller) UploadPicture(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	fh, err := c.FormFile("picture")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "picture file required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid picture upload"})
	}
	defer f.Close()
	pic, err := io.ReadAll(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid picture upload"})
	}

	if err := h.Svc.UploadPicture(c.Request().Context(), id.UserID, pic); err != nil {
		h.Log.Error("picture upload", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "picture updated"})
}

// GET /v1/profile/picture
func (h *Controller) Picture(c echo.Context) error {
	id, ok := h.student(c)
	if !ok {
		return nil
	}
	pic, err := h.Svc.Picture(c.Request().Context(), id.UserID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNoPicture) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no profile picture"})
		}
		h.Log.Error("picture fetch", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.Blob(http.StatusOK, http.DetectContentType(pic), pic)
}
