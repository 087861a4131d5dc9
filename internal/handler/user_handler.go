package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"profileauth/internal/service"
)

// UserHandler serves the authenticated caller's profile.
type UserHandler struct {
	svc service.ProfileService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.ProfileService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest represents a profile update.
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,max=256"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /User/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return httpError(err)
	}
	view, err := h.svc.GetProfile(c.Request().Context(), identity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateProfile godoc
// @Summary Change the caller's username
// @Tags User
// @Accept json
// @Produce plain
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "New username"
// @Success 200 {string} string "Profile updated successfully"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /User/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return httpError(err)
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalidRequest(err)
	}

	if err := h.svc.UpdateUsername(c.Request().Context(), identity, req.Username); err != nil {
		return httpError(err)
	}
	return c.String(http.StatusOK, "Profile updated successfully")
}

// UploadProfilePicture godoc
// @Summary Upload a JPG or PNG profile picture (max 2MB)
// @Tags User
// @Accept multipart/form-data
// @Produce plain
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {string} string "Profile picture uploaded successfully"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /User/profilepicture [post]
func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return httpError(err)
	}

	var (
		data     []byte
		fileName string
	)
	fh, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// reported by the service once the caller is known to exist
	case err != nil:
		return badRequest("invalid multipart body")
	default:
		src, err := fh.Open()
		if err != nil {
			return badRequest("cannot read uploaded file")
		}
		defer src.Close()

		// one byte past the limit is enough to reject oversized files
		data, err = io.ReadAll(io.LimitReader(src, service.MaxProfileImageSize+1))
		if err != nil {
			return badRequest("cannot read uploaded file")
		}
		fileName = fh.Filename
	}

	if err := h.svc.UploadProfilePicture(c.Request().Context(), identity, data, fileName); err != nil {
		return httpError(err)
	}
	return c.String(http.StatusOK, "Profile picture uploaded successfully")
}

// DeleteProfilePicture godoc
// @Summary Remove the caller's profile picture
// @Tags User
// @Produce plain
// @Security BearerAuth
// @Success 200 {string} string "Profile picture removed successfully"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /User/profilepicture [delete]
func (h *UserHandler) DeleteProfilePicture(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return httpError(err)
	}
	if err := h.svc.RemoveProfilePicture(c.Request().Context(), identity); err != nil {
		return httpError(err)
	}
	return c.String(http.StatusOK, "Profile picture removed successfully")
}

// GetProfilePicture godoc
// @Summary Download the caller's profile picture
// @Tags User
// @Produce png
// @Produce jpeg
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /User/profilepicture [get]
func (h *UserHandler) GetProfilePicture(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return httpError(err)
	}
	pic, err := h.svc.FetchProfilePicture(c.Request().Context(), identity)
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, pic.ContentType, pic.Data)
}
