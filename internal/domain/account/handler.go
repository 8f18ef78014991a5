package account

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/starkeyhf/clinic-api/internal/platform/avatar"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/login", h.Login)
	api.POST("/reset_password", h.ResetPassword)
	api.POST("/upload_avatar", h.UploadAvatar)
}

// envelope is the uniform success/message wrapper for auth endpoints.
type envelope struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Status   string    `json:"status,omitempty"`
	UserData *UserData `json:"userData,omitempty"`
}

// Login verifies credentials and enforces the lockout window. Outcomes are
// reported in the response envelope; the HTTP status stays 200 for business
// failures so clients keying off the success flag behave consistently.
func (h *Handler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	data, err := h.svc.Authenticate(c.Request().Context(), username, password)
	if err == nil {
		return c.JSON(http.StatusOK, envelope{
			Success:  true,
			Message:  "Login successful",
			UserData: data,
		})
	}

	var locked *LockedError
	switch {
	case errors.Is(err, ErrValidation):
		return c.JSON(http.StatusOK, envelope{
			Success: false,
			Message: "Username and password are required",
		})
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusOK, envelope{
			Success: false,
			Message: "No account found",
		})
	case errors.As(err, &locked):
		return c.JSON(http.StatusOK, envelope{
			Success: false,
			Message: fmt.Sprintf("Account locked. Try again in %ds", locked.Remaining),
			Status:  "locked",
		})
	case errors.Is(err, ErrWrongPassword):
		return c.JSON(http.StatusOK, envelope{
			Success: false,
			Message: "Incorrect password",
			Status:  "wrong_password",
		})
	default:
		return c.JSON(http.StatusInternalServerError, envelope{
			Success: false,
			Message: "Login failed: " + err.Error(),
		})
	}
}

func (h *Handler) ResetPassword(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	err := h.svc.ResetPassword(c.Request().Context(), username, password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, envelope{
			Success: true,
			Message: "Password updated successfully",
		})
	case errors.Is(err, ErrValidation):
		return c.JSON(http.StatusOK, envelope{
			Success: false,
			Message: "Missing username or password",
		})
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusOK, envelope{
			Success: false,
			Message: "User not found",
		})
	case errors.Is(err, ErrNoChange):
		return c.JSON(http.StatusOK, envelope{
			Success: false,
			Message: "No changes made to password",
		})
	default:
		return c.JSON(http.StatusInternalServerError, envelope{
			Success: false,
			Message: "Failed to update password: " + err.Error(),
		})
	}
}

// uploadEnvelope follows the upload endpoint's status-string contract.
type uploadEnvelope struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	AvatarPath string `json:"avatar_path,omitempty"`
}

func (h *Handler) UploadAvatar(c echo.Context) error {
	userID, err := strconv.ParseInt(c.FormValue("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusOK, uploadEnvelope{
			Status:  "error",
			Message: "Missing user ID or file",
		})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusOK, uploadEnvelope{
			Status:  "error",
			Message: "Missing user ID or file",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadEnvelope{
			Status:  "error",
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	relPath, err := h.svc.SaveAvatar(c.Request().Context(), userID, fileHeader.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusOK, uploadEnvelope{
				Status:  "error",
				Message: "User not found",
			})
		case errors.Is(err, ErrValidation):
			return c.JSON(http.StatusOK, uploadEnvelope{
				Status:  "error",
				Message: "Missing user ID or file",
			})
		case errors.Is(err, avatar.ErrInvalidExtension):
			return c.JSON(http.StatusOK, uploadEnvelope{
				Status:  "error",
				Message: "Only JPG, JPEG, PNG, and GIF are allowed",
			})
		case errors.Is(err, avatar.ErrFileTooLarge):
			return c.JSON(http.StatusOK, uploadEnvelope{
				Status:  "error",
				Message: "File exceeds the maximum allowed size",
			})
		default:
			return c.JSON(http.StatusInternalServerError, uploadEnvelope{
				Status:  "error",
				Message: "Failed to save avatar: " + err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, uploadEnvelope{
		Status:     "success",
		Message:    "Avatar uploaded successfully",
		AvatarPath: relPath,
	})
}
