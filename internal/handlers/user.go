package handlers

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile edits of the signed-in user
type UserHandler struct {
	accounts *services.AccountService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accounts *services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/save-avatar", h.SaveAvatar, m...)
	g.POST("/save-nickname", h.SaveNickname, m...)
	g.POST("/save-description", h.SaveDescription, m...)
	g.POST("/update_theme", h.UpdateTheme, m...)
}

// SaveAvatar replaces the avatar with the uploaded image
func (h *UserHandler) SaveAvatar(c echo.Context) error {
	avatar, _, err := formFile(c, "avatar")
	if err != nil {
		return err
	}
	if avatar == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file selected")
	}
	defer avatar.Close()

	userID := middleware.CurrentUserID(c)
	if _, err := h.accounts.UpdateAvatar(c.Request().Context(), userID, avatar); err != nil {
		return httpError(c, err)
	}
	return h.toOwnChannel(c, userID)
}

// SaveNickname renames the user
func (h *UserHandler) SaveNickname(c echo.Context) error {
	var req models.UpdateNicknameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	userID := middleware.CurrentUserID(c)
	if _, err := h.accounts.UpdateNickname(c.Request().Context(), userID, req.Nickname); err != nil {
		return httpError(c, err)
	}
	return h.toOwnChannel(c, userID)
}

// SaveDescription edits the user's channel description
func (h *UserHandler) SaveDescription(c echo.Context) error {
	var req models.UpdateDescriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	ch, err := h.accounts.UpdateChannelDescription(c.Request().Context(), middleware.CurrentUserID(c), req.Description)
	if err != nil {
		return httpError(c, err)
	}
	return seeOther(c, channelURL(ch.ID))
}

// UpdateTheme switches between the black and white themes
func (h *UserHandler) UpdateTheme(c echo.Context) error {
	var req models.UpdateThemeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if _, err := h.accounts.UpdateTheme(c.Request().Context(), middleware.CurrentUserID(c), req.Theme); err != nil {
		return httpError(c, err)
	}
	return seeOther(c, "/settings")
}

func (h *UserHandler) toOwnChannel(c echo.Context, userID uint) error {
	ch, err := h.accounts.ChannelOf(c.Request().Context(), userID)
	if err != nil {
		return httpError(c, err)
	}
	return seeOther(c, channelURL(ch.ID))
}
