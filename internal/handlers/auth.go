package handlers

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles sign-up, sign-in and sign-out
type AuthHandler struct {
	accounts *services.AccountService
	sessions *middleware.SessionManager
	logger   *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *services.AccountService, sessions *middleware.SessionManager, logger *logrus.Logger) *AuthHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthHandler{accounts: accounts, sessions: sessions, logger: logger}
}

// RegisterAuthRoutes registers authentication routes; limit guards the form posts
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, limit ...echo.MiddlewareFunc) {
	g.GET("/register", h.RegisterForm)
	g.POST("/register", h.Register, limit...)
	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login, limit...)
	g.GET("/logout", h.Logout)
}

func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return renderPage(c, h.accounts, "register.html", "Sign up", nil)
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return renderPage(c, h.accounts, "login.html", "Sign in", nil)
}

// Register creates an account from email, password and an optional avatar
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	avatar, _, err := formFile(c, "avatar")
	if err != nil {
		return err
	}
	if avatar != nil {
		defer avatar.Close()
	}

	in := services.RegisterInput{Email: req.Email, Password: req.Password, Avatar: avatar}
	if _, _, err := h.accounts.Register(c.Request().Context(), in); err != nil {
		return httpError(c, err)
	}
	return seeOther(c, "/login")
}

// Login checks credentials and starts a session
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	user, channel, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithField("ip", c.RealIP()).Info("failed login")
		return httpError(c, err)
	}
	if err := h.sessions.Issue(c, user.ID, channel.ID); err != nil {
		return httpError(c, err)
	}
	h.logger.WithField("user_id", user.ID).Info("user logged in")
	return seeOther(c, "/")
}

// Logout ends the session
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return seeOther(c, "/")
}
