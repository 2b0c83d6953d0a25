package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	// SessionCookie is the name of the cookie carrying the session token
	SessionCookie = "session"
	sessionKey    = "session"
	// SignupPath is where anonymous users are sent by RequireUser
	SignupPath = "/signup"
)

var errInvalidSession = errors.New("invalid session")

// SessionManager issues and verifies signed session cookies
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	logger *logrus.Logger
}

// NewSessionManager creates a SessionManager signing with secret
func NewSessionManager(secret string, ttl time.Duration, secure bool, logger *logrus.Logger) *SessionManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, secure: secure, logger: logger}
}

// Issue signs a session for the user and sets it as an HttpOnly cookie
func (m *SessionManager) Issue(c echo.Context, userID uint, channelID string) error {
	now := time.Now()
	claims := &models.SessionClaims{
		UserID:    userID,
		ChannelID: channelID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(sessionKey, claims)
	return nil
}

// Clear expires the session cookie
func (m *SessionManager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(sessionKey, nil)
}

// Parse verifies a session token and returns its claims
func (m *SessionManager) Parse(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errInvalidSession
	}
	return claims, nil
}

// LoadSession attaches the claims of a valid session cookie to the context.
// Broken or expired cookies are dropped and the request continues anonymously.
func (m *SessionManager) LoadSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			claims, err := m.Parse(cookie.Value)
			if err != nil {
				m.logger.WithError(err).WithField("ip", c.RealIP()).Debug("dropping session cookie")
				m.Clear(c)
				return next(c)
			}
			c.Set(sessionKey, claims)
			return next(c)
		}
	}
}

// RequireUser redirects requests without a session to the sign-up page
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentSession(c); !ok {
				return c.Redirect(http.StatusSeeOther, SignupPath)
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session claims loaded for this request
func CurrentSession(c echo.Context) (*models.SessionClaims, bool) {
	claims, ok := c.Get(sessionKey).(*models.SessionClaims)
	return claims, ok && claims != nil
}

// CurrentUserID returns the signed-in user's id, 0 when anonymous
func CurrentUserID(c echo.Context) uint {
	if claims, ok := CurrentSession(c); ok {
		return claims.UserID
	}
	return 0
}
