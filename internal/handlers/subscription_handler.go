package handlers

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SubscriptionHandler handles subscribe/unsubscribe requests
type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// RegisterSubscriptionRoutes registers subscription routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/subscribe", h.Subscribe, m...)
	g.POST("/unsubscribe", h.Unsubscribe, m...)
}

// Subscribe adds the user to a channel's subscribers
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	req, err := bindSubscription(c)
	if err != nil {
		return err
	}
	if _, err := h.subscriptions.Subscribe(c.Request().Context(), req.ChannelID, middleware.CurrentUserID(c)); err != nil {
		return httpError(c, err)
	}
	return seeOther(c, backTo(c, channelURL(req.ChannelID)))
}

// Unsubscribe removes the user from a channel's subscribers
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	req, err := bindSubscription(c)
	if err != nil {
		return err
	}
	if _, err := h.subscriptions.Unsubscribe(c.Request().Context(), req.ChannelID, middleware.CurrentUserID(c)); err != nil {
		return httpError(c, err)
	}
	return seeOther(c, backTo(c, channelURL(req.ChannelID)))
}

func bindSubscription(c echo.Context) (*models.SubscriptionRequest, error) {
	var req models.SubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, httpError(c, err)
	}
	return &req, nil
}
