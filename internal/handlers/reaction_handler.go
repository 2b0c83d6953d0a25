package handlers

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReactionHandler handles like/dislike toggles on videos and comments
type ReactionHandler struct {
	reactions *services.ReactionService
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactions *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// RegisterReactionRoutes registers reaction routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/like_dislike", h.LikeDislike, m...)
	g.POST("/vote", h.Vote, m...)
}

// LikeDislike toggles the user's reaction on a video
func (h *ReactionHandler) LikeDislike(c echo.Context) error {
	var req models.LikeVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	_, err := h.reactions.ReactToVideo(c.Request().Context(), req.VideoID, middleware.CurrentUserID(c), models.Action(req.Action))
	if err != nil {
		return httpError(c, err)
	}
	return seeOther(c, watchURL(req.VideoID))
}

// Vote toggles the user's reaction on a comment
func (h *ReactionHandler) Vote(c echo.Context) error {
	var req models.VoteCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	_, comment, err := h.reactions.ReactToComment(c.Request().Context(), req.CommentID, middleware.CurrentUserID(c), models.Action(req.Action))
	if err != nil {
		return httpError(c, err)
	}
	return seeOther(c, watchURL(comment.VideoID))
}
