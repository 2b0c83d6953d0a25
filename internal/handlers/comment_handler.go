package handlers

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/add_comment", h.AddComment, m...)
	g.POST("/add_sub_comment", h.AddReply, m...)
}

// AddComment posts a top-level comment on a video
func (h *CommentHandler) AddComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	comment, err := h.comments.PostComment(c.Request().Context(), req.VideoID, middleware.CurrentUserID(c), req.Comment)
	if err != nil {
		return httpError(c, err)
	}
	return seeOther(c, watchURL(comment.VideoID))
}

// AddReply answers an existing comment
func (h *CommentHandler) AddReply(c echo.Context) error {
	parentID, err := formInt(c, "parent_id")
	if err != nil {
		return err
	}

	_, parent, err := h.comments.PostReply(c.Request().Context(), parentID, middleware.CurrentUserID(c), c.FormValue("text"))
	if err != nil {
		return httpError(c, err)
	}
	return seeOther(c, watchURL(parent.VideoID))
}
