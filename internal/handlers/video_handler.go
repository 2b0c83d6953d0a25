package handlers

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// VideoHandler handles uploads
type VideoHandler struct {
	videos *services.VideoService
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videos *services.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// RegisterVideoRoutes registers video-related routes
func (h *VideoHandler) RegisterVideoRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/upload", h.Upload, m...)
}

// Upload publishes a video from the multipart fields title, description, video and cover
func (h *VideoHandler) Upload(c echo.Context) error {
	var req models.UploadVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	video, size, err := formFile(c, "video")
	if err != nil {
		return err
	}
	if video != nil {
		defer video.Close()
	}
	cover, _, err := formFile(c, "cover")
	if err != nil {
		return err
	}
	if cover != nil {
		defer cover.Close()
	}

	in := services.UploadInput{
		Title:       req.Title,
		Description: req.Description,
		Video:       video,
		VideoSize:   size,
		Cover:       cover,
	}
	if _, err := h.videos.Upload(c.Request().Context(), middleware.CurrentUserID(c), in); err != nil {
		return httpError(c, err)
	}
	return seeOther(c, "/")
}
