package handlers

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the JSON pages behind "load more"
type FeedHandler struct {
	videos *services.VideoService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(videos *services.VideoService) *FeedHandler {
	return &FeedHandler{videos: videos}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/load_more_videos", h.LoadMoreVideos)
	g.GET("/search_videos", h.SearchVideos)
}

// VideoPageResponse is one page of videos. Media keys are relative to StaticURL.
type VideoPageResponse struct {
	Videos    []services.VideoCard `json:"videos"`
	StaticURL string               `json:"static_url"`
	AllLoaded bool                 `json:"all_videos_loaded"`
}

// LoadMoreVideos returns the feed page starting at ?offset=
func (h *FeedHandler) LoadMoreVideos(c echo.Context) error {
	page, err := h.videos.Feed(c.Request().Context(), queryInt(c, "offset"), services.FeedPageSize)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, h.response(page))
}

// SearchVideos returns the search page for ?query= starting at ?offset=
func (h *FeedHandler) SearchVideos(c echo.Context) error {
	page, err := h.videos.Search(c.Request().Context(), c.QueryParam("query"), queryInt(c, "offset"), services.FeedPageSize)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, h.response(page))
}

func (h *FeedHandler) response(page *services.FeedPage) VideoPageResponse {
	return VideoPageResponse{Videos: page.Videos, StaticURL: h.videos.StaticURL(), AllLoaded: page.AllLoaded}
}
