package handlers

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/anonto42/nano-tube/backend/internal/web"
	"github.com/labstack/echo/v4"
)

// PageHandler serves the server-rendered pages
type PageHandler struct {
	videos   *services.VideoService
	accounts *services.AccountService
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(videos *services.VideoService, accounts *services.AccountService) *PageHandler {
	return &PageHandler{videos: videos, accounts: accounts}
}

// RegisterPageRoutes registers the HTML pages
func (h *PageHandler) RegisterPageRoutes(g *echo.Group) {
	g.GET("/", h.Index)
	g.GET("/search", h.Search)
	g.GET("/watch", h.Watch)
	g.GET("/channel", h.Channel)
	g.GET("/settings", h.Settings)
	g.GET("/publish", h.static("publish.html", "Upload"))
	g.GET("/signin", h.static("login.html", "Sign in"))
	g.GET("/signup", h.static("register.html", "Sign up"))
	g.GET("/robots.txt", h.Robots)
	g.GET("/sitemap.xml", h.Sitemap)
	g.GET("/ip_not_allowed.html", func(c echo.Context) error {
		return c.Render(http.StatusOK, middleware.IPNotAllowedPage, nil)
	})
	g.GET("/you_are_banned.html", func(c echo.Context) error {
		return c.Render(http.StatusOK, middleware.BannedPage, nil)
	})
}

// Index renders the first page of the feed
func (h *PageHandler) Index(c echo.Context) error {
	page, err := h.videos.Feed(c.Request().Context(), 0, services.FeedPageSize)
	if err != nil {
		return httpError(c, err)
	}
	return renderPage(c, h.accounts, "index.html", "", page)
}

// Search renders the first page of search results for ?q=
func (h *PageHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	page, err := h.videos.Search(c.Request().Context(), query, 0, services.FeedPageSize)
	if err != nil {
		return httpError(c, err)
	}
	return renderPage(c, h.accounts, "search.html", query, web.SearchResults{Query: query, Page: page})
}

// Watch renders the video given by ?si= and counts a view
func (h *PageHandler) Watch(c echo.Context) error {
	videoID := c.QueryParam("si")
	if videoID == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Video not found")
	}
	page, err := h.videos.Watch(c.Request().Context(), videoID, middleware.CurrentUserID(c))
	if err != nil {
		return httpError(c, err)
	}
	return renderPage(c, h.accounts, "watch.html", page.Video.Title, page)
}

// Channel renders the channel given by ?id=
func (h *PageHandler) Channel(c echo.Context) error {
	channelID := c.QueryParam("id")
	if channelID == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Channel not found")
	}
	page, err := h.videos.ChannelPage(c.Request().Context(), channelID, middleware.CurrentUserID(c))
	if err != nil {
		return httpError(c, err)
	}
	return renderPage(c, h.accounts, "channel.html", page.Owner.Nickname, page)
}

// Settings renders the profile form of the signed-in user
func (h *PageHandler) Settings(c echo.Context) error {
	var data interface{}
	if id := middleware.CurrentUserID(c); id != 0 {
		if ch, err := h.accounts.ChannelOf(c.Request().Context(), id); err == nil {
			data = ch
		}
	}
	return renderPage(c, h.accounts, "settings.html", "Settings", data)
}

func (h *PageHandler) Robots(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", web.RobotsTxt)
}

func (h *PageHandler) Sitemap(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", web.SitemapXML)
}

func (h *PageHandler) static(name, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return renderPage(c, h.accounts, name, title, nil)
	}
}
