package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/anonto42/nano-tube/backend/internal/web"
	"github.com/labstack/echo/v4"
)

// httpError maps a service error onto the status the client sees. 5xx
// errors keep the cause as internal error for the request logger.
func httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// currentUser loads the signed-in user, nil when anonymous or gone
func currentUser(c echo.Context, accounts *services.AccountService) *models.User {
	id := middleware.CurrentUserID(c)
	if id == 0 {
		return nil
	}
	user, err := accounts.GetUser(c.Request().Context(), id)
	if err != nil {
		return nil
	}
	return user
}

func renderPage(c echo.Context, accounts *services.AccountService, name, title string, data interface{}) error {
	return c.Render(http.StatusOK, name, web.Page{
		Title: title,
		User:  currentUser(c, accounts),
		Data:  data,
	})
}

func watchURL(videoID string) string {
	return "/watch?si=" + url.QueryEscape(videoID)
}

func channelURL(channelID string) string {
	return "/channel?id=" + url.QueryEscape(channelID)
}

// backTo returns the referring page when it is on this site, else fallback
func backTo(c echo.Context, fallback string) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" {
		return fallback
	}
	if ref.Host != "" && ref.Host != c.Request().Host {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func seeOther(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func formInt(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.FormValue(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
	}
	return n, nil
}

// formFile opens an uploaded file. A missing field, or a form that is not
// multipart at all, yields a nil file.
func formFile(c echo.Context, name string) (multipart.File, int64, error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s upload", name))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s upload", name))
	}
	return f, fh.Size, nil
}
