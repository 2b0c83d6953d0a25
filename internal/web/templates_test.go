package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(func(key string) string { return "/static/users/" + key })
	require.NoError(t, err)
	return r
}

func render(t *testing.T, r *Renderer, name string, data interface{}) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data, nil))
	return buf.String()
}

func sampleVideo() models.Video {
	return models.Video{
		ID:          "abcdefghijk",
		UserID:      1,
		ChannelID:   "chan",
		Filename:    "user_1/videos/abcdefghijk.mp4",
		Cover:       "user_1/imgs/abcdefghijk.webp",
		Title:       "<b>Trip</b>",
		Description: `see <a href="https://x.io">https://x.io</a>`,
		Likes:       1500,
		Views:       12,
		UploadDate:  time.Now().Add(-2 * time.Hour),
	}
}

func TestRenderer_Index(t *testing.T) {
	r := newTestRenderer(t)
	out := render(t, r, "index.html", Page{Data: &services.FeedPage{
		Videos: []services.VideoCard{{Video: sampleVideo(), Author: services.Author{Nickname: "neo"}}},
	}})

	assert.Contains(t, out, `href="/watch?si=abcdefghijk"`)
	assert.Contains(t, out, "/static/users/user_1/imgs/abcdefghijk.webp")
	assert.Contains(t, out, "&lt;b&gt;Trip&lt;/b&gt;", "titles are escaped")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, `id="load-more"`)
	assert.Contains(t, out, `data-theme="black"`)
	assert.Contains(t, out, DefaultAvatar)
}

func TestRenderer_Watch(t *testing.T) {
	r := newTestRenderer(t)
	user := &models.User{ID: 2, Nickname: "viewer", Theme: "white"}
	out := render(t, r, "watch.html", Page{User: user, Data: &services.WatchPage{
		Video:   sampleVideo(),
		Author:  services.Author{Nickname: "neo", ChannelID: "chan"},
		Channel: models.Channel{ID: "chan", Subscribers: []uint{2}},
		State:   models.ActionLike,
		Comments: []services.CommentView{{
			ID:      4,
			Text:    "first<br>line",
			State:   models.ActionDislike,
			Author:  services.Author{Nickname: "trinity"},
			Replies: []services.ReplyView{{Reply: models.Reply{ID: 1, Text: "reply"}, Author: services.Author{Nickname: "morpheus"}}},
		}},
		Subscribed: true,
	}})

	assert.Contains(t, out, `data-theme="white"`)
	assert.Contains(t, out, `<a href="https://x.io">https://x.io</a>`, "stored description is already sanitised")
	assert.Contains(t, out, "first<br>line")
	assert.Contains(t, out, "1.5K")
	assert.Contains(t, out, `action="/unsubscribe"`)
	assert.Contains(t, out, `name="parent_id" value="4"`)
	assert.Contains(t, out, "morpheus")
}

func TestRenderer_ChannelAndForms(t *testing.T) {
	r := newTestRenderer(t)
	owner := &models.User{ID: 1, Nickname: "neo"}

	out := render(t, r, "channel.html", Page{User: owner, Data: &services.ChannelPage{
		Channel: models.Channel{ID: "chan", UserID: 1, Description: "<i>hi</i>"},
		Owner:   services.Author{Nickname: "neo"},
		IsOwner: true,
	}})
	assert.Contains(t, out, "&lt;i&gt;hi&lt;/i&gt;")
	assert.Contains(t, out, "No videos yet.")
	assert.NotContains(t, out, `action="/subscribe"`)

	out = render(t, r, "search.html", Page{Data: SearchResults{
		Query: "cats",
		Page:  &services.FeedPage{AllLoaded: true},
	}})
	assert.Contains(t, out, `value="cats"`)
	assert.Contains(t, out, "Nothing found.")

	out = render(t, r, "settings.html", Page{User: owner, Data: &models.Channel{Description: "about"}})
	assert.Contains(t, out, ">about</textarea>")

	for _, name := range []string{"publish.html", "login.html", "register.html"} {
		assert.Contains(t, render(t, r, name, Page{}), "<form", name)
	}
}

func TestRenderer_StandalonePages(t *testing.T) {
	r := newTestRenderer(t)
	assert.Contains(t, render(t, r, "ip_not_allowed.html", nil), "Access denied")
	out := render(t, r, "you_are_banned.html", map[string]interface{}{"UserID": uint(9)})
	assert.Contains(t, out, "Account #9")
	assert.NotContains(t, out, "topbar")

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "missing.html", nil, nil))
}
