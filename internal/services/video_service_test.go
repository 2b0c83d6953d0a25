package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, ch := f.register(t, "a@example.com")

	v, err := f.svc.Videos.Upload(ctx, u.ID, UploadInput{
		Title:       "  My trip ",
		Description: "day 1\nhttps://maps.example.com",
		Video:       strings.NewReader("mp4 bytes"),
		VideoSize:   9,
		Cover:       strings.NewReader("png bytes"),
	})
	require.NoError(t, err)

	assert.Len(t, v.ID, videoIDLength)
	assert.Equal(t, "My trip", v.Title)
	assert.Equal(t, ch.ID, v.ChannelID)
	assert.Equal(t, fmt.Sprintf("user_%d/videos/%s.mp4", u.ID, v.ID), v.Filename)
	assert.Equal(t, fmt.Sprintf("user_%d/imgs/%s.webp", u.ID, v.ID), v.Cover)
	assert.Equal(t, `day 1<br><a href="https://maps.example.com">https://maps.example.com</a>`, v.Description)
	assert.Equal(t, []byte("mp4 bytes"), f.media.objects[v.Filename])
	assert.Equal(t, [2]int{640, 360}, f.media.sizes[v.Cover])
	assert.False(t, v.UploadDate.IsZero())

	stored, err := f.svc.Videos.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Title, stored.Title)
}

func TestUpload_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")

	tests := []struct {
		name    string
		userID  uint
		in      UploadInput
		wantErr error
	}{
		{"missing title", u.ID, UploadInput{Video: strings.NewReader("v"), Cover: strings.NewReader("c")}, ErrValidation},
		{"long title", u.ID, UploadInput{Title: strings.Repeat("t", 101), Video: strings.NewReader("v"), Cover: strings.NewReader("c")}, ErrValidation},
		{"missing video", u.ID, UploadInput{Title: "t", Cover: strings.NewReader("c")}, ErrValidation},
		{"missing cover", u.ID, UploadInput{Title: "t", Video: strings.NewReader("v")}, ErrValidation},
		{"unknown user", 99, UploadInput{Title: "t", Video: strings.NewReader("v"), Cover: strings.NewReader("c")}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Videos.Upload(ctx, tt.userID, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	all, err := f.store.Videos.GetVideos(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpload_MediaFailureRecordsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")
	f.media.err = fmt.Errorf("disk full")

	_, err := f.svc.Videos.Upload(ctx, u.ID, UploadInput{Title: "t", Video: strings.NewReader("v"), Cover: strings.NewReader("c")})
	assert.Error(t, err)

	all, err := f.store.Videos.GetVideos(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpload_CoverFailureRemovesStoredVideo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")
	f.media.imageErr = fmt.Errorf("ffmpeg crashed")

	_, err := f.svc.Videos.Upload(ctx, u.ID, UploadInput{Title: "t", Video: strings.NewReader("v"), Cover: strings.NewReader("c")})
	assert.Error(t, err)

	assert.Empty(t, f.media.objects)
	require.Len(t, f.media.deleted, 1)
	assert.True(t, strings.HasSuffix(f.media.deleted[0], ".mp4"))
	all, err := f.store.Videos.GetVideos(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFeed_OrderAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")

	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, f.upload(t, u.ID, fmt.Sprintf("video %d", i)).ID)
	}
	_, err := f.store.Videos.AdjustReactions(ctx, ids[3], models.ReactionDelta{Likes: 5})
	require.NoError(t, err)
	_, err = f.store.Videos.AdjustReactions(ctx, ids[1], models.ReactionDelta{Likes: 1, Dislikes: 3})
	require.NoError(t, err)

	page, err := f.svc.Videos.Feed(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page.Videos, 2)
	assert.False(t, page.AllLoaded)
	assert.Equal(t, ids[3], page.Videos[0].ID)
	assert.Equal(t, ids[0], page.Videos[1].ID, "ties keep upload order")
	assert.Equal(t, u.Nickname, page.Videos[0].Author.Nickname)

	page, err = f.svc.Videos.Feed(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[4]}, cardIDs(page.Videos))

	page, err = f.svc.Videos.Feed(ctx, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[1]}, cardIDs(page.Videos))
	assert.True(t, page.AllLoaded)

	page, err = f.svc.Videos.Feed(ctx, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Videos)
	assert.True(t, page.AllLoaded)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")
	cat := f.upload(t, u.ID, "Funny CATS")
	f.upload(t, u.ID, "dogs")

	page, err := f.svc.Videos.Search(ctx, "cats", 0, FeedPageSize)
	require.NoError(t, err)
	assert.Equal(t, []string{cat.ID}, cardIDs(page.Videos))
	assert.True(t, page.AllLoaded)

	page, err = f.svc.Videos.Search(ctx, "birds", 0, FeedPageSize)
	require.NoError(t, err)
	assert.Empty(t, page.Videos)

	page, err = f.svc.Videos.Search(ctx, "  ", 0, FeedPageSize)
	require.NoError(t, err)
	assert.Empty(t, page.Videos)
	assert.True(t, page.AllLoaded)
}

func TestSearch_KeepsUploadOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")
	fan, _ := f.register(t, "fan@example.com")
	first := f.upload(t, u.ID, "cat one")
	second := f.upload(t, u.ID, "cat two")
	_, err := f.svc.Reactions.ReactToVideo(ctx, second.ID, fan.ID, models.ActionLike)
	require.NoError(t, err)

	page, err := f.svc.Videos.Search(ctx, "cat", 0, FeedPageSize)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, cardIDs(page.Videos))

	feed, err := f.svc.Videos.Feed(ctx, 0, FeedPageSize)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, cardIDs(feed.Videos), "the feed is ranked, search is not")
}

func TestWatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, ch := f.register(t, "owner@example.com")
	viewer, _ := f.register(t, "viewer@example.com")
	v := f.upload(t, owner.ID, "main")
	other := f.upload(t, owner.ID, "other")

	c, err := f.svc.Comments.PostComment(ctx, v.ID, viewer.ID, "nice")
	require.NoError(t, err)
	_, _, err = f.svc.Comments.PostReply(ctx, c.ID, owner.ID, "thanks")
	require.NoError(t, err)
	_, _, err = f.svc.Reactions.ReactToComment(ctx, c.ID, viewer.ID, models.ActionDislike)
	require.NoError(t, err)
	_, err = f.svc.Reactions.ReactToVideo(ctx, v.ID, viewer.ID, models.ActionLike)
	require.NoError(t, err)
	_, err = f.svc.Subscriptions.Subscribe(ctx, ch.ID, viewer.ID)
	require.NoError(t, err)

	page, err := f.svc.Videos.Watch(ctx, v.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Video.Views)
	assert.Equal(t, 1, page.Video.Likes)
	assert.Equal(t, models.ActionLike, page.State)
	assert.True(t, page.Subscribed)
	assert.False(t, page.IsOwner)
	assert.Equal(t, ch.ID, page.Channel.ID)
	assert.Equal(t, owner.Nickname, page.Author.Nickname)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, models.ActionDislike, page.Comments[0].State)
	assert.Equal(t, viewer.Nickname, page.Comments[0].Author.Nickname)
	require.Len(t, page.Comments[0].Replies, 1)
	assert.Equal(t, owner.Nickname, page.Comments[0].Replies[0].Author.Nickname)
	assert.Equal(t, []string{other.ID}, cardIDs(page.Recommended))

	anon, err := f.svc.Videos.Watch(ctx, v.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, anon.Video.Views)
	assert.Equal(t, models.Action(""), anon.State)
	assert.False(t, anon.Subscribed)

	_, err = f.svc.Videos.Watch(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChannelPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, ch := f.register(t, "owner@example.com")
	first := f.upload(t, owner.ID, "first")
	second := f.upload(t, owner.ID, "second")

	page, err := f.svc.Videos.ChannelPage(ctx, ch.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, page.IsOwner)
	assert.Equal(t, owner.Nickname, page.Owner.Nickname)
	require.Len(t, page.Videos, 2)
	// same-second uploads keep insertion order, so only check membership
	assert.ElementsMatch(t, []string{first.ID, second.ID}, cardIDs(page.Videos))

	_, err = f.svc.Videos.ChannelPage(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func cardIDs(cards []VideoCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}
