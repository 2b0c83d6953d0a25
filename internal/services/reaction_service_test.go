package services

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactToVideo_Toggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := f.register(t, "owner@example.com")
	viewer, _ := f.register(t, "viewer@example.com")
	v := f.upload(t, owner.ID, "clip")

	res, err := f.svc.Reactions.ReactToVideo(ctx, v.ID, viewer.ID, models.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Likes)
	assert.Equal(t, 0, res.Dislikes)
	assert.Equal(t, models.ActionLike, res.State)

	res, err = f.svc.Reactions.ReactToVideo(ctx, v.ID, viewer.ID, models.ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Likes)
	assert.Equal(t, 1, res.Dislikes)
	assert.Equal(t, models.ActionDislike, res.State)

	res, err = f.svc.Reactions.ReactToVideo(ctx, v.ID, viewer.ID, models.ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Likes)
	assert.Equal(t, 0, res.Dislikes)
	assert.Equal(t, models.Action(""), res.State)

	// self-reaction is allowed
	res, err = f.svc.Reactions.ReactToVideo(ctx, v.ID, owner.ID, models.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Likes)

	stored, err := f.store.Videos.GetVideoByID(ctx, v.ID)
	require.NoError(t, err)
	rec, err := f.store.VideoReactions.GetRecord(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, len(rec.Likes), stored.Likes)
	assert.Equal(t, len(rec.Dislikes), stored.Dislikes)
	assert.Equal(t, models.ActionLike, f.svc.Reactions.VideoReactionState(ctx, v.ID, owner.ID))
}

func TestReactToVideo_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")
	v := f.upload(t, u.ID, "clip")

	_, err := f.svc.Reactions.ReactToVideo(ctx, "nope", u.ID, models.ActionLike)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Reactions.ReactToVideo(ctx, v.ID, 999, models.ActionLike)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Reactions.ReactToVideo(ctx, v.ID, u.ID, models.Action("love"))
	assert.ErrorIs(t, err, ErrValidation)

	// nothing was recorded by the failed calls
	rec, err := f.store.VideoReactions.GetRecord(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, rec.Likes)
	assert.Empty(t, rec.Dislikes)
}

func TestReactToVideo_ConcurrentUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := f.register(t, "owner@example.com")
	v := f.upload(t, owner.ID, "clip")

	const n = 10
	users := make([]uint, n)
	for i := range users {
		u, _ := f.register(t, "user"+strconv.Itoa(i)+"@example.com")
		users[i] = u.ID
	}

	var wg sync.WaitGroup
	for _, id := range users {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := f.svc.Reactions.ReactToVideo(ctx, v.ID, id, models.ActionLike)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	stored, err := f.store.Videos.GetVideoByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, n, stored.Likes)
}

// failingLedger accepts reads but refuses to persist
type failingLedger struct {
	repositories.ReactionRepository
}

func (failingLedger) SaveRecord(context.Context, *models.ReactionRecord) error {
	return repositories.ErrStorage
}

func TestReactToVideo_RollsBackCounterWhenLedgerFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")
	v := f.upload(t, u.ID, "clip")

	logger, hook := test.NewNullLogger()
	svc := NewReactionService(f.store.Users, f.store.Videos, f.store.Comments,
		failingLedger{f.store.VideoReactions}, f.store.CommentReactions, logger)

	_, err := svc.ReactToVideo(ctx, v.ID, u.ID, models.ActionLike)
	assert.ErrorIs(t, err, ErrStorage)

	stored, err := f.store.Videos.GetVideoByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Likes)
	assert.Empty(t, hook.AllEntries(), "rollback succeeded, nothing to report")
}

func TestReactToComment_ReordersListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, _ := f.register(t, "a@example.com")
	other, _ := f.register(t, "b@example.com")
	v := f.upload(t, u.ID, "clip")

	first, err := f.svc.Comments.PostComment(ctx, v.ID, u.ID, "first")
	require.NoError(t, err)
	second, err := f.svc.Comments.PostComment(ctx, v.ID, u.ID, "second")
	require.NoError(t, err)

	res, c, err := f.svc.Reactions.ReactToComment(ctx, second.ID, other.ID, models.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Likes)
	assert.Equal(t, 1, c.Likes)
	assert.Equal(t, v.ID, c.VideoID)

	list, err := f.svc.Comments.ListComments(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	_, _, err = f.svc.Reactions.ReactToComment(ctx, 404, other.ID, models.ActionLike)
	assert.ErrorIs(t, err, ErrNotFound)
}
