package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// ReactionResult is the state of an entity after a toggle
type ReactionResult struct {
	EntityID string        `json:"entity_id"`
	Likes    int           `json:"likes"`
	Dislikes int           `json:"dislikes"`
	State    models.Action `json:"state"` // what the user holds now, "" for nothing
}

// ReactionService keeps the like/dislike ledgers and the denormalised
// counters on videos and comments in step.
type ReactionService struct {
	mu            sync.Mutex
	users         repositories.UserRepository
	videos        repositories.VideoRepository
	comments      repositories.CommentRepository
	videoLedger   repositories.ReactionRepository
	commentLedger repositories.ReactionRepository
	logger        *logrus.Logger
}

// NewReactionService creates a new ReactionService
func NewReactionService(
	users repositories.UserRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	videoLedger repositories.ReactionRepository,
	commentLedger repositories.ReactionRepository,
	logger *logrus.Logger,
) *ReactionService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReactionService{
		users:         users,
		videos:        videos,
		comments:      comments,
		videoLedger:   videoLedger,
		commentLedger: commentLedger,
		logger:        logger,
	}
}

// ReactToVideo toggles action by userID on a video
func (s *ReactionService) ReactToVideo(ctx context.Context, videoID string, userID uint, action models.Action) (*ReactionResult, error) {
	if _, err := models.ParseAction(string(action)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.videos.GetVideoByID(ctx, videoID); err != nil {
		return nil, notFound(err, "video %s", videoID)
	}

	return s.apply(ctx, s.videoLedger, videoID, userID, action, func(d models.ReactionDelta) (int, int, error) {
		v, err := s.videos.AdjustReactions(ctx, videoID, d)
		if err != nil {
			return 0, 0, err
		}
		return v.Likes, v.Dislikes, nil
	})
}

// ReactToComment toggles action by userID on a comment
func (s *ReactionService) ReactToComment(ctx context.Context, commentID int, userID uint, action models.Action) (*ReactionResult, *models.Comment, error) {
	if _, err := models.ParseAction(string(action)); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, nil, err
	}
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, nil, notFound(err, "comment %d", commentID)
	}

	res, err := s.apply(ctx, s.commentLedger, strconv.Itoa(commentID), userID, action, func(d models.ReactionDelta) (int, int, error) {
		c, err := s.comments.AdjustReactions(ctx, commentID, d)
		if err != nil {
			return 0, 0, err
		}
		return c.Likes, c.Dislikes, nil
	})
	if err != nil {
		return nil, nil, err
	}
	comment.Likes, comment.Dislikes = res.Likes, res.Dislikes
	return res, comment, nil
}

// VideoReactionState reports what userID currently holds on a video
func (s *ReactionService) VideoReactionState(ctx context.Context, videoID string, userID uint) models.Action {
	rec, err := s.videoLedger.GetRecord(ctx, videoID)
	if err != nil {
		return ""
	}
	return rec.State(userID)
}

// apply toggles the ledger, moves the entity counters and persists both.
// When the ledger cannot be saved the counter change is reverted.
func (s *ReactionService) apply(
	ctx context.Context,
	ledger repositories.ReactionRepository,
	entityID string,
	userID uint,
	action models.Action,
	adjust func(models.ReactionDelta) (likes, dislikes int, err error),
) (*ReactionResult, error) {
	rec, err := ledger.GetRecord(ctx, entityID)
	if err != nil {
		return nil, err
	}
	delta := rec.Toggle(userID, action)

	likes, dislikes, err := adjust(delta)
	if err != nil {
		return nil, err
	}

	if err := ledger.SaveRecord(ctx, rec); err != nil {
		inverse := models.ReactionDelta{Likes: -delta.Likes, Dislikes: -delta.Dislikes}
		if _, _, rbErr := adjust(inverse); rbErr != nil {
			s.logger.WithFields(logrus.Fields{
				"entity_id": entityID,
				"user_id":   userID,
				"error":     rbErr,
			}).Error("failed to roll back reaction counters")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"entity_id": entityID,
		"user_id":   userID,
		"action":    action,
		"likes":     likes,
		"dislikes":  dislikes,
	}).Debug("reaction toggled")

	return &ReactionResult{EntityID: entityID, Likes: likes, Dislikes: dislikes, State: rec.State(userID)}, nil
}

func (s *ReactionService) requireUser(ctx context.Context, userID uint) error {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return notFound(err, "user %d", userID)
	}
	return nil
}

// notFound rewraps a repository miss with the name of what was missing
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
