package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/anonto42/nano-tube/backend/validators"
	"github.com/sirupsen/logrus"
)

// MaxCommentLength bounds comments and replies, in characters
const MaxCommentLength = 5000

type commentInput struct {
	VideoID string `name:"video id" validate:"required"`
	Text    string `name:"comment" validate:"required,max=5000"`
}

type replyInput struct {
	Text string `name:"reply" validate:"required,max=5000"`
}

// CommentService manages comments and their replies
type CommentService struct {
	users    repositories.UserRepository
	channels repositories.ChannelRepository
	videos   repositories.VideoRepository
	comments repositories.CommentRepository
	logger   *logrus.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	users repositories.UserRepository,
	channels repositories.ChannelRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	logger *logrus.Logger,
) *CommentService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CommentService{users: users, channels: channels, videos: videos, comments: comments, logger: logger}
}

// PostComment adds a top-level comment to a video
func (s *CommentService) PostComment(ctx context.Context, videoID string, userID uint, text string) (*models.Comment, error) {
	in := commentInput{VideoID: strings.TrimSpace(videoID), Text: strings.TrimSpace(text)}
	if err := validators.Struct(in); err != nil {
		return nil, err
	}

	channelID, err := s.authorChannel(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.videos.GetVideoByID(ctx, in.VideoID); err != nil {
		return nil, notFound(err, "video %s", in.VideoID)
	}

	comment := &models.Comment{
		VideoID:   in.VideoID,
		UserID:    userID,
		ChannelID: channelID,
		Text:      FormatCommentText(in.Text),
		Replies:   []models.Reply{},
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"comment_id": comment.ID,
		"video_id":   comment.VideoID,
		"user_id":    userID,
	}).Info("comment posted")
	return comment, nil
}

// PostReply appends a reply to an existing comment
func (s *CommentService) PostReply(ctx context.Context, parentID int, userID uint, text string) (*models.Reply, *models.Comment, error) {
	in := replyInput{Text: strings.TrimSpace(text)}
	if err := validators.Struct(in); err != nil {
		return nil, nil, err
	}

	channelID, err := s.authorChannel(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	reply := &models.Reply{
		UserID:    userID,
		ChannelID: channelID,
		Text:      FormatCommentText(in.Text),
	}
	parent, err := s.comments.AddReply(ctx, parentID, reply)
	if err != nil {
		return nil, nil, notFound(err, "comment %d", parentID)
	}

	s.logger.WithFields(logrus.Fields{
		"comment_id": parentID,
		"reply_id":   reply.ID,
		"user_id":    userID,
	}).Info("reply posted")
	return reply, parent, nil
}

// ListComments returns a video's comments, most liked first
func (s *CommentService) ListComments(ctx context.Context, videoID string) ([]models.Comment, error) {
	return s.comments.GetCommentsByVideoID(ctx, videoID)
}

// authorChannel resolves the channel shown next to userID's comments.
// A user without a channel can still comment; the link is just omitted.
func (s *CommentService) authorChannel(ctx context.Context, userID uint) (string, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return "", notFound(err, "user %d", userID)
	}
	ch, err := s.channels.GetChannelByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return ch.ID, nil
}
