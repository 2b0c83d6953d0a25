package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/anonto42/nano-tube/backend/pkg/media"
	"github.com/anonto42/nano-tube/backend/validators"
	"github.com/sirupsen/logrus"
)

const (
	// FeedPageSize is the number of videos per feed or search page
	FeedPageSize = 24
	// recommendedCount is the length of the watch page sidebar
	recommendedCount = 12
)

// UploadInput carries the fields of the upload form
type UploadInput struct {
	Title       string    `name:"title" validate:"required,max=100"`
	Description string    `name:"description" validate:"max=5000"`
	Video       io.Reader `validate:"-"`
	VideoSize   int64     `validate:"-"`
	Cover       io.Reader `validate:"-"`
}

// VideoService handles uploads and every video listing
type VideoService struct {
	users         repositories.UserRepository
	channels      repositories.ChannelRepository
	videos        repositories.VideoRepository
	comments      repositories.CommentRepository
	videoLedger   repositories.ReactionRepository
	commentLedger repositories.ReactionRepository
	media         MediaProcessor
	logger        *logrus.Logger
}

// NewVideoService creates a new VideoService from an opened store
func NewVideoService(store *repositories.Store, mediaProcessor MediaProcessor, logger *logrus.Logger) *VideoService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &VideoService{
		users:         store.Users,
		channels:      store.Channels,
		videos:        store.Videos,
		comments:      store.Comments,
		videoLedger:   store.VideoReactions,
		commentLedger: store.CommentReactions,
		media:         mediaProcessor,
		logger:        logger,
	}
}

// Upload stores the video file and its resized cover, then records the video
func (s *VideoService) Upload(ctx context.Context, userID uint, in UploadInput) (*models.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validators.Struct(in); err != nil {
		return nil, err
	}
	if in.Video == nil {
		return nil, fmt.Errorf("%w: video file is required", ErrValidation)
	}
	if in.Cover == nil {
		return nil, fmt.Errorf("%w: cover image is required", ErrValidation)
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, notFound(err, "user %d", userID)
	}
	channel, err := s.channels.GetChannelByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "channel of user %d", userID)
	}

	id, err := s.newVideoID(ctx)
	if err != nil {
		return nil, err
	}
	video := &models.Video{
		ID:          id,
		UserID:      userID,
		ChannelID:   channel.ID,
		Filename:    fmt.Sprintf("user_%d/videos/%s.mp4", userID, id),
		Cover:       fmt.Sprintf("user_%d/imgs/%s.webp", userID, id),
		Title:       in.Title,
		Description: FormatCommentText(in.Description),
	}

	if err := s.media.SaveFile(ctx, video.Filename, in.Video, in.VideoSize); err != nil {
		return nil, fmt.Errorf("failed to save video: %w", err)
	}
	if err := s.media.SaveImage(ctx, video.Cover, in.Cover, media.CoverWidth, media.CoverHeight); err != nil {
		discardMedia(ctx, s.media, s.logger, video.Filename)
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}
	if err := s.videos.CreateVideo(ctx, video); err != nil {
		discardMedia(ctx, s.media, s.logger, video.Filename, video.Cover)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"video_id":   video.ID,
		"user_id":    userID,
		"channel_id": channel.ID,
	}).Info("video uploaded")
	return video, nil
}

// Feed returns a page of the home feed, best rated first
func (s *VideoService) Feed(ctx context.Context, offset, limit int) (*FeedPage, error) {
	videos, err := s.videos.GetVideos(ctx)
	if err != nil {
		return nil, err
	}
	sortByScore(videos)
	return s.page(ctx, videos, offset, limit), nil
}

// Search returns a page of videos whose title or description contains query,
// in upload order. An empty query matches nothing.
func (s *VideoService) Search(ctx context.Context, query string, offset, limit int) (*FeedPage, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return &FeedPage{Videos: []VideoCard{}, AllLoaded: true}, nil
	}
	videos, err := s.videos.GetVideos(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Video, 0)
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), q) || strings.Contains(strings.ToLower(v.Description), q) {
			matched = append(matched, v)
		}
	}
	return s.page(ctx, matched, offset, limit), nil
}

// GetVideo retrieves a single video
func (s *VideoService) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	v, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, notFound(err, "video %s", videoID)
	}
	return v, nil
}

// Watch counts a view and assembles the watch page. viewerID 0 is anonymous.
func (s *VideoService) Watch(ctx context.Context, videoID string, viewerID uint) (*WatchPage, error) {
	video, err := s.videos.IncrementViews(ctx, videoID)
	if err != nil {
		return nil, notFound(err, "video %s", videoID)
	}

	authors := newAuthorCache(s.users, s.channels)
	page := &WatchPage{
		Video:   *video,
		Author:  authors.get(ctx, video.UserID),
		IsOwner: viewerID != 0 && viewerID == video.UserID,
	}

	if ch, err := s.channels.GetChannelByID(ctx, video.ChannelID); err == nil {
		page.Channel = *ch
		page.Subscribed = viewerID != 0 && ch.HasSubscriber(viewerID)
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}

	if viewerID != 0 {
		rec, err := s.videoLedger.GetRecord(ctx, video.ID)
		if err != nil {
			return nil, err
		}
		page.State = rec.State(viewerID)
	}

	comments, err := s.comments.GetCommentsByVideoID(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	page.Comments = make([]CommentView, 0, len(comments))
	for _, c := range comments {
		view := CommentView{
			ID:       c.ID,
			VideoID:  c.VideoID,
			Text:     c.Text,
			Likes:    c.Likes,
			Dislikes: c.Dislikes,
			Author:   authors.get(ctx, c.UserID),
			Replies:  make([]ReplyView, 0, len(c.Replies)),
		}
		if viewerID != 0 {
			rec, err := s.commentLedger.GetRecord(ctx, strconv.Itoa(c.ID))
			if err != nil {
				return nil, err
			}
			view.State = rec.State(viewerID)
		}
		for _, r := range c.Replies {
			view.Replies = append(view.Replies, ReplyView{Reply: r, Author: authors.get(ctx, r.UserID)})
		}
		page.Comments = append(page.Comments, view)
	}

	all, err := s.videos.GetVideos(ctx)
	if err != nil {
		return nil, err
	}
	sortByScore(all)
	others := make([]models.Video, 0, recommendedCount)
	for _, v := range all {
		if v.ID == video.ID {
			continue
		}
		others = append(others, v)
		if len(others) == recommendedCount {
			break
		}
	}
	page.Recommended = authors.cards(ctx, others)

	return page, nil
}

// ChannelPage assembles a channel with its videos, newest first
func (s *VideoService) ChannelPage(ctx context.Context, channelID string, viewerID uint) (*ChannelPage, error) {
	ch, err := s.channels.GetChannelByID(ctx, channelID)
	if err != nil {
		return nil, notFound(err, "channel %s", channelID)
	}
	videos, err := s.videos.GetVideosByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	authors := newAuthorCache(s.users, s.channels)
	return &ChannelPage{
		Channel:    *ch,
		Owner:      authors.get(ctx, ch.UserID),
		Videos:     authors.cards(ctx, videos),
		Subscribed: viewerID != 0 && ch.HasSubscriber(viewerID),
		IsOwner:    viewerID != 0 && viewerID == ch.UserID,
	}, nil
}

// MediaURL returns the public URL of a stored media key
func (s *VideoService) MediaURL(key string) string {
	return s.media.URL(key)
}

// StaticURL is the prefix clients put in front of media keys
func (s *VideoService) StaticURL() string {
	return s.media.BaseURL()
}

func (s *VideoService) page(ctx context.Context, videos []models.Video, offset, limit int) *FeedPage {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = FeedPageSize
	}
	if offset > len(videos) {
		offset = len(videos)
	}
	end := offset + limit
	if end > len(videos) {
		end = len(videos)
	}
	window := videos[offset:end]
	return &FeedPage{
		Videos:    newAuthorCache(s.users, s.channels).cards(ctx, window),
		AllLoaded: len(window) < limit,
	}
}

func (s *VideoService) newVideoID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := randomString(videoIDLength)
		_, err := s.videos.GetVideoByID(ctx, id)
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: could not allocate a video id", ErrStorage)
}

func sortByScore(videos []models.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Score() > videos[j].Score()
	})
}
