package repositories

import (
	"context"
	"sort"
	"time"

	"github.com/anonto42/nano-tube/backend/internal/models"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideoByID(ctx context.Context, id string) (*models.Video, error)
	GetVideos(ctx context.Context) ([]models.Video, error)
	GetVideosByChannelID(ctx context.Context, channelID string) ([]models.Video, error)
	AdjustReactions(ctx context.Context, id string, delta models.ReactionDelta) (*models.Video, error)
	IncrementViews(ctx context.Context, id string) (*models.Video, error)
}

// JSONVideoRepository implements VideoRepository on videos.json
type JSONVideoRepository struct {
	videos *FileCollection[models.Video]
}

// NewJSONVideoRepository creates a new JSONVideoRepository
func NewJSONVideoRepository(videos *FileCollection[models.Video]) *JSONVideoRepository {
	return &JSONVideoRepository{videos: videos}
}

// CreateVideo appends a new video; the caller supplies the id
func (r *JSONVideoRepository) CreateVideo(_ context.Context, video *models.Video) error {
	if video.UploadDate.IsZero() {
		video.UploadDate = time.Now().UTC()
	}
	return r.videos.Mutate(func(items []models.Video) ([]models.Video, error) {
		for _, v := range items {
			if v.ID == video.ID {
				return nil, ErrDuplicate
			}
		}
		return append(items, *video), nil
	})
}

// GetVideoByID retrieves a video by ID
func (r *JSONVideoRepository) GetVideoByID(_ context.Context, id string) (*models.Video, error) {
	v, ok := r.videos.Find(func(v *models.Video) bool { return v.ID == id })
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &v, nil
}

// GetVideos retrieves every video in storage order
func (r *JSONVideoRepository) GetVideos(_ context.Context) ([]models.Video, error) {
	return r.videos.All()
}

// GetVideosByChannelID retrieves a channel's videos, newest first
func (r *JSONVideoRepository) GetVideosByChannelID(ctx context.Context, channelID string) ([]models.Video, error) {
	all, err := r.videos.All()
	if err != nil {
		return nil, err
	}
	out := make([]models.Video, 0)
	for _, v := range all {
		if v.ChannelID == channelID {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadDate.After(out[j].UploadDate)
	})
	return out, nil
}

// AdjustReactions adds delta to the video's like/dislike counters
func (r *JSONVideoRepository) AdjustReactions(_ context.Context, id string, delta models.ReactionDelta) (*models.Video, error) {
	return r.update(id, func(v *models.Video) {
		v.Likes += delta.Likes
		v.Dislikes += delta.Dislikes
	})
}

// IncrementViews counts one more view of the video
func (r *JSONVideoRepository) IncrementViews(_ context.Context, id string) (*models.Video, error) {
	return r.update(id, func(v *models.Video) { v.Views++ })
}

func (r *JSONVideoRepository) update(id string, fn func(v *models.Video)) (*models.Video, error) {
	var updated models.Video
	err := r.videos.Mutate(func(items []models.Video) ([]models.Video, error) {
		for i := range items {
			if items[i].ID == id {
				fn(&items[i])
				updated = items[i]
				return items, nil
			}
		}
		return nil, ErrRecordNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
