package repositories

import (
	"context"

	"github.com/anonto42/nano-tube/backend/internal/models"
)

// ChannelRepository defines the interface for channel data operations
type ChannelRepository interface {
	CreateChannel(ctx context.Context, channel *models.Channel) error
	GetChannelByID(ctx context.Context, id string) (*models.Channel, error)
	GetChannelByUserID(ctx context.Context, userID uint) (*models.Channel, error)
	UpdateChannel(ctx context.Context, id string, fn func(channel *models.Channel) error) (*models.Channel, error)
}

// JSONChannelRepository implements ChannelRepository on channels.json
type JSONChannelRepository struct {
	channels *FileCollection[models.Channel]
}

// NewJSONChannelRepository creates a new JSONChannelRepository
func NewJSONChannelRepository(channels *FileCollection[models.Channel]) *JSONChannelRepository {
	return &JSONChannelRepository{channels: channels}
}

// CreateChannel appends a channel; ids and owners must be unique
func (r *JSONChannelRepository) CreateChannel(_ context.Context, channel *models.Channel) error {
	if channel.Subscribers == nil {
		channel.Subscribers = []uint{}
	}
	return r.channels.Mutate(func(items []models.Channel) ([]models.Channel, error) {
		for _, c := range items {
			if c.ID == channel.ID || c.UserID == channel.UserID {
				return nil, ErrDuplicate
			}
		}
		return append(items, *channel), nil
	})
}

// GetChannelByID retrieves a channel by ID
func (r *JSONChannelRepository) GetChannelByID(_ context.Context, id string) (*models.Channel, error) {
	c, ok := r.channels.Find(func(c *models.Channel) bool { return c.ID == id })
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &c, nil
}

// GetChannelByUserID retrieves the channel owned by a user
func (r *JSONChannelRepository) GetChannelByUserID(_ context.Context, userID uint) (*models.Channel, error) {
	c, ok := r.channels.Find(func(c *models.Channel) bool { return c.UserID == userID })
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &c, nil
}

// UpdateChannel runs fn against the stored channel and persists the result
func (r *JSONChannelRepository) UpdateChannel(_ context.Context, id string, fn func(channel *models.Channel) error) (*models.Channel, error) {
	var updated models.Channel
	err := r.channels.Mutate(func(items []models.Channel) ([]models.Channel, error) {
		for i := range items {
			if items[i].ID == id {
				if err := fn(&items[i]); err != nil {
					return nil, err
				}
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
