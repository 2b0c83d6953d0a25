package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// SubscriptionService manages channel subscriber lists
type SubscriptionService struct {
	users    repositories.UserRepository
	channels repositories.ChannelRepository
	logger   *logrus.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(users repositories.UserRepository, channels repositories.ChannelRepository, logger *logrus.Logger) *SubscriptionService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SubscriptionService{users: users, channels: channels, logger: logger}
}

// Subscribe adds userID to the channel's subscribers. Subscribing twice is a no-op.
func (s *SubscriptionService) Subscribe(ctx context.Context, channelID string, userID uint) (*models.Channel, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, notFound(err, "user %d", userID)
	}
	ch, err := s.channels.UpdateChannel(ctx, channelID, func(c *models.Channel) error {
		if c.UserID == userID {
			return fmt.Errorf("%w: cannot subscribe to your own channel", ErrConflict)
		}
		if !c.HasSubscriber(userID) {
			c.Subscribers = append(c.Subscribers, userID)
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err, "channel %s", channelID)
	}

	s.logger.WithFields(logrus.Fields{"channel_id": channelID, "user_id": userID}).Info("subscribed")
	return ch, nil
}

// Unsubscribe removes userID from the channel's subscribers
func (s *SubscriptionService) Unsubscribe(ctx context.Context, channelID string, userID uint) (*models.Channel, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, notFound(err, "user %d", userID)
	}
	ch, err := s.channels.UpdateChannel(ctx, channelID, func(c *models.Channel) error {
		if c.UserID == userID {
			return fmt.Errorf("%w: cannot unsubscribe from your own channel", ErrConflict)
		}
		for i, id := range c.Subscribers {
			if id == userID {
				c.Subscribers = append(c.Subscribers[:i], c.Subscribers[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: not subscribed to channel %s", ErrConflict, channelID)
	})
	if err != nil {
		return nil, notFound(err, "channel %s", channelID)
	}

	s.logger.WithFields(logrus.Fields{"channel_id": channelID, "user_id": userID}).Info("unsubscribed")
	return ch, nil
}

// IsSubscribed reports whether userID follows the channel
func (s *SubscriptionService) IsSubscribed(ctx context.Context, channelID string, userID uint) bool {
	ch, err := s.channels.GetChannelByID(ctx, channelID)
	if err != nil {
		return false
	}
	return ch.HasSubscriber(userID)
}
