package models

// Channel is the public page of a user. Every user owns exactly one.
type Channel struct {
	ID          string `json:"id"`
	UserID      uint   `json:"user_id"`
	Description string `json:"description"`
	Subscribers []uint `json:"subscribers"`
}

const DefaultChannelDescription = "No description"

// HasSubscriber reports whether userID is subscribed to the channel
func (c *Channel) HasSubscriber(userID uint) bool {
	for _, id := range c.Subscribers {
		if id == userID {
			return true
		}
	}
	return false
}

// SubscriptionRequest defines the form body for subscribe/unsubscribe
type SubscriptionRequest struct {
	ChannelID string `form:"channel_id" validate:"required"`
}

// UpdateDescriptionRequest defines the form body for editing a channel description
type UpdateDescriptionRequest struct {
	Description string `form:"description" validate:"required,max=1000"`
}
