package services

import (
	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// Services bundles every service the handlers use
type Services struct {
	Accounts      *AccountService
	Videos        *VideoService
	Comments      *CommentService
	Reactions     *ReactionService
	Subscriptions *SubscriptionService
}

// New wires all services onto one store
func New(store *repositories.Store, mediaProcessor MediaProcessor, logger *logrus.Logger) *Services {
	return &Services{
		Accounts:      NewAccountService(store.Users, store.Channels, mediaProcessor, logger),
		Videos:        NewVideoService(store, mediaProcessor, logger),
		Comments:      NewCommentService(store.Users, store.Channels, store.Videos, store.Comments, logger),
		Reactions:     NewReactionService(store.Users, store.Videos, store.Comments, store.VideoReactions, store.CommentReactions, logger),
		Subscriptions: NewSubscriptionService(store.Users, store.Channels, logger),
	}
}
