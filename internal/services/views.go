package services

import (
	"context"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/repositories"
)

// Author is the public identity shown next to videos and comments
type Author struct {
	UserID    uint   `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
}

// VideoCard is a video in a listing
type VideoCard struct {
	models.Video
	Author Author `json:"author"`
}

// ReplyView is a reply with its author
type ReplyView struct {
	models.Reply
	Author Author `json:"author"`
}

// CommentView is a comment with its author, replies and the viewer's reaction
type CommentView struct {
	ID       int           `json:"id"`
	VideoID  string        `json:"video_id"`
	Text     string        `json:"text"`
	Likes    int           `json:"likes"`
	Dislikes int           `json:"dislikes"`
	State    models.Action `json:"state"`
	Author   Author        `json:"author"`
	Replies  []ReplyView   `json:"replies"`
}

// FeedPage is one page of a video listing
type FeedPage struct {
	Videos    []VideoCard `json:"videos"`
	AllLoaded bool        `json:"all_videos_loaded"`
}

// WatchPage is everything the watch page renders
type WatchPage struct {
	Video       models.Video
	Author      Author
	Channel     models.Channel
	Comments    []CommentView
	State       models.Action // viewer's reaction on the video
	Subscribed  bool
	IsOwner     bool
	Recommended []VideoCard
}

// ChannelPage is everything the channel page renders
type ChannelPage struct {
	Channel    models.Channel
	Owner      Author
	Videos     []VideoCard
	Subscribed bool
	IsOwner    bool
}

// authorCache resolves authors once per request
type authorCache struct {
	users    repositories.UserRepository
	channels repositories.ChannelRepository
	seen     map[uint]Author
}

func newAuthorCache(users repositories.UserRepository, channels repositories.ChannelRepository) *authorCache {
	return &authorCache{users: users, channels: channels, seen: make(map[uint]Author)}
}

// get never fails: a deleted or broken account renders as an anonymous author
func (c *authorCache) get(ctx context.Context, userID uint) Author {
	if a, ok := c.seen[userID]; ok {
		return a
	}
	a := Author{UserID: userID}
	if u, err := c.users.GetUserByID(ctx, userID); err == nil {
		a.Nickname = u.Nickname
		a.Avatar = u.Avatar
	}
	if ch, err := c.channels.GetChannelByUserID(ctx, userID); err == nil {
		a.ChannelID = ch.ID
	}
	c.seen[userID] = a
	return a
}

func (c *authorCache) cards(ctx context.Context, videos []models.Video) []VideoCard {
	out := make([]VideoCard, 0, len(videos))
	for _, v := range videos {
		out = append(out, VideoCard{Video: v, Author: c.get(ctx, v.UserID)})
	}
	return out
}
