package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anonto42/nano-tube/backend/internal/models"
)

var (
	// ErrRecordNotFound is returned by lookups that match no record
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken
	ErrDuplicate = errors.New("duplicate record")
)

// Collection file names inside the data directory
const (
	UsersFile            = "users.json"
	ChannelsFile         = "channels.json"
	VideosFile           = "videos.json"
	CommentsFile         = "comments.json"
	VideoReactionsFile   = "video_reactions.json"
	CommentReactionsFile = "comment_reactions.json"
)

// Store holds every repository backed by the data directory
type Store struct {
	Users            *JSONUserRepository
	Channels         *JSONChannelRepository
	Videos           *JSONVideoRepository
	Comments         *JSONCommentRepository
	VideoReactions   *JSONReactionRepository
	CommentReactions *JSONReactionRepository
}

// OpenStore loads all collections from dir, creating dir when needed
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data dir %s: %v", ErrStorage, dir, err)
	}

	users, err := OpenFileCollection[models.User](filepath.Join(dir, UsersFile))
	if err != nil {
		return nil, err
	}
	channels, err := OpenFileCollection[models.Channel](filepath.Join(dir, ChannelsFile))
	if err != nil {
		return nil, err
	}
	videos, err := OpenFileCollection[models.Video](filepath.Join(dir, VideosFile))
	if err != nil {
		return nil, err
	}
	comments, err := OpenFileCollection[models.Comment](filepath.Join(dir, CommentsFile))
	if err != nil {
		return nil, err
	}
	videoReactions, err := OpenFileCollection[models.ReactionRecord](filepath.Join(dir, VideoReactionsFile))
	if err != nil {
		return nil, err
	}
	commentReactions, err := OpenFileCollection[models.ReactionRecord](filepath.Join(dir, CommentReactionsFile))
	if err != nil {
		return nil, err
	}

	return &Store{
		Users:            NewJSONUserRepository(users),
		Channels:         NewJSONChannelRepository(channels),
		Videos:           NewJSONVideoRepository(videos),
		Comments:         NewJSONCommentRepository(comments),
		VideoReactions:   NewJSONReactionRepository(videoReactions),
		CommentReactions: NewJSONReactionRepository(commentReactions),
	}, nil
}
