package repositories

import (
	"context"
	"sort"

	"github.com/anonto42/nano-tube/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	AddReply(ctx context.Context, parentID int, reply *models.Reply) (*models.Comment, error)
	GetCommentByID(ctx context.Context, id int) (*models.Comment, error)
	GetCommentsByVideoID(ctx context.Context, videoID string) ([]models.Comment, error)
	AdjustReactions(ctx context.Context, id int, delta models.ReactionDelta) (*models.Comment, error)
}

// JSONCommentRepository implements CommentRepository on comments.json
type JSONCommentRepository struct {
	comments *FileCollection[models.Comment]
}

// NewJSONCommentRepository creates a new JSONCommentRepository
func NewJSONCommentRepository(comments *FileCollection[models.Comment]) *JSONCommentRepository {
	return &JSONCommentRepository{comments: comments}
}

// CreateComment assigns max(id)+1, appends the comment and re-sorts the
// whole collection by likes, highest first. Ids are never reused.
func (r *JSONCommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	if comment.Replies == nil {
		comment.Replies = []models.Reply{}
	}
	return r.comments.Mutate(func(items []models.Comment) ([]models.Comment, error) {
		maxID := 0
		for _, c := range items {
			if c.ID > maxID {
				maxID = c.ID
			}
		}
		comment.ID = maxID + 1
		items = append(items, *comment)
		sortByLikes(items)
		return items, nil
	})
}

// AddReply appends reply to the parent's replies with a parent-scoped id
func (r *JSONCommentRepository) AddReply(_ context.Context, parentID int, reply *models.Reply) (*models.Comment, error) {
	var parent models.Comment
	err := r.comments.Mutate(func(items []models.Comment) ([]models.Comment, error) {
		for i := range items {
			if items[i].ID != parentID {
				continue
			}
			maxID := 0
			for _, rp := range items[i].Replies {
				if rp.ID > maxID {
					maxID = rp.ID
				}
			}
			reply.ID = maxID + 1
			items[i].Replies = append(items[i].Replies, *reply)
			parent = items[i]
			return items, nil
		}
		return nil, ErrRecordNotFound
	})
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

// GetCommentByID retrieves a comment by ID
func (r *JSONCommentRepository) GetCommentByID(_ context.Context, id int) (*models.Comment, error) {
	c, ok := r.comments.Find(func(c *models.Comment) bool { return c.ID == id })
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &c, nil
}

// GetCommentsByVideoID retrieves a video's comments, most liked first.
// Ties keep insertion order.
func (r *JSONCommentRepository) GetCommentsByVideoID(_ context.Context, videoID string) ([]models.Comment, error) {
	all, err := r.comments.All()
	if err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0)
	for _, c := range all {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	sortByLikes(out)
	return out, nil
}

// AdjustReactions adds delta to the comment's like/dislike counters
func (r *JSONCommentRepository) AdjustReactions(_ context.Context, id int, delta models.ReactionDelta) (*models.Comment, error) {
	var updated models.Comment
	err := r.comments.Mutate(func(items []models.Comment) ([]models.Comment, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].Likes += delta.Likes
				items[i].Dislikes += delta.Dislikes
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

func sortByLikes(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Likes > comments[j].Likes
	})
}
