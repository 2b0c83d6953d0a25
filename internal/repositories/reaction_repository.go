package repositories

import (
	"context"

	"github.com/anonto42/nano-tube/backend/internal/models"
)

// ReactionRepository stores the like/dislike ledger of one entity type
type ReactionRepository interface {
	GetRecord(ctx context.Context, entityID string) (*models.ReactionRecord, error)
	SaveRecord(ctx context.Context, record *models.ReactionRecord) error
}

// JSONReactionRepository implements ReactionRepository on a ledger file
type JSONReactionRepository struct {
	records *FileCollection[models.ReactionRecord]
}

// NewJSONReactionRepository creates a new JSONReactionRepository
func NewJSONReactionRepository(records *FileCollection[models.ReactionRecord]) *JSONReactionRepository {
	return &JSONReactionRepository{records: records}
}

// GetRecord returns the ledger of entityID. An entity nobody has reacted to
// yet gets an empty record that is not stored until SaveRecord.
func (r *JSONReactionRepository) GetRecord(_ context.Context, entityID string) (*models.ReactionRecord, error) {
	rec, ok := r.records.Find(func(rec *models.ReactionRecord) bool { return rec.EntityID == entityID })
	if !ok {
		return &models.ReactionRecord{EntityID: entityID, Likes: []uint{}, Dislikes: []uint{}}, nil
	}
	if rec.Likes == nil {
		rec.Likes = []uint{}
	}
	if rec.Dislikes == nil {
		rec.Dislikes = []uint{}
	}
	return &rec, nil
}

// SaveRecord inserts or replaces the ledger of record.EntityID
func (r *JSONReactionRepository) SaveRecord(_ context.Context, record *models.ReactionRecord) error {
	return r.records.Mutate(func(items []models.ReactionRecord) ([]models.ReactionRecord, error) {
		for i := range items {
			if items[i].EntityID == record.EntityID {
				items[i] = *record
				return items, nil
			}
		}
		return append(items, *record), nil
	})
}
