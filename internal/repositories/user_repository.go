package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/nano-tube/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	NicknameTaken(ctx context.Context, nickname string) bool
	UpdateUser(ctx context.Context, id uint, fn func(user *models.User) error) (*models.User, error)
	RenameUser(ctx context.Context, id uint, nickname string) (*models.User, error)
}

// JSONUserRepository implements UserRepository on users.json
type JSONUserRepository struct {
	users *FileCollection[models.User]
}

// NewJSONUserRepository creates a new JSONUserRepository
func NewJSONUserRepository(users *FileCollection[models.User]) *JSONUserRepository {
	return &JSONUserRepository{users: users}
}

// CreateUser assigns the next id and appends the user. Emails are unique.
func (r *JSONUserRepository) CreateUser(_ context.Context, user *models.User) error {
	return r.users.Mutate(func(items []models.User) ([]models.User, error) {
		var maxID uint
		for _, u := range items {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, ErrDuplicate
			}
			if u.ID > maxID {
				maxID = u.ID
			}
		}
		user.ID = maxID + 1
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now().UTC()
		}
		return append(items, *user), nil
	})
}

// GetUserByID retrieves a user by ID
func (r *JSONUserRepository) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users.Find(func(u *models.User) bool { return u.ID == id })
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (r *JSONUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.users.Find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &u, nil
}

// NicknameTaken reports whether another user already uses nickname
func (r *JSONUserRepository) NicknameTaken(_ context.Context, nickname string) bool {
	_, ok := r.users.Find(func(u *models.User) bool { return u.Nickname == nickname })
	return ok
}

// UpdateUser runs fn against the stored user and persists the result
func (r *JSONUserRepository) UpdateUser(_ context.Context, id uint, fn func(user *models.User) error) (*models.User, error) {
	var updated models.User
	err := r.users.Mutate(func(items []models.User) ([]models.User, error) {
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

// RenameUser sets the nickname of user id. The uniqueness check and the write
// happen under one lock, so two users can never end up with the same name.
func (r *JSONUserRepository) RenameUser(_ context.Context, id uint, nickname string) (*models.User, error) {
	var updated models.User
	err := r.users.Mutate(func(items []models.User) ([]models.User, error) {
		idx := -1
		for i := range items {
			switch {
			case items[i].ID == id:
				idx = i
			case items[i].Nickname == nickname:
				return nil, ErrDuplicate
			}
		}
		if idx < 0 {
			return nil, ErrRecordNotFound
		}
		items[idx].Nickname = nickname
		updated = items[idx]
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
