package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/anonto42/nano-tube/backend/pkg/media"
	"github.com/anonto42/nano-tube/backend/validators"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries a sign-up form. Avatar is optional.
type RegisterInput struct {
	Email    string    `name:"email" validate:"required,email,max=254"`
	Password string    `name:"password" validate:"required,min=6,max=72"`
	Avatar   io.Reader `validate:"-"`
}

type nicknameInput struct {
	Nickname string `name:"nickname" validate:"required,min=1,max=50"`
}

type themeInput struct {
	Theme string `name:"theme" validate:"required,oneof=black white"`
}

type descriptionInput struct {
	Description string `name:"description" validate:"required,max=1000"`
}

// maxPasswordBytes is bcrypt's input limit; the max tag above counts characters
const maxPasswordBytes = 72

var errBadCredentials = fmt.Errorf("%w: invalid email or password", ErrValidation)

// AccountService handles registration, sign-in and profile edits
type AccountService struct {
	users    repositories.UserRepository
	channels repositories.ChannelRepository
	media    MediaProcessor
	logger   *logrus.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	users repositories.UserRepository,
	channels repositories.ChannelRepository,
	mediaProcessor MediaProcessor,
	logger *logrus.Logger,
) *AccountService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AccountService{users: users, channels: channels, media: mediaProcessor, logger: logger}
}

// Register creates a user together with their channel
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Channel, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validators.Struct(in); err != nil {
		return nil, nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, nil, fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordBytes)
	}
	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Nickname: s.uniqueNickname(ctx),
		Email:    in.Email,
		Password: string(hashed),
		Group:    models.DefaultGroup,
		Theme:    models.DefaultTheme,
	}
	if in.Avatar != nil {
		key, err := s.saveAvatar(ctx, in.Avatar)
		if err != nil {
			return nil, nil, err
		}
		user.Avatar = key
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if user.Avatar != "" {
			discardMedia(ctx, s.media, s.logger, user.Avatar)
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, nil, err
	}

	channel, err := s.ensureChannel(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "channel_id": channel.ID}).Info("user registered")
	return user, channel, nil
}

// Authenticate checks credentials and returns the user and their channel
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, *models.Channel, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, nil, errBadCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, errBadCredentials
	}

	// Accounts whose channel write failed at registration get one now.
	channel, err := s.ensureChannel(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, channel, nil
}

// GetUser retrieves a user by id
func (s *AccountService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user %d", userID)
	}
	return user, nil
}

// ChannelOf returns the channel owned by userID
func (s *AccountService) ChannelOf(ctx context.Context, userID uint) (*models.Channel, error) {
	ch, err := s.channels.GetChannelByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "channel of user %d", userID)
	}
	return ch, nil
}

// UpdateNickname renames a user. Nicknames are unique.
func (s *AccountService) UpdateNickname(ctx context.Context, userID uint, nickname string) (*models.User, error) {
	in := nicknameInput{Nickname: strings.TrimSpace(nickname)}
	if err := validators.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.users.RenameUser(ctx, userID, in.Nickname)
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return nil, fmt.Errorf("%w: nickname %q is taken", ErrConflict, in.Nickname)
	case err != nil:
		return nil, notFound(err, "user %d", userID)
	}
	return user, nil
}

// UpdateAvatar replaces a user's avatar with a resized copy of src
func (s *AccountService) UpdateAvatar(ctx context.Context, userID uint, src io.Reader) (*models.User, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, notFound(err, "user %d", userID)
	}
	key, err := s.saveAvatar(ctx, src)
	if err != nil {
		return nil, err
	}
	user, err := s.update(ctx, userID, func(u *models.User) error {
		u.Avatar = key
		return nil
	})
	if err != nil {
		discardMedia(ctx, s.media, s.logger, key)
		return nil, err
	}
	return user, nil
}

// UpdateTheme switches the UI theme of a user
func (s *AccountService) UpdateTheme(ctx context.Context, userID uint, theme string) (*models.User, error) {
	in := themeInput{Theme: strings.TrimSpace(theme)}
	if err := validators.Struct(in); err != nil {
		return nil, err
	}
	return s.update(ctx, userID, func(u *models.User) error {
		u.Theme = in.Theme
		return nil
	})
}

// UpdateChannelDescription edits the description of the user's channel
func (s *AccountService) UpdateChannelDescription(ctx context.Context, userID uint, description string) (*models.Channel, error) {
	in := descriptionInput{Description: strings.TrimSpace(description)}
	if err := validators.Struct(in); err != nil {
		return nil, err
	}
	ch, err := s.channels.GetChannelByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "channel of user %d", userID)
	}
	return s.channels.UpdateChannel(ctx, ch.ID, func(c *models.Channel) error {
		c.Description = in.Description
		return nil
	})
}

func (s *AccountService) update(ctx context.Context, userID uint, fn func(*models.User) error) (*models.User, error) {
	user, err := s.users.UpdateUser(ctx, userID, fn)
	if err != nil {
		return nil, notFound(err, "user %d", userID)
	}
	return user, nil
}

func (s *AccountService) saveAvatar(ctx context.Context, src io.Reader) (string, error) {
	key := fmt.Sprintf("imgs/avatar_%s.jpg", uuid.NewString())
	if err := s.media.SaveImage(ctx, key, src, media.AvatarWidth, media.AvatarHeight); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}
	return key, nil
}

func (s *AccountService) uniqueNickname(ctx context.Context) string {
	nick := randomString(nicknameLength)
	for i := 0; i < maxIDAttempts && s.users.NicknameTaken(ctx, nick); i++ {
		nick = randomString(nicknameLength)
	}
	return nick
}

// ensureChannel returns the user's channel, creating it on first use
func (s *AccountService) ensureChannel(ctx context.Context, userID uint) (*models.Channel, error) {
	if ch, err := s.channels.GetChannelByUserID(ctx, userID); err == nil {
		return ch, nil
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}

	for i := 0; i < maxIDAttempts; i++ {
		ch := &models.Channel{
			ID:          randomString(channelIDLength),
			UserID:      userID,
			Description: models.DefaultChannelDescription,
		}
		err := s.channels.CreateChannel(ctx, ch)
		if err == nil {
			return ch, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, err
		}
		// an id collision retries; a concurrent create for the same user wins
		if existing, err := s.channels.GetChannelByUserID(ctx, userID); err == nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("%w: could not allocate a channel id", ErrStorage)
}
