package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dragnotes/logger"
	"dragnotes/models"
)

// UserStore persists user credentials. Emails are expected to be
// normalized by the caller; the store compares them verbatim.
type UserStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewUserStore(db *gorm.DB, logger *logger.Logger) *UserStore {
	logger.Debug().Msg("creating user store")
	return &UserStore{db: db, logger: logger}
}

// Create inserts user, assigning an id when it has none.
// A duplicate email yields ErrEmailAlreadyExists.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.NewID()
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			s.logger.Ctx(ctx).Debug().Str("email", user.Email).Msg("duplicate email rejected by unique index")
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.find(ctx, "email = ?", email)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.find(ctx, "id = ?", id)
}

func (s *UserStore) find(ctx context.Context, query string, arg any) (models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Where(query, arg).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("error finding user: %w", err)
	}

	return user, nil
}
