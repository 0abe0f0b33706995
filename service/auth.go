package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"dragnotes/db"
	"dragnotes/logger"
	"dragnotes/models"
)

// ErrUserNotFound is joined with ErrAuthentication when a valid token names
// a user that no longer exists.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the credential storage the auth service depends on.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

type SignupInput struct {
	Email    string
	Password string
	Username string
}

type LoginResult struct {
	Token     string
	ExpiresIn int64 // seconds
	User      models.User
}

// AuthService handles signup, login and bearer token resolution.
type AuthService struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenService
	logger *logger.Logger
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenService, logger *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Signup validates the input, hashes the password and stores a new user.
//
// Returns the created user or:
//   - *ValidationError (ErrValidation) for a bad email or a short password.
//   - ErrConflict if the normalized email is already registered, whether
//     found up front or rejected by the unique index.
func (a *AuthService) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	log := a.logger.Ctx(ctx)

	email := normalizeEmail(in.Email)
	password := strings.TrimSpace(in.Password)

	v := new(validator)
	v.check(validEmail(email), "email", "Please enter a valid email")
	v.check(utf8.RuneCountInString(password) >= 6, "password", "Password must be at least 6 characters long")
	v.check(len(password) <= maxPasswordBytes, "password", "Password must be at most 72 bytes long")
	if err := v.err(); err != nil {
		return models.User{}, err
	}

	_, err := a.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		log.Info().Str("email", email).Msg("signup with existing email")
		return models.User{}, fmt.Errorf("%w: email already exists", ErrConflict)
	case !errors.Is(err, db.ErrUserNotFound):
		return models.User{}, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
	}
	if err := a.users.Create(ctx, &user); err != nil {
		if errors.Is(err, db.ErrEmailAlreadyExists) {
			log.Info().Str("email", email).Msg("signup lost race on unique email")
			return models.User{}, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		return models.User{}, fmt.Errorf("error creating user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("user signed up")

	return user, nil
}

// Login checks the credentials and issues an access token. An unknown email
// and a wrong password both return ErrAuthentication.
func (a *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	log := a.logger.Ctx(ctx)

	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	v := new(validator)
	v.check(password != "", "password", "Password is required")
	if err := v.err(); err != nil {
		return LoginResult{}, err
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			a.hasher.CompareMissing(password)
			log.Info().Str("email", email).Msg("login failed: user not found")
			return LoginResult{}, ErrAuthentication
		}
		return LoginResult{}, fmt.Errorf("error finding user: %w", err)
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrAuthentication) {
			log.Info().Str("user_id", user.ID).Msg("login failed: invalid password")
		}
		return LoginResult{}, err
	}

	token, _, err := a.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Token:     token,
		ExpiresIn: int64(a.tokens.Duration() / time.Second),
		User:      user,
	}, nil
}

// Identify resolves a bearer token to the live user it was issued for.
// Errors wrap ErrAuthentication; a deleted user additionally wraps
// ErrUserNotFound.
func (a *AuthService) Identify(ctx context.Context, token string) (models.Identity, error) {
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return models.Identity{}, err
	}

	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return models.Identity{}, fmt.Errorf("%w: %w", ErrAuthentication, ErrUserNotFound)
		}
		return models.Identity{}, fmt.Errorf("error finding user: %w", err)
	}

	return models.Identity{UserID: user.ID, User: user}, nil
}

func (a *AuthService) Profile(_ context.Context, id models.Identity) models.Profile {
	return id.User.Profile()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare addr-spec with a dotted domain. Display names
// and angle brackets are rejected.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.Contains(email[at+1:], ".")
}
