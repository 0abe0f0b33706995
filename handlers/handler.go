package handlers

import (
	"context"

	"dragnotes/logger"
	"dragnotes/middleware"
	"dragnotes/models"
	"dragnotes/service"
)

type AuthService interface {
	Signup(ctx context.Context, in service.SignupInput) (models.User, error)
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	Profile(ctx context.Context, id models.Identity) models.Profile
}

type NoteService interface {
	List(ctx context.Context, id models.Identity) ([]models.Note, error)
	ListArchived(ctx context.Context, id models.Identity) ([]models.Note, error)
	Get(ctx context.Context, id models.Identity, noteID string) (models.Note, error)
	Create(ctx context.Context, id models.Identity, in service.NoteInput) (models.Note, error)
	Update(ctx context.Context, id models.Identity, noteID string, in service.NoteInput) (models.Note, error)
	Delete(ctx context.Context, id models.Identity, noteID string) error
	ToggleFavorite(ctx context.Context, id models.Identity, noteID string) (models.Note, error)
	ToggleArchive(ctx context.Context, id models.Identity, noteID string) (models.Note, error)
	Reorder(ctx context.Context, id models.Identity, sourceID, targetID string) error
}

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth  AuthService
	Notes NoteService
	Guard *middleware.Guard

	// Ping reports database health for GET /.
	Ping func(ctx context.Context) error

	// Env is echoed by the health endpoint.
	Env string
}

type Handler struct {
	auth  AuthService
	notes NoteService
	guard *middleware.Guard
	ping  func(ctx context.Context) error
	env   string

	logger *logger.Logger
}

func NewHandler(deps Deps, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		auth:   deps.Auth,
		notes:  deps.Notes,
		guard:  deps.Guard,
		ping:   deps.Ping,
		env:    deps.Env,
		logger: logger,
	}
}
