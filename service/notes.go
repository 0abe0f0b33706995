package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"dragnotes/db"
	"dragnotes/logger"
	"dragnotes/models"
)

// NoteStore is the note storage the note service depends on. All methods
// are scoped to the owner id they receive.
type NoteStore interface {
	List(ctx context.Context, ownerID string, archived bool) ([]models.Note, error)
	Get(ctx context.Context, ownerID, noteID string) (models.Note, error)
	Create(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, ownerID, noteID string, mutate func(*models.Note)) (models.Note, error)
	Delete(ctx context.Context, ownerID, noteID string) error
	Reorder(ctx context.Context, ownerID, sourceID, targetID string, at time.Time) error
}

// NoteInput carries the client-editable fields of a note. A nil Blocks
// means the field was absent from the request.
type NoteInput struct {
	Title  string
	Blocks *[]BlockInput
}

// BlockInput is a block as sent by a client. Order is a pointer so that a
// missing order can be rejected instead of stored as zero.
type BlockInput struct {
	ID      string              `json:"_id"`
	Type    models.BlockType    `json:"type"`
	Content models.BlockContent `json:"content"`
	Order   *int                `json:"order"`
}

// NoteService implements the owner-scoped note operations. The owner is
// always taken from the Identity argument, never from client input.
type NoteService struct {
	notes  NoteStore
	logger *logger.Logger
	now    func() time.Time
}

func NewNoteService(notes NoteStore, logger *logger.Logger) *NoteService {
	return &NoteService{notes: notes, logger: logger, now: time.Now}
}

// List returns the caller's active notes, most recently updated first.
func (s *NoteService) List(ctx context.Context, id models.Identity) ([]models.Note, error) {
	return s.list(ctx, id, false)
}

// ListArchived returns the caller's archived notes, most recently updated
// first.
func (s *NoteService) ListArchived(ctx context.Context, id models.Identity) ([]models.Note, error) {
	return s.list(ctx, id, true)
}

func (s *NoteService) list(ctx context.Context, id models.Identity, archived bool) ([]models.Note, error) {
	notes, err := s.notes.List(ctx, id.UserID, archived)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, id models.Identity, noteID string) (models.Note, error) {
	if !models.ValidID(noteID) {
		return models.Note{}, ErrNotFound
	}

	note, err := s.notes.Get(ctx, id.UserID, noteID)
	if err != nil {
		return models.Note{}, noteError(err)
	}
	return note, nil
}

// Create stores a new note owned by the caller. Blocks are optional and
// default to an empty list; blocks without an id get one.
func (s *NoteService) Create(ctx context.Context, id models.Identity, in NoteInput) (models.Note, error) {
	title, blocks, err := validateNote(in, false)
	if err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		UserID: id.UserID,
		Title:  title,
		Blocks: datatypes.NewJSONSlice(blocks),
	}
	if err := s.notes.Create(ctx, &note); err != nil {
		return models.Note{}, fmt.Errorf("error creating note: %w", err)
	}

	s.logger.Ctx(ctx).Debug().Str("note_id", note.ID).Msg("note created")

	return note, nil
}

// Update replaces the title and blocks of the caller's note. Blocks are
// required.
func (s *NoteService) Update(ctx context.Context, id models.Identity, noteID string, in NoteInput) (models.Note, error) {
	title, blocks, err := validateNote(in, true)
	if err != nil {
		return models.Note{}, err
	}
	if !models.ValidID(noteID) {
		return models.Note{}, ErrNotFound
	}

	note, err := s.notes.Update(ctx, id.UserID, noteID, func(n *models.Note) {
		n.Title = title
		n.Blocks = datatypes.NewJSONSlice(blocks)
	})
	if err != nil {
		return models.Note{}, noteError(err)
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id models.Identity, noteID string) error {
	if !models.ValidID(noteID) {
		return ErrNotFound
	}

	if err := s.notes.Delete(ctx, id.UserID, noteID); err != nil {
		return noteError(err)
	}

	s.logger.Ctx(ctx).Debug().Str("note_id", noteID).Msg("note deleted")

	return nil
}

// ToggleFavorite flips the favorite flag and returns the note with its new
// state. Concurrent toggles are last-write-wins.
func (s *NoteService) ToggleFavorite(ctx context.Context, id models.Identity, noteID string) (models.Note, error) {
	return s.toggle(ctx, id, noteID, func(n *models.Note) { n.IsFavorite = !n.IsFavorite })
}

// ToggleArchive flips the archived flag and returns the note with its new
// state.
func (s *NoteService) ToggleArchive(ctx context.Context, id models.Identity, noteID string) (models.Note, error) {
	return s.toggle(ctx, id, noteID, func(n *models.Note) { n.IsArchived = !n.IsArchived })
}

func (s *NoteService) toggle(ctx context.Context, id models.Identity, noteID string, flip func(*models.Note)) (models.Note, error) {
	if !models.ValidID(noteID) {
		return models.Note{}, ErrNotFound
	}

	note, err := s.notes.Update(ctx, id.UserID, noteID, flip)
	if err != nil {
		return models.Note{}, noteError(err)
	}
	return note, nil
}

// Reorder lists source directly above target by stamping target with the
// current time and source one second later. Both notes must be the
// caller's; either both are stamped or neither is.
func (s *NoteService) Reorder(ctx context.Context, id models.Identity, sourceID, targetID string) error {
	v := new(validator)
	v.check(models.ValidID(sourceID), "sourceId", "Invalid source note ID")
	v.check(models.ValidID(targetID), "targetId", "Invalid target note ID")
	if err := v.err(); err != nil {
		return err
	}

	if err := s.notes.Reorder(ctx, id.UserID, sourceID, targetID, s.now()); err != nil {
		return noteError(err)
	}
	return nil
}

// validateNote trims the title, checks every block and fills in missing
// block ids. It returns a non-nil block slice.
func validateNote(in NoteInput, blocksRequired bool) (string, []models.Block, error) {
	v := new(validator)

	title := strings.TrimSpace(in.Title)
	v.check(title != "", "title", "Title is required")

	var raw []BlockInput
	if in.Blocks == nil {
		v.check(!blocksRequired, "blocks", "Blocks must be an array")
	} else {
		raw = *in.Blocks
	}

	blocks := make([]models.Block, 0, len(raw))
	for i, b := range raw {
		field := "blocks[" + strconv.Itoa(i) + "]"

		v.check(b.Type.Valid(), field+".type", "Invalid block type")
		v.check(b.Content != nil, field+".content", "Block content is required")
		v.check(b.Order != nil, field+".order", "Block order is required")

		block := models.Block{ID: b.ID, Type: b.Type, Content: b.Content}
		if b.Order != nil {
			block.Order = *b.Order
		}
		if block.ID == "" {
			block.ID = models.NewID()
		}
		blocks = append(blocks, block)
	}

	if err := v.err(); err != nil {
		return "", nil, err
	}
	return title, blocks, nil
}

func noteError(err error) error {
	if errors.Is(err, db.ErrNoteNotFound) {
		return ErrNotFound
	}
	return err
}
