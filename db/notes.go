package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dragnotes/logger"
	"dragnotes/models"
)

// NoteStore persists notes. Every lookup filters on the owner id as well as
// the note id.
type NoteStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewNoteStore(db *gorm.DB, logger *logger.Logger) *NoteStore {
	logger.Debug().Msg("creating note store")
	return &NoteStore{db: db, logger: logger}
}

// List returns the owner's notes with the given archive flag, most recently
// updated first.
func (s *NoteStore) List(ctx context.Context, ownerID string, archived bool) ([]models.Note, error) {
	notes := make([]models.Note, 0)

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_archived = ?", ownerID, archived).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	return notes, nil
}

func (s *NoteStore) Get(ctx context.Context, ownerID, noteID string) (models.Note, error) {
	return s.take(s.db.WithContext(ctx), ownerID, noteID)
}

// Create inserts note, assigning an id when it has none.
func (s *NoteStore) Create(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = models.NewID()
	}

	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("error creating note: %w", err)
	}

	return nil
}

// Update loads the owner's note, applies mutate and writes the mutable
// columns back inside one transaction. updated_at is always refreshed.
func (s *NoteStore) Update(ctx context.Context, ownerID, noteID string, mutate func(*models.Note)) (models.Note, error) {
	var note models.Note

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if note, err = s.take(tx, ownerID, noteID); err != nil {
			return err
		}

		mutate(&note)
		note.UpdatedAt = tx.NowFunc()

		return tx.Model(&note).
			Where("user_id = ?", ownerID).
			Select("title", "blocks", "is_favorite", "is_archived", "updated_at").
			Updates(&note).Error
	})
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return models.Note{}, err
		}
		return models.Note{}, fmt.Errorf("error updating note: %w", err)
	}

	return note, nil
}

func (s *NoteStore) Delete(ctx context.Context, ownerID, noteID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, ownerID).
		Delete(&models.Note{})
	if res.Error != nil {
		return fmt.Errorf("error deleting note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		s.logger.Ctx(ctx).Debug().Str("note_id", noteID).Msg("delete matched no note")
		return ErrNoteNotFound
	}

	return nil
}

// Reorder moves source directly above target in the updated_at ordering
// used by List: target is stamped with at, source one second later. Both
// notes must belong to the owner; both writes commit together.
func (s *NoteStore) Reorder(ctx context.Context, ownerID, sourceID, targetID string, at time.Time) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []string{sourceID, targetID}
		if sourceID == targetID {
			ids = ids[:1]
		}

		var count int64
		err := tx.Model(&models.Note{}).
			Where("user_id = ? AND id IN ?", ownerID, ids).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count != int64(len(ids)) {
			s.logger.Ctx(ctx).Debug().Str("source_id", sourceID).Str("target_id", targetID).Int64("found", count).Msg("reorder note missing")
			return ErrNoteNotFound
		}

		if err := s.stamp(tx, ownerID, targetID, at); err != nil {
			return err
		}
		return s.stamp(tx, ownerID, sourceID, at.Add(time.Second))
	})
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return err
		}
		return fmt.Errorf("error reordering notes: %w", err)
	}

	return nil
}

func (s *NoteStore) stamp(tx *gorm.DB, ownerID, noteID string, at time.Time) error {
	return tx.Model(&models.Note{}).
		Where("id = ? AND user_id = ?", noteID, ownerID).
		UpdateColumn("updated_at", at.UTC()).Error
}

func (s *NoteStore) take(tx *gorm.DB, ownerID, noteID string) (models.Note, error) {
	var note models.Note

	err := tx.Where("id = ? AND user_id = ?", noteID, ownerID).Take(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, fmt.Errorf("error finding note: %w", err)
	}

	return note, nil
}
