package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           string    `gorm:"primaryKey" json:"_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the public view of a user returned by the API.
type Profile struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Username: u.Username}
}

// Identity is the authenticated caller. It is produced by the auth
// middleware and passed explicitly into every owner-scoped note operation.
type Identity struct {
	UserID string
	User   User
}

type Note struct {
	ID         string                     `gorm:"primaryKey" json:"_id"`
	UserID     string                     `json:"user"`
	Title      string                     `json:"title"`
	Blocks     datatypes.JSONSlice[Block] `json:"blocks"`
	IsFavorite bool                       `json:"isFavorite"`
	IsArchived bool                       `json:"isArchived"`
	CreatedAt  time.Time                  `json:"createdAt"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
}

type BlockType string

const (
	BlockText     BlockType = "text"
	BlockHeading  BlockType = "heading"
	BlockCheckbox BlockType = "checkbox"
	BlockCode     BlockType = "code"
	BlockImage    BlockType = "image"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockText, BlockHeading, BlockCheckbox, BlockCode, BlockImage:
		return true
	}
	return false
}

// BlockContent is an opaque bag of values. Its keys are not checked
// against the block type.
type BlockContent map[string]any

// Block is one content unit of a note. Order is assigned by the client and
// is stored as given.
type Block struct {
	ID      string       `json:"_id"`
	Type    BlockType    `json:"type"`
	Content BlockContent `json:"content"`
	Order   int          `json:"order"`
}

// NewID returns a time-ordered UUID string for users, notes and blocks.
func NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}

// ValidID reports whether id has the shape of an identifier issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
