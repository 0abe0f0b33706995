package db

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel errors returned by the stores. Match them with errors.Is.
var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when an insert violates the unique
	// email index.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoteNotFound is returned when no note matches both the note id and
	// the owner id. A note owned by someone else yields the same error.
	ErrNoteNotFound = errors.New("note not found")
)

const mysqlDuplicateEntry = 1062

// isDuplicateKey recognises unique-index violations from every supported
// dialect, whether or not GORM already translated them.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
