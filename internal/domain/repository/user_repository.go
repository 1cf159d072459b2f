package repository

import (
	"errors"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint (email or
	// username) is violated at the storage layer. Services pre-check
	// existence for friendlier responses, but the constraint stays the
	// source of truth.
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository is the exclusive owner of persisted user rows.
// Update persists the full current state of the user, including the
// embedded pokemon collection; there is no partial-field patching.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	List(skip, limit int) ([]*entity.User, error)
	ListActive(skip, limit int) ([]*entity.User, error)
	SearchByUsername(term string, skip, limit int) ([]*entity.User, error)
	Update(u *entity.User) error
	Delete(id string) error
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	CountAll() (int, error)
	CountActive() (int, error)
}
