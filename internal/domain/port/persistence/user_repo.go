package persistence

import (
	"context"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
)

// UserRepository defines essential methods to interact with the user directory
type UserRepository interface {
	// Create saves a new borrower registration
	//
	// Possible errors:
	// - ErrDuplicateUser: if a user with the same contact number already exists
	// - ErrDatabaseConnection: if the database connection fails
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a borrower by ID
	//
	// Possible errors:
	// - ErrUserNotFound: if no user with the ID exists
	// - ErrDatabaseConnection: if the database connection fails
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// Update persists changes to an existing borrower record
	//
	// Possible errors:
	// - ErrUserNotFound: if the user doesn't exist
	// - ErrDatabaseConnection: if the database connection fails
	Update(ctx context.Context, user *entity.User) error

	// ListByStatus returns borrowers in the given registration state
	ListByStatus(ctx context.Context, status entity.UserStatus) ([]*entity.User, error)
}
