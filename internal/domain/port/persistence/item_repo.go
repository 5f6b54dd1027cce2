package persistence

import (
	"context"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
)

// ItemRepository defines essential methods to interact with the item catalog
type ItemRepository interface {
	// Create saves a new catalog item
	//
	// Possible errors:
	// - ErrDuplicateItem: if an item with the same barcode already exists
	// - ErrDatabaseConnection: if the database connection fails
	Create(ctx context.Context, item *entity.Item) error

	// GetByBarcode retrieves an item by its barcode
	//
	// Possible errors:
	// - ErrItemNotFound: if no item with the barcode exists
	// - ErrDatabaseConnection: if the database connection fails
	GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error)

	// List returns all catalog items ordered by name
	List(ctx context.Context) ([]*entity.Item, error)

	// Update persists changes to an existing item
	//
	// Possible errors:
	// - ErrItemNotFound: if the item doesn't exist
	// - ErrDatabaseConnection: if the database connection fails
	Update(ctx context.Context, item *entity.Item) error
}
