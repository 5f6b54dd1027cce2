package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
)

// TransactionFilter narrows transaction queries for archives, dashboards,
// and per-item/per-user histories
type TransactionFilter struct {
	UserID      string
	ItemBarcode string
	Status      entity.ReturnStatus
	From        *time.Time
	To          *time.Time
	DueBefore   *time.Time
	OpenOnly    bool
	Limit       int
	Offset      int
}

// StatusCount is one row of the dashboard summary
type StatusCount struct {
	Status entity.ReturnStatus
	Count  int64
}

// ItemUsage is one row of the top-borrowed-items report
type ItemUsage struct {
	ItemBarcode string
	ItemName    string
	TimesLent   int64
	TotalUnits  int64
}

// TransactionRepository defines essential methods to interact with transaction data
type TransactionRepository interface {
	// Create saves a new transaction with its line items
	//
	// Possible errors:
	// - ErrConstraintViolation: if the document violates a database constraint
	// - ErrDatabaseConnection: if the database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update persists a modified transaction guarded by its Version field.
	// The stored version must match transaction.Version; on success the
	// version is incremented.
	//
	// Possible errors:
	// - ErrTransactionNotFound: if the transaction doesn't exist
	// - ErrConflict: if the stored version no longer matches
	// - ErrDatabaseConnection: if the database connection fails
	Update(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a transaction with its line items
	//
	// Possible errors:
	// - ErrTransactionNotFound: if the transaction doesn't exist
	// - ErrDatabaseConnection: if the database connection fails
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// List returns transactions matching the filter, newest first
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)

	// ReservedQuantity sums the outstanding (borrowed minus returned)
	// quantity for a barcode across all open transactions. This is the
	// authoritative input to the availability computation.
	ReservedQuantity(ctx context.Context, barcode string) (int, error)

	// CountByStatus aggregates transaction counts per stored status
	CountByStatus(ctx context.Context) ([]StatusCount, error)

	// TopBorrowedItems returns the most frequently borrowed items
	TopBorrowedItems(ctx context.Context, limit int) ([]ItemUsage, error)
}
