package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating repository operations
// inside a single database transaction. The borrow creation path runs its
// availability check and document insert in one serializable unit so two
// simultaneous borrows cannot jointly over-allocate an item.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetTransactionRepository returns a transaction repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetItemRepository returns an item repository bound to the current transaction
	GetItemRepository(ctx context.Context) ItemRepository

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository
}
