package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/repository"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "tx"

// UnitOfWork implements the unit of work pattern for database transactions.
// Borrow creation runs its availability check and insert under SERIALIZABLE
// isolation so concurrent borrows cannot jointly over-allocate stock.
type UnitOfWork struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger) persistence.UnitOfWork {
	return &UnitOfWork{
		db:     db,
		logger: logger,
	}
}

// Begin starts a new database transaction with SERIALIZABLE isolation
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.logger.Debug("Beginning database transaction with SERIALIZABLE isolation", nil)

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL SERIALIZABLE").Error; err != nil {
		tx.Rollback()
		u.logger.Error("Failed to set transaction isolation level", map[string]any{"error": err.Error()})
		return ctx, fmt.Errorf("failed to set transaction isolation level: %w", err)
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the transaction in the given context
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	u.logger.Debug("Committing database transaction", nil)
	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction in the given context
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	u.logger.Debug("Rolling back database transaction", nil)

	err := tx.Rollback().Error
	if err != nil && strings.Contains(err.Error(), "already been committed or rolled back") {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// GetTransactionRepository returns a transaction repository in the current transaction
func (u *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return repository.NewTransactionRepository(u.getDbFromContext(ctx), u.logger)
}

// GetItemRepository returns an item repository in the current transaction
func (u *UnitOfWork) GetItemRepository(ctx context.Context) persistence.ItemRepository {
	return repository.NewItemRepository(u.getDbFromContext(ctx), u.logger)
}

// GetUserRepository returns a user repository in the current transaction
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return repository.NewUserRepository(u.getDbFromContext(ctx), u.logger)
}

// getDbFromContext retrieves the database instance from context
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
