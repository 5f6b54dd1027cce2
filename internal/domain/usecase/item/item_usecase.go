package item

import (
	"context"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
)

// ItemUseCase handles item catalog business logic, including the computed
// availability contract
type ItemUseCase struct {
	itemRepo     persistence.ItemRepository
	txnRepo      persistence.TransactionRepository
	cache        persistence.AvailabilityCache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewItemUseCase creates a new ItemUseCase. cache may be nil.
func NewItemUseCase(
	itemRepo persistence.ItemRepository,
	txnRepo persistence.TransactionRepository,
	cache persistence.AvailabilityCache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *ItemUseCase {
	return &ItemUseCase{
		itemRepo:     itemRepo,
		txnRepo:      txnRepo,
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// CreateItem registers a new catalog item
func (u *ItemUseCase) CreateItem(ctx context.Context, barcode, name, category string, quantity int) (*entity.Item, error) {
	it, err := entity.NewItem(barcode, name, category, quantity, u.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := u.itemRepo.Create(ctx, it); err != nil {
		return nil, err
	}

	u.logger.Info("Item created", map[string]any{
		"barcode":  it.Barcode,
		"name":     it.Name,
		"quantity": it.Quantity,
	})
	return it, nil
}

// GetItem retrieves one catalog item by barcode
func (u *ItemUseCase) GetItem(ctx context.Context, barcode string) (*entity.Item, error) {
	return u.itemRepo.GetByBarcode(ctx, barcode)
}

// ListItems returns the full catalog
func (u *ItemUseCase) ListItems(ctx context.Context) ([]*entity.Item, error) {
	return u.itemRepo.List(ctx)
}

// Availability returns the item's computed availability: total quantity minus
// the outstanding quantity across open transactions. Reads go through the
// materialized cache when present and fall back to the live aggregate.
func (u *ItemUseCase) Availability(ctx context.Context, barcode string) (*entity.Availability, error) {
	it, err := u.itemRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	reserved, err := u.reservedQuantity(ctx, barcode)
	if err != nil {
		return nil, err
	}

	return &entity.Availability{
		ItemBarcode: it.Barcode,
		ItemName:    it.Name,
		Total:       it.Quantity,
		Reserved:    reserved,
	}, nil
}

// reservedQuantity reads through the availability cache
func (u *ItemUseCase) reservedQuantity(ctx context.Context, barcode string) (int, error) {
	if u.cache != nil {
		reserved, hit, err := u.cache.GetReserved(ctx, barcode)
		if err != nil {
			u.logger.Warn("Availability cache read failed, using live aggregate", map[string]any{
				"barcode": barcode,
				"error":   err.Error(),
			})
		} else if hit {
			return reserved, nil
		}
	}

	reserved, err := u.txnRepo.ReservedQuantity(ctx, barcode)
	if err != nil {
		return 0, err
	}

	if u.cache != nil {
		if err := u.cache.SetReserved(ctx, barcode, reserved); err != nil {
			u.logger.Warn("Availability cache write failed", map[string]any{
				"barcode": barcode,
				"error":   err.Error(),
			})
		}
	}
	return reserved, nil
}
