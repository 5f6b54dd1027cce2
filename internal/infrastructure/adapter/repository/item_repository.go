package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/model"
)

// ItemRepository implements persistence.ItemRepository using GORM
type ItemRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewItemRepository creates a new ItemRepository instance
func NewItemRepository(db *gorm.DB, logger coreport.Logger) *ItemRepository {
	return &ItemRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func itemEntityToModel(it *entity.Item) model.Item {
	return model.Item{
		Barcode:   it.Barcode,
		Name:      it.Name,
		Category:  it.Category,
		Quantity:  it.Quantity,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func itemModelToEntity(m *model.Item) *entity.Item {
	return &entity.Item{
		Barcode:   m.Barcode,
		Name:      m.Name,
		Category:  m.Category,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create saves a new catalog item
func (r *ItemRepository) Create(ctx context.Context, it *entity.Item) error {
	m := itemEntityToModel(it)

	result := r.db.WithContext(ctx).Create(&m)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate item barcode", map[string]any{
				"barcode": it.Barcode,
			})
			return errs.ErrDuplicateItem
		}
		r.logger.Error("Failed to create item", map[string]any{
			"barcode": it.Barcode,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return nil
}

// GetByBarcode retrieves an item by its barcode
func (r *ItemRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	var m model.Item
	result := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrItemNotFound
		}
		r.logger.Error("Failed to get item", map[string]any{
			"barcode": barcode,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return itemModelToEntity(&m), nil
}

// List returns all catalog items ordered by name
func (r *ItemRepository) List(ctx context.Context) ([]*entity.Item, error) {
	var rows []model.Item
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	items := make([]*entity.Item, 0, len(rows))
	for i := range rows {
		items = append(items, itemModelToEntity(&rows[i]))
	}
	return items, nil
}

// Update persists changes to an existing item
func (r *ItemRepository) Update(ctx context.Context, it *entity.Item) error {
	m := itemEntityToModel(it)

	result := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("barcode = ?", it.Barcode).
		Updates(map[string]interface{}{
			"name":       m.Name,
			"category":   m.Category,
			"quantity":   m.Quantity,
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update item", map[string]any{
			"barcode": it.Barcode,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrItemNotFound
	}
	return nil
}
