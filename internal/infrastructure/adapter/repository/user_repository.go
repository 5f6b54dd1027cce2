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

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func userEntityToModel(u *entity.User) model.User {
	return model.User{
		ID:            u.ID,
		FullName:      u.FullName,
		ContactNumber: u.ContactNumber,
		Email:         u.Email,
		Status:        string(u.Status),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func userModelToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:            m.ID,
		FullName:      m.FullName,
		ContactNumber: m.ContactNumber,
		Email:         m.Email,
		Status:        entity.UserStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// Create saves a new borrower registration
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	m := userEntityToModel(u)

	result := r.db.WithContext(ctx).Create(&m)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate user contact number", map[string]any{
				"contact_number": u.ContactNumber,
			})
			return errs.ErrDuplicateUser
		}
		r.logger.Error("Failed to create user", map[string]any{
			"user_id": u.ID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return nil
}

// GetByID retrieves a borrower by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var m model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", map[string]any{
			"user_id": id,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return userModelToEntity(&m), nil
}

// Update persists changes to an existing borrower record
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	m := userEntityToModel(u)

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"full_name":      m.FullName,
			"contact_number": m.ContactNumber,
			"email":          m.Email,
			"status":         m.Status,
			"updated_at":     m.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update user", map[string]any{
			"user_id": u.ID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

// ListByStatus returns borrowers in the given registration state
func (r *UserRepository) ListByStatus(ctx context.Context, status entity.UserStatus) ([]*entity.User, error) {
	var rows []model.User
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	users := make([]*entity.User, 0, len(rows))
	for i := range rows {
		users = append(users, userModelToEntity(&rows[i]))
	}
	return users, nil
}
