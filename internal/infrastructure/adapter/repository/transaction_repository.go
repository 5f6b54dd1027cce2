package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/model"
)

// openStatuses are the stored statuses counted as holding stock
var openStatuses = []string{
	string(entity.StatusPending),
	string(entity.StatusOverdue),
	string(entity.StatusPartiallyReturned),
	string(entity.StatusExtended),
}

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func entityToModel(txn *entity.Transaction) model.Transaction {
	m := model.Transaction{
		ID:                     txn.ID,
		UserID:                 txn.UserID,
		UserName:               txn.UserName,
		ContactNumber:          txn.ContactNumber,
		TransactionType:        string(txn.TransactionType),
		CourseSubject:          txn.CourseSubject,
		Professor:              txn.Professor,
		ProfAttendance:         txn.ProfAttendance,
		RoomNo:                 txn.RoomNo,
		BorrowedDuration:       txn.BorrowedDuration,
		BorrowedDurationMillis: txn.BorrowedDurationMillis,
		DateTime:               txn.DateTime,
		DueDate:                txn.DueDate,
		ReturnDate:             txn.ReturnDate,
		ReturnStatus:           string(txn.ReturnStatus),
		PartialReturnReason:    txn.PartialReturnReason,
		NotesComments:          txn.NotesComments,
		FeedbackEmoji:          txn.FeedbackEmoji,
		Version:                txn.Version,
	}

	if txn.Override != nil {
		status := string(txn.Override.Status)
		at := txn.Override.At
		m.OverrideStatus = &status
		m.OverrideReason = txn.Override.Reason
		m.OverriddenBy = txn.Override.OverriddenBy
		m.OverriddenAt = &at
	}

	for i, line := range txn.Items {
		m.Items = append(m.Items, model.TransactionItem{
			TransactionID:    txn.ID,
			ItemBarcode:      line.ItemBarcode,
			ItemName:         line.ItemName,
			QuantityBorrowed: line.QuantityBorrowed,
			QuantityReturned: line.QuantityReturned,
			Condition:        line.Condition,
			Position:         i,
		})
	}
	return m
}

// modelToEntity converts a transaction model to an entity
func modelToEntity(m *model.Transaction) *entity.Transaction {
	txn := &entity.Transaction{
		ID:                     m.ID,
		UserID:                 m.UserID,
		UserName:               m.UserName,
		ContactNumber:          m.ContactNumber,
		TransactionType:        entity.TransactionType(m.TransactionType),
		CourseSubject:          m.CourseSubject,
		Professor:              m.Professor,
		ProfAttendance:         m.ProfAttendance,
		RoomNo:                 m.RoomNo,
		BorrowedDuration:       m.BorrowedDuration,
		BorrowedDurationMillis: m.BorrowedDurationMillis,
		DateTime:               m.DateTime,
		DueDate:                m.DueDate,
		ReturnDate:             m.ReturnDate,
		ReturnStatus:           entity.ReturnStatus(m.ReturnStatus),
		PartialReturnReason:    m.PartialReturnReason,
		NotesComments:          m.NotesComments,
		FeedbackEmoji:          m.FeedbackEmoji,
		Version:                m.Version,
	}

	if m.OverrideStatus != nil {
		override := &entity.StatusOverride{
			Status:       entity.ReturnStatus(*m.OverrideStatus),
			Reason:       m.OverrideReason,
			OverriddenBy: m.OverriddenBy,
		}
		if m.OverriddenAt != nil {
			override.At = *m.OverriddenAt
		}
		txn.Override = override
	}

	for _, row := range m.Items {
		txn.Items = append(txn.Items, entity.LineItem{
			ItemBarcode:      row.ItemBarcode,
			ItemName:         row.ItemName,
			QuantityBorrowed: row.QuantityBorrowed,
			QuantityReturned: row.QuantityReturned,
			Condition:        row.Condition,
		})
	}
	return txn
}

// Create saves a new transaction with its line items
func (r *TransactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"transaction_id": txn.ID,
		"user_id":        txn.UserID,
	})

	m := entityToModel(txn)
	if m.Version == 0 {
		m.Version = 1
	}

	result := r.db.WithContext(ctx).Create(&m)
	if result.Error != nil {
		if r.errorClassifier.IsConstraintError(result.Error) {
			r.logger.Warn("Constraint violation creating transaction", map[string]any{
				"transaction_id": txn.ID,
				"error":          result.Error.Error(),
			})
			return errs.ErrConstraintViolation
		}
		r.logger.Error("Failed to create transaction", map[string]any{
			"transaction_id": txn.ID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	txn.Version = m.Version
	return nil
}

// Update persists a modified transaction guarded by its version. The line
// item rows are replaced wholesale; the version check on the parent row
// covers them because every mutation path rewrites both together.
func (r *TransactionRepository) Update(ctx context.Context, txn *entity.Transaction) error {
	r.logger.Debug("Updating transaction", map[string]any{
		"transaction_id": txn.ID,
		"status":         txn.ReturnStatus,
		"version":        txn.Version,
	})

	m := entityToModel(txn)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Transaction{}).
			Where("id = ? AND version = ?", txn.ID, txn.Version).
			Updates(map[string]interface{}{
				"user_name":                m.UserName,
				"contact_number":           m.ContactNumber,
				"course_subject":           m.CourseSubject,
				"professor":                m.Professor,
				"prof_attendance":          m.ProfAttendance,
				"room_no":                  m.RoomNo,
				"borrowed_duration":        m.BorrowedDuration,
				"borrowed_duration_millis": m.BorrowedDurationMillis,
				"due_date":                 m.DueDate,
				"return_date":              m.ReturnDate,
				"return_status":            m.ReturnStatus,
				"partial_return_reason":    m.PartialReturnReason,
				"notes_comments":           m.NotesComments,
				"feedback_emoji":           m.FeedbackEmoji,
				"override_status":          m.OverrideStatus,
				"override_reason":          m.OverrideReason,
				"overridden_by":            m.OverriddenBy,
				"overridden_at":            m.OverriddenAt,
				"version":                  gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Distinguish a missing row from a stale version
			var count int64
			if err := tx.Model(&model.Transaction{}).Where("id = ?", txn.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errs.ErrTransactionNotFound
			}
			return errs.NewConflictError(txn.ID, txn.Version)
		}

		if err := tx.Where("transaction_id = ?", txn.ID).Delete(&model.TransactionItem{}).Error; err != nil {
			return err
		}
		if len(m.Items) > 0 {
			if err := tx.Create(&m.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) || errs.IsConflictError(err) {
			return err
		}
		r.logger.Error("Failed to update transaction", map[string]any{
			"transaction_id": txn.ID,
			"error":          err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	txn.Version++
	return nil
}

// GetByID retrieves a transaction with its line items in scan order
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var m model.Transaction
	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&m)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"transaction_id": id,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return modelToEntity(&m), nil
}

// List returns transactions matching the filter, newest first
func (r *TransactionRepository) List(ctx context.Context, filter persistence.TransactionFilter) ([]*entity.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("date_time DESC")

	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("return_status = ?", string(filter.Status))
	}
	if filter.OpenOnly {
		q = q.Where("return_status IN ?", openStatuses)
	}
	if filter.From != nil {
		q = q.Where("date_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date_time <= ?", *filter.To)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.ItemBarcode != "" {
		q = q.Where("id IN (?)", r.db.Model(&model.TransactionItem{}).
			Select("transaction_id").
			Where("item_barcode = ?", filter.ItemBarcode))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var rows []model.Transaction
	if err := q.Find(&rows).Error; err != nil {
		r.logger.Error("Failed to list transactions", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	txns := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		txns = append(txns, modelToEntity(&rows[i]))
	}
	return txns, nil
}

// ReservedQuantity sums the outstanding quantity for a barcode across all
// open transactions. This is the authoritative availability input.
func (r *TransactionRepository) ReservedQuantity(ctx context.Context, barcode string) (int, error) {
	var reserved int64
	err := r.db.WithContext(ctx).Model(&model.TransactionItem{}).
		Select("COALESCE(SUM(quantity_borrowed - quantity_returned), 0)").
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transaction_items.item_barcode = ?", barcode).
		Where("transactions.return_status IN ?", openStatuses).
		Scan(&reserved).Error

	if err != nil {
		r.logger.Error("Failed to compute reserved quantity", map[string]any{
			"barcode": barcode,
			"error":   err.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return int(reserved), nil
}

// CountByStatus aggregates transaction counts per stored status
func (r *TransactionRepository) CountByStatus(ctx context.Context) ([]persistence.StatusCount, error) {
	var rows []struct {
		ReturnStatus string
		Count        int64
	}
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("return_status, COUNT(*) as count").
		Group("return_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	counts := make([]persistence.StatusCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, persistence.StatusCount{
			Status: entity.ReturnStatus(row.ReturnStatus),
			Count:  row.Count,
		})
	}
	return counts, nil
}

// TopBorrowedItems returns the most frequently borrowed items
func (r *TransactionRepository) TopBorrowedItems(ctx context.Context, limit int) ([]persistence.ItemUsage, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []struct {
		ItemBarcode string
		ItemName    string
		TimesLent   int64
		TotalUnits  int64
	}
	err := r.db.WithContext(ctx).Model(&model.TransactionItem{}).
		Select("item_barcode, MAX(item_name) as item_name, COUNT(*) as times_lent, SUM(quantity_borrowed) as total_units").
		Group("item_barcode").
		Order("times_lent DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	usage := make([]persistence.ItemUsage, 0, len(rows))
	for _, row := range rows {
		usage = append(usage, persistence.ItemUsage{
			ItemBarcode: row.ItemBarcode,
			ItemName:    row.ItemName,
			TimesLent:   row.TimesLent,
			TotalUnits:  row.TotalUnits,
		})
	}
	return usage, nil
}
