package transaction

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
)

// BorrowLine is one (itemBarcode, quantity) pair collected via a barcode scan
type BorrowLine struct {
	ItemBarcode string
	Quantity    int
}

// CreateBorrowRequest carries the borrower identity, contextual metadata,
// requested duration, and scanned item lines for a new borrow transaction
type CreateBorrowRequest struct {
	UserID          string
	CourseSubject   string
	Professor       string
	ProfAttendance  string
	RoomNo          string
	DurationHours   int
	DurationMinutes int
	Lines           []BorrowLine
}

// CreateBorrow validates availability for every scanned line and persists a
// new borrow transaction. The availability check and the insert run inside
// one serializable unit of work so two simultaneous borrows cannot jointly
// over-allocate an item. The stored item quantity is never decremented.
func (s *Service) CreateBorrow(ctx context.Context, req CreateBorrowRequest) (*entity.Transaction, error) {
	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.CanBorrow() {
		return nil, errs.ErrUserNotApproved
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}

	txn, err := s.createInUnitOfWork(txCtx, req, user)
	if err != nil {
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Rollback failed after borrow creation error", map[string]any{
				"error": rbErr.Error(),
			})
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit borrow transaction: %w", err)
	}

	barcodes := make([]string, 0, len(txn.Items))
	for _, line := range txn.Items {
		barcodes = append(barcodes, line.ItemBarcode)
	}
	s.invalidateAvailability(ctx, barcodes...)

	s.logger.Info("Borrow transaction created", map[string]any{
		"transaction_id": txn.ID,
		"user_id":        txn.UserID,
		"items":          len(txn.Items),
		"due_date":       txn.DueDate,
	})

	s.notify(ctx, notification.Notification{
		Type:          notification.TypeBorrowCreated,
		Message:       fmt.Sprintf("%s borrowed %d item(s), due %s", txn.UserName, len(txn.Items), txn.DueDate.Format("Jan 2 15:04")),
		TransactionID: txn.ID,
		UserID:        txn.UserID,
	})

	return txn, nil
}

// createInUnitOfWork performs the availability checks and insert against
// repositories bound to the open database transaction
func (s *Service) createInUnitOfWork(txCtx context.Context, req CreateBorrowRequest, user *entity.User) (*entity.Transaction, error) {
	boundItems := s.uow.GetItemRepository(txCtx)
	boundTxns := s.uow.GetTransactionRepository(txCtx)

	lines := make([]entity.LineItem, 0, len(req.Lines))
	for _, scanned := range req.Lines {
		item, err := boundItems.GetByBarcode(txCtx, scanned.ItemBarcode)
		if err != nil {
			return nil, err
		}

		reserved, err := boundTxns.ReservedQuantity(txCtx, item.Barcode)
		if err != nil {
			return nil, fmt.Errorf("failed to compute reserved quantity for %s: %w", item.Barcode, err)
		}

		available := item.Quantity - reserved
		if scanned.Quantity > available {
			return nil, errs.NewAvailabilityError(item.Barcode, item.Name, scanned.Quantity, available)
		}

		lines = append(lines, entity.LineItem{
			ItemBarcode:      item.Barcode,
			ItemName:         item.Name,
			QuantityBorrowed: scanned.Quantity,
		})
	}

	txn, err := entity.NewBorrowTransaction(
		user.ID,
		user.FullName,
		user.ContactNumber,
		lines,
		entity.DurationMillis(req.DurationHours, req.DurationMinutes),
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	txn.CourseSubject = req.CourseSubject
	txn.Professor = req.Professor
	txn.ProfAttendance = req.ProfAttendance
	txn.RoomNo = req.RoomNo

	if err := boundTxns.Create(txCtx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}
