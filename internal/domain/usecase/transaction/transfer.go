package transaction

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
)

// TransferTarget names the new holder context for transferred lines.
// When nil, the lines simply leave the source and the stock becomes
// available for the next borrow evaluation.
type TransferTarget struct {
	UserID string
	RoomNo string
}

// TransferRequest moves still-outstanding lines off a borrow transaction
type TransferRequest struct {
	TransactionID string
	ItemBarcodes  []string
	Target        *TransferTarget
}

// TransferResult reports the updated source and the transaction created for
// the new holder, if any
type TransferResult struct {
	Source    *entity.Transaction
	NewBorrow *entity.Transaction
}

// TransferItems removes the selected lines from the source transaction,
// ending their association with the borrower without marking them returned.
// Availability increases immediately because it is computed from open
// transaction sums. With a target, a fresh borrow transaction carries the
// outstanding quantity under the new holder.
func (s *Service) TransferItems(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if len(req.ItemBarcodes) == 0 {
		return nil, fmt.Errorf("no item lines selected for transfer")
	}

	var removed []entity.LineItem
	source, err := s.manager.Enqueue(ctx, req.TransactionID, func(ctx context.Context) (*entity.Transaction, error) {
		txn, err := s.txnRepo.GetByID(ctx, req.TransactionID)
		if err != nil {
			return nil, err
		}

		removed, err = txn.RemoveLines(req.ItemBarcodes)
		if err != nil {
			return nil, err
		}

		if err := s.txnRepo.Update(ctx, txn); err != nil {
			return nil, err
		}
		return txn, nil
	})
	if err != nil {
		return nil, err
	}

	// The source update is committed; the removed lines no longer reserve
	// stock even if creating the target borrow fails below
	s.invalidateAvailability(ctx, req.ItemBarcodes...)

	result := &TransferResult{Source: source}

	if req.Target != nil {
		newTxn, err := s.createTransferBorrow(ctx, source, removed, *req.Target)
		if err != nil {
			// The source update already committed; surface the partial outcome
			s.logger.Error("Transfer target borrow creation failed", map[string]any{
				"source_transaction": source.ID,
				"target_user":        req.Target.UserID,
				"error":              err.Error(),
			})
			return result, err
		}
		result.NewBorrow = newTxn
		s.invalidateAvailability(ctx, req.ItemBarcodes...)
	}

	s.logger.Info("Item lines transferred", map[string]any{
		"transaction_id": source.ID,
		"lines":          len(removed),
		"source_status":  source.ReturnStatus,
	})

	s.notify(ctx, notification.Notification{
		Type:          notification.TypeItemsTransferred,
		Message:       fmt.Sprintf("%d item line(s) transferred from %s", len(removed), source.UserName),
		TransactionID: source.ID,
		UserID:        source.UserID,
	})

	return result, nil
}

// createTransferBorrow opens a new borrow transaction for the target holder
// carrying the outstanding quantity of the transferred lines. The new
// transaction inherits the source's duration with a fresh clock.
func (s *Service) createTransferBorrow(
	ctx context.Context,
	source *entity.Transaction,
	removed []entity.LineItem,
	target TransferTarget,
) (*entity.Transaction, error) {
	user, err := s.userRepo.GetByID(ctx, target.UserID)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.LineItem, 0, len(removed))
	for _, line := range removed {
		if line.Outstanding() <= 0 {
			continue
		}
		lines = append(lines, entity.LineItem{
			ItemBarcode:      line.ItemBarcode,
			ItemName:         line.ItemName,
			QuantityBorrowed: line.Outstanding(),
		})
	}
	if len(lines) == 0 {
		return nil, nil
	}

	txn, err := entity.NewBorrowTransaction(
		user.ID,
		user.FullName,
		user.ContactNumber,
		lines,
		source.BorrowedDurationMillis,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	txn.CourseSubject = source.CourseSubject
	txn.Professor = source.Professor
	txn.RoomNo = target.RoomNo
	if txn.RoomNo == "" {
		txn.RoomNo = source.RoomNo
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}
