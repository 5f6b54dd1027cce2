package transaction

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
)

// ReturnRequest carries one scan-complete return submission
type ReturnRequest struct {
	TransactionID string
	Lines         []entity.ReturnLine
}

// ReturnResult tells the caller which branch of the return flow applied
type ReturnResult struct {
	Transaction *entity.Transaction
	Completed   bool
	Partial     bool
}

// ProcessReturn applies a batch of return scans to a transaction. Quantities
// accumulate per line and can never exceed the borrowed quantity; a single
// violation rejects the whole batch with no state change. The derived status
// moves to Completed (with ReturnDate) or PartiallyReturned accordingly.
func (s *Service) ProcessReturn(ctx context.Context, req ReturnRequest) (*ReturnResult, error) {
	txn, err := s.manager.Enqueue(ctx, req.TransactionID, func(ctx context.Context) (*entity.Transaction, error) {
		txn, err := s.txnRepo.GetByID(ctx, req.TransactionID)
		if err != nil {
			return nil, err
		}

		if err := txn.ApplyReturns(req.Lines, s.timeProvider); err != nil {
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

	barcodes := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		barcodes = append(barcodes, line.ItemBarcode)
	}
	s.invalidateAvailability(ctx, barcodes...)

	result := &ReturnResult{
		Transaction: txn,
		Completed:   txn.ReturnStatus == entity.StatusCompleted,
		Partial:     txn.ReturnStatus == entity.StatusPartiallyReturned,
	}

	s.logger.Info("Return scan processed", map[string]any{
		"transaction_id": txn.ID,
		"status":         txn.ReturnStatus,
	})

	if result.Completed {
		s.notify(ctx, notification.Notification{
			Type:          notification.TypeTransactionCompleted,
			Message:       fmt.Sprintf("%s returned all items", txn.UserName),
			TransactionID: txn.ID,
			UserID:        txn.UserID,
		})
	}

	return result, nil
}
