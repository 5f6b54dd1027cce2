package transaction

import (
	"context"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
)

// ExtendRequest carries a duration extension for an open transaction
type ExtendRequest struct {
	TransactionID   string
	DurationHours   int
	DurationMinutes int
}

// ExtendDuration recomputes the due date from now plus the new duration and
// moves the transaction to Extended. Extension is permitted from any open
// state; the new due date must strictly exceed the prior one.
func (s *Service) ExtendDuration(ctx context.Context, req ExtendRequest) (*entity.Transaction, error) {
	txn, err := s.manager.Enqueue(ctx, req.TransactionID, func(ctx context.Context) (*entity.Transaction, error) {
		txn, err := s.txnRepo.GetByID(ctx, req.TransactionID)
		if err != nil {
			return nil, err
		}

		millis := entity.DurationMillis(req.DurationHours, req.DurationMinutes)
		if err := txn.Extend(millis, s.timeProvider); err != nil {
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

	s.logger.Info("Transaction duration extended", map[string]any{
		"transaction_id": txn.ID,
		"due_date":       txn.DueDate,
		"duration":       txn.BorrowedDuration,
	})

	return txn, nil
}
