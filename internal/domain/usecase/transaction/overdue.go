package transaction

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
)

// SweepOverdue persists the Overdue classification for open transactions
// past their due date and emits one notification per transition. Reads are
// already overdue-aware through EffectiveStatus; the sweep exists so that
// stored statuses converge and notifications fire without any client help.
// Returns the number of transactions marked.
func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	due, err := s.txnRepo.List(ctx, persistence.TransactionFilter{
		OpenOnly:  true,
		DueBefore: &now,
	})
	if err != nil {
		return 0, fmt.Errorf("overdue sweep query failed: %w", err)
	}

	marked := 0
	for _, candidate := range due {
		if candidate.ReturnStatus == entity.StatusOverdue {
			continue
		}

		txn, err := s.manager.Enqueue(ctx, candidate.ID, func(ctx context.Context) (*entity.Transaction, error) {
			txn, err := s.txnRepo.GetByID(ctx, candidate.ID)
			if err != nil {
				return nil, err
			}
			// Re-check inside the queue: a return scan may have closed it
			if !txn.IsOpen() || txn.ReturnStatus == entity.StatusOverdue || !s.timeProvider.Now().After(txn.DueDate) {
				return txn, nil
			}

			txn.ReturnStatus = entity.StatusOverdue
			if err := s.txnRepo.Update(ctx, txn); err != nil {
				return nil, err
			}
			return txn, nil
		})
		if err != nil {
			s.logger.Error("Failed to mark transaction overdue", map[string]any{
				"transaction_id": candidate.ID,
				"error":          err.Error(),
			})
			continue
		}
		if txn.ReturnStatus != entity.StatusOverdue {
			continue
		}

		marked++
		s.notify(ctx, notification.Notification{
			Type:          notification.TypeTransactionOverdue,
			Message:       fmt.Sprintf("%s is overdue since %s", txn.UserName, txn.DueDate.Format("Jan 2 15:04")),
			TransactionID: txn.ID,
			UserID:        txn.UserID,
		})
	}

	if marked > 0 {
		s.logger.Info("Overdue sweep completed", map[string]any{
			"marked": marked,
		})
	}
	return marked, nil
}
