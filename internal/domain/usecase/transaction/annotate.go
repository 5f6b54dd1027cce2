package transaction

import (
	"context"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
)

// AnnotationRequest attaches post-hoc annotations to a transaction.
// Nil fields are left untouched; set fields are last-write-wins.
type AnnotationRequest struct {
	TransactionID       string
	FeedbackEmoji       *string
	PartialReturnReason *string
	NotesComments       *string
}

// Annotate applies annotation updates with no state-machine effect
func (s *Service) Annotate(ctx context.Context, req AnnotationRequest) (*entity.Transaction, error) {
	return s.manager.Enqueue(ctx, req.TransactionID, func(ctx context.Context) (*entity.Transaction, error) {
		txn, err := s.txnRepo.GetByID(ctx, req.TransactionID)
		if err != nil {
			return nil, err
		}

		if req.FeedbackEmoji != nil {
			txn.FeedbackEmoji = *req.FeedbackEmoji
		}
		if req.PartialReturnReason != nil {
			txn.PartialReturnReason = *req.PartialReturnReason
		}
		if req.NotesComments != nil {
			txn.NotesComments = *req.NotesComments
		}

		if err := s.txnRepo.Update(ctx, txn); err != nil {
			return nil, err
		}
		return txn, nil
	})
}

// OverrideRequest records a manual admin status override
type OverrideRequest struct {
	TransactionID string
	Status        entity.ReturnStatus
	Reason        string
	OverriddenBy  string
}

// validOverrideStatuses limits manual overrides to known states
var validOverrideStatuses = map[entity.ReturnStatus]bool{
	entity.StatusPending:           true,
	entity.StatusOverdue:           true,
	entity.StatusPartiallyReturned: true,
	entity.StatusCompleted:         true,
	entity.StatusExtended:          true,
	entity.StatusTransferred:       true,
}

// OverrideStatus records a manual override as side-band data. The line items
// and the derived status stay canonical; availability never reads overrides.
func (s *Service) OverrideStatus(ctx context.Context, req OverrideRequest) (*entity.Transaction, error) {
	if !validOverrideStatuses[req.Status] {
		return nil, errs.NewValidationError(map[string]string{"status": "unknown return status"})
	}
	if req.Reason == "" {
		return nil, errs.NewValidationError(map[string]string{"reason": "an override reason is required"})
	}

	txn, err := s.manager.Enqueue(ctx, req.TransactionID, func(ctx context.Context) (*entity.Transaction, error) {
		txn, err := s.txnRepo.GetByID(ctx, req.TransactionID)
		if err != nil {
			return nil, err
		}

		txn.SetOverride(req.Status, req.Reason, req.OverriddenBy, s.timeProvider)

		if err := s.txnRepo.Update(ctx, txn); err != nil {
			return nil, err
		}
		return txn, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("Manual status override recorded", map[string]any{
		"transaction_id": txn.ID,
		"override":       req.Status,
		"overridden_by":  req.OverriddenBy,
		"derived_status": txn.ReturnStatus,
	})

	return txn, nil
}
