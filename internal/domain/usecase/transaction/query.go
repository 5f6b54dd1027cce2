package transaction

import (
	"context"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
)

// TransactionView pairs a transaction with its effective (read-time) status.
// The stored status lags for overdue classification; the server clock is
// authoritative at every read.
type TransactionView struct {
	Transaction     *entity.Transaction
	EffectiveStatus entity.ReturnStatus
}

// Get returns a transaction with its effective status as of now
func (s *Service) Get(ctx context.Context, id string) (*TransactionView, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TransactionView{
		Transaction:     txn,
		EffectiveStatus: txn.EffectiveStatus(s.timeProvider.Now()),
	}, nil
}

// List returns transactions matching the filter, each with its effective status
func (s *Service) List(ctx context.Context, filter persistence.TransactionFilter) ([]*TransactionView, error) {
	txns, err := s.txnRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	views := make([]*TransactionView, 0, len(txns))
	for _, txn := range txns {
		views = append(views, &TransactionView{
			Transaction:     txn,
			EffectiveStatus: txn.EffectiveStatus(now),
		})
	}
	return views, nil
}

// Summary is the dashboard aggregate
type Summary struct {
	StatusCounts   []persistence.StatusCount
	CurrentOverdue int
	TopItems       []persistence.ItemUsage
}

// Summarize builds the dashboard summary: stored status counts, the number
// of open transactions currently past due, and the top borrowed items
func (s *Service) Summarize(ctx context.Context, topItems int) (*Summary, error) {
	counts, err := s.txnRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	open, err := s.txnRepo.List(ctx, persistence.TransactionFilter{OpenOnly: true, DueBefore: &now})
	if err != nil {
		return nil, err
	}

	top, err := s.txnRepo.TopBorrowedItems(ctx, topItems)
	if err != nil {
		return nil, err
	}

	return &Summary{
		StatusCounts:   counts,
		CurrentOverdue: len(open),
		TopItems:       top,
	}, nil
}
