package transaction

import (
	"context"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
)

// Service is the transaction lifecycle engine. It creates borrow
// transactions, applies return scans, extensions, and transfers, classifies
// overdue transactions, and notifies the external emitter on transitions.
type Service struct {
	uow          persistence.UnitOfWork
	txnRepo      persistence.TransactionRepository
	itemRepo     persistence.ItemRepository
	userRepo     persistence.UserRepository
	cache        persistence.AvailabilityCache
	emitter      notification.Emitter
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	validator    *RequestValidator
	manager      *MutationManager
}

// NewService creates a new transaction lifecycle service.
// cache may be nil; availability then falls back to the live aggregate query.
func NewService(
	uow persistence.UnitOfWork,
	txnRepo persistence.TransactionRepository,
	itemRepo persistence.ItemRepository,
	userRepo persistence.UserRepository,
	cache persistence.AvailabilityCache,
	emitter notification.Emitter,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		txnRepo:      txnRepo,
		itemRepo:     itemRepo,
		userRepo:     userRepo,
		cache:        cache,
		emitter:      emitter,
		timeProvider: timeProvider,
		logger:       logger,
		validator:    NewRequestValidator(),
		manager:      NewMutationManager(logger),
	}
}

// Shutdown drains the per-transaction mutation queues
func (s *Service) Shutdown() {
	s.manager.Shutdown()
}

// invalidateAvailability drops cached reserved quantities after a write.
// Cache failures are logged and swallowed: the cache is an optimization,
// never the source of truth.
func (s *Service) invalidateAvailability(ctx context.Context, barcodes ...string) {
	if s.cache == nil || len(barcodes) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, barcodes...); err != nil {
		s.logger.Warn("Failed to invalidate availability cache", map[string]any{
			"barcodes": barcodes,
			"error":    err.Error(),
		})
	}
}

// notify delivers a notification without letting emitter failures surface
// into the lifecycle operation
func (s *Service) notify(ctx context.Context, n notification.Notification) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(ctx, n); err != nil {
		s.logger.Warn("Failed to emit notification", map[string]any{
			"type":           n.Type,
			"transaction_id": n.TransactionID,
			"error":          err.Error(),
		})
	}
}
