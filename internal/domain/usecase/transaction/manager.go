package transaction

import (
	"context"
	"sync"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// MutationManager serializes lifecycle mutations per transaction ID.
// Concurrent return scans, extensions, or transfers against the same
// transaction are processed strictly in arrival order, so the version check
// in the repository only ever fires for writers that bypassed the queue.
type MutationManager struct {
	logger coreport.Logger

	// Per-transaction mutation queues for strict ordering
	queues         sync.Map // map[string]chan *mutationRequest
	queueWaitGroup sync.WaitGroup
}

// MutationFunc loads, mutates, and persists a transaction
type MutationFunc func(ctx context.Context) (*entity.Transaction, error)

// mutationRequest represents a queued lifecycle mutation
type mutationRequest struct {
	ctx        context.Context
	apply      MutationFunc
	resultChan chan *mutationResult
}

// mutationResult represents the outcome of a processed mutation
type mutationResult struct {
	txn *entity.Transaction
	err error
}

// NewMutationManager creates a new mutation manager
func NewMutationManager(logger coreport.Logger) *MutationManager {
	return &MutationManager{
		logger: logger,
		queues: sync.Map{},
	}
}

// Enqueue adds a mutation to the transaction's queue and waits for its result
func (m *MutationManager) Enqueue(
	ctx context.Context,
	transactionID string,
	apply MutationFunc,
) (*entity.Transaction, error) {
	m.logger.Debug("Enqueuing transaction mutation", map[string]any{
		"transaction_id": transactionID,
	})

	resultChan := make(chan *mutationResult, 1)

	var queue chan *mutationRequest
	queueIface, loaded := m.queues.LoadOrStore(transactionID, make(chan *mutationRequest, 16))
	if queueCh, ok := queueIface.(chan *mutationRequest); ok {
		queue = queueCh
	} else {
		m.logger.Error("Failed to type assert queue channel", nil)
		return nil, errs.ErrInternalServer
	}

	if !loaded {
		m.queueWaitGroup.Add(1)
		go m.processMutations(transactionID, queue)
	}

	req := &mutationRequest{
		ctx:        ctx,
		apply:      apply,
		resultChan: resultChan,
	}

	select {
	case queue <- req:
	case <-ctx.Done():
		m.logger.Warn("Context canceled while enqueueing mutation", map[string]any{
			"transaction_id": transactionID,
			"error":          ctx.Err().Error(),
		})
		return nil, ctx.Err()
	}

	select {
	case result := <-resultChan:
		return result.txn, result.err
	case <-ctx.Done():
		m.logger.Warn("Context canceled while waiting for mutation result", map[string]any{
			"transaction_id": transactionID,
			"error":          ctx.Err().Error(),
		})
		return nil, ctx.Err()
	}
}

// processMutations is the worker goroutine draining one transaction's queue
func (m *MutationManager) processMutations(transactionID string, queue chan *mutationRequest) {
	defer m.queueWaitGroup.Done()

	m.logger.Debug("Mutation queue worker started", map[string]any{
		"transaction_id": transactionID,
	})

	for req := range queue {
		txn, err := req.apply(req.ctx)
		req.resultChan <- &mutationResult{txn: txn, err: err}
		close(req.resultChan)
	}

	m.logger.Debug("Mutation queue worker stopped", map[string]any{
		"transaction_id": transactionID,
	})
}

// Shutdown stops all worker goroutines cleanly
func (m *MutationManager) Shutdown() {
	m.logger.Info("Shutting down mutation manager", nil)

	m.queues.Range(func(_, queueIface interface{}) bool {
		if queue, ok := queueIface.(chan *mutationRequest); ok {
			close(queue)
		}
		return true
	})

	m.queueWaitGroup.Wait()
	m.logger.Info("Mutation manager shut down successfully", nil)
}
