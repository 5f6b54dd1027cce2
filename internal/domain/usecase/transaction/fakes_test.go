package transaction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
)

// quiet is a no-op logger for tests
type quiet struct{}

func (quiet) SetLevel(coreport.LogLevel)   {}
func (quiet) GetLevel() coreport.LogLevel  { return coreport.LogLevelError }
func (quiet) Debug(string, map[string]any) {}
func (quiet) Info(string, map[string]any)  {}
func (quiet) Warn(string, map[string]any)  {}
func (quiet) Error(string, map[string]any) {}
func (quiet) Flush() error                 { return nil }

// fakeClock is a TimeProvider pinned to a settable instant
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Since(t time.Time) coreport.Duration {
	return coreport.Duration(c.Now().Sub(t))
}

func (c *fakeClock) Until(t time.Time) coreport.Duration {
	return coreport.Duration(t.Sub(c.Now()))
}

func (c *fakeClock) WithTimeout(ctx context.Context, _ coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func cloneTransaction(t *entity.Transaction) *entity.Transaction {
	cp := *t
	cp.Items = make([]entity.LineItem, len(t.Items))
	copy(cp.Items, t.Items)
	if t.ReturnDate != nil {
		rd := *t.ReturnDate
		cp.ReturnDate = &rd
	}
	if t.Override != nil {
		ov := *t.Override
		cp.Override = &ov
	}
	return &cp
}

// memTxnRepo is an in-memory TransactionRepository with the same version
// semantics as the database implementation
type memTxnRepo struct {
	mu        sync.Mutex
	byID      map[string]*entity.Transaction
	createErr error
	updateErr error
}

func newMemTxnRepo() *memTxnRepo {
	return &memTxnRepo{byID: map[string]*entity.Transaction{}}
}

func (r *memTxnRepo) Create(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if txn.Version == 0 {
		txn.Version = 1
	}
	r.byID[txn.ID] = cloneTransaction(txn)
	return nil
}

func (r *memTxnRepo) Update(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.byID[txn.ID]
	if !ok {
		return errs.ErrTransactionNotFound
	}
	if stored.Version != txn.Version {
		return errs.NewConflictError(txn.ID, txn.Version)
	}
	txn.Version++
	r.byID[txn.ID] = cloneTransaction(txn)
	return nil
}

func (r *memTxnRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}
	return cloneTransaction(stored), nil
}

func (r *memTxnRepo) List(_ context.Context, filter persistence.TransactionFilter) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transaction
	for _, txn := range r.byID {
		if filter.UserID != "" && txn.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && txn.ReturnStatus != filter.Status {
			continue
		}
		if filter.OpenOnly && !txn.IsOpen() {
			continue
		}
		if filter.DueBefore != nil && !txn.DueDate.Before(*filter.DueBefore) {
			continue
		}
		out = append(out, cloneTransaction(txn))
	}
	return out, nil
}

func (r *memTxnRepo) ReservedQuantity(_ context.Context, barcode string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, txn := range r.byID {
		total += txn.OutstandingQuantity(barcode)
	}
	return total, nil
}

func (r *memTxnRepo) CountByStatus(_ context.Context) ([]persistence.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[entity.ReturnStatus]int64{}
	for _, txn := range r.byID {
		counts[txn.ReturnStatus]++
	}
	var out []persistence.StatusCount
	for status, count := range counts {
		out = append(out, persistence.StatusCount{Status: status, Count: count})
	}
	return out, nil
}

func (r *memTxnRepo) TopBorrowedItems(_ context.Context, limit int) ([]persistence.ItemUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	usage := map[string]*persistence.ItemUsage{}
	for _, txn := range r.byID {
		for _, line := range txn.Items {
			u, ok := usage[line.ItemBarcode]
			if !ok {
				u = &persistence.ItemUsage{ItemBarcode: line.ItemBarcode, ItemName: line.ItemName}
				usage[line.ItemBarcode] = u
			}
			u.TimesLent++
			u.TotalUnits += int64(line.QuantityBorrowed)
		}
	}
	var out []persistence.ItemUsage
	for _, u := range usage {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *u)
	}
	return out, nil
}

// memItemRepo is an in-memory ItemRepository
type memItemRepo struct {
	mu        sync.Mutex
	byBarcode map[string]*entity.Item
}

func newMemItemRepo(items ...*entity.Item) *memItemRepo {
	r := &memItemRepo{byBarcode: map[string]*entity.Item{}}
	for _, it := range items {
		cp := *it
		r.byBarcode[it.Barcode] = &cp
	}
	return r
}

func (r *memItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byBarcode[item.Barcode]; exists {
		return errs.ErrDuplicateItem
	}
	cp := *item
	r.byBarcode[item.Barcode] = &cp
	return nil
}

func (r *memItemRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.byBarcode[barcode]
	if !ok {
		return nil, errs.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) List(_ context.Context) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.byBarcode {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byBarcode[item.Barcode]; !ok {
		return errs.ErrItemNotFound
	}
	cp := *item
	r.byBarcode[item.Barcode] = &cp
	return nil
}

// memUserRepo is an in-memory UserRepository
type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{byID: map[string]*entity.User{}}
	for _, u := range users {
		cp := *u
		r.byID[u.ID] = &cp
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.ContactNumber == user.ContactNumber {
			return errs.ErrDuplicateUser
		}
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return errs.ErrUserNotFound
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memUserRepo) ListByStatus(_ context.Context, status entity.UserStatus) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.byID {
		if u.Status == status {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeUnitOfWork hands back the shared in-memory repositories; there is no
// real transaction to commit or roll back
type fakeUnitOfWork struct {
	txns  *memTxnRepo
	items *memItemRepo
	users *memUserRepo

	begun      int
	committed  int
	rolledBack int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.begun++
	return ctx, nil
}

func (u *fakeUnitOfWork) Commit(context.Context) error {
	u.committed++
	return nil
}

func (u *fakeUnitOfWork) Rollback(context.Context) error {
	u.rolledBack++
	return nil
}

func (u *fakeUnitOfWork) GetTransactionRepository(context.Context) persistence.TransactionRepository {
	return u.txns
}

func (u *fakeUnitOfWork) GetItemRepository(context.Context) persistence.ItemRepository {
	return u.items
}

func (u *fakeUnitOfWork) GetUserRepository(context.Context) persistence.UserRepository {
	return u.users
}

// recordingCache is an in-memory AvailabilityCache that records invalidations
type recordingCache struct {
	mu          sync.Mutex
	reserved    map[string]int
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{reserved: map[string]int{}}
}

func (c *recordingCache) GetReserved(_ context.Context, barcode string) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.reserved[barcode]
	return v, ok, nil
}

func (c *recordingCache) SetReserved(_ context.Context, barcode string, reserved int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reserved[barcode] = reserved
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, barcodes ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range barcodes {
		delete(c.reserved, b)
		c.invalidated = append(c.invalidated, b)
	}
	return nil
}

// recordingEmitter collects emitted notifications
type recordingEmitter struct {
	mu     sync.Mutex
	events []notification.Notification
}

func (e *recordingEmitter) Emit(_ context.Context, n notification.Notification) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, n)
	return nil
}

func (e *recordingEmitter) Types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, n := range e.events {
		out = append(out, n.Type)
	}
	return out
}

func listAll() persistence.TransactionFilter {
	return persistence.TransactionFilter{}
}

// serviceFixture bundles a Service with the fakes behind it
type serviceFixture struct {
	svc     *Service
	uow     *fakeUnitOfWork
	txns    *memTxnRepo
	items   *memItemRepo
	users   *memUserRepo
	cache   *recordingCache
	emitter *recordingEmitter
	clock   *fakeClock
}

func newServiceFixture(t *testing.T, now time.Time, items []*entity.Item, users []*entity.User) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		txns:    newMemTxnRepo(),
		items:   newMemItemRepo(items...),
		users:   newMemUserRepo(users...),
		cache:   newRecordingCache(),
		emitter: &recordingEmitter{},
		clock:   newFakeClock(now),
	}
	f.uow = &fakeUnitOfWork{txns: f.txns, items: f.items, users: f.users}
	f.svc = NewService(f.uow, f.txns, f.items, f.users, f.cache, f.emitter, f.clock, quiet{})
	t.Cleanup(f.svc.Shutdown)
	return f
}
