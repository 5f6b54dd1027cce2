package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// TransactionType denotes the logical operation a transaction record represents
type TransactionType string

// Transaction types
const (
	TypeBorrowed TransactionType = "borrowed"
	TypeReturned TransactionType = "returned"
)

// ReturnStatus defines the lifecycle states of a borrow transaction
type ReturnStatus string

// Return statuses
const (
	StatusPending           ReturnStatus = "pending"
	StatusOverdue           ReturnStatus = "overdue"
	StatusPartiallyReturned ReturnStatus = "partially_returned"
	StatusCompleted         ReturnStatus = "completed"
	StatusExtended          ReturnStatus = "extended"
	StatusTransferred       ReturnStatus = "transferred"
)

// LineItem is a single (item, quantityBorrowed, quantityReturned, condition)
// tuple within a transaction. ItemName is denormalized at creation time.
type LineItem struct {
	ItemBarcode      string
	ItemName         string
	QuantityBorrowed int
	QuantityReturned int
	Condition        string
}

// Outstanding returns the quantity still held by the borrower for this line
func (l LineItem) Outstanding() int {
	return l.QuantityBorrowed - l.QuantityReturned
}

// FullyReturned reports whether every borrowed unit on this line came back
func (l LineItem) FullyReturned() bool {
	return l.QuantityReturned >= l.QuantityBorrowed
}

// StatusOverride records a manual admin override of the derived status.
// The line items remain the canonical truth; the override is side-band data
// so it can never silently desynchronize the stored state from the lines.
type StatusOverride struct {
	Status       ReturnStatus
	Reason       string
	OverriddenBy string
	At           time.Time
}

// Transaction is one borrow log record tying a borrower to a set of item
// lines and a lifecycle status
type Transaction struct {
	ID              string
	UserID          string
	UserName        string // snapshot at creation, never re-synced
	ContactNumber   string // snapshot at creation, never re-synced
	TransactionType TransactionType
	Items           []LineItem

	CourseSubject  string
	Professor      string
	ProfAttendance string
	RoomNo         string

	BorrowedDuration       string // human-readable display string
	BorrowedDurationMillis int64

	DateTime   time.Time // authoritative start of the borrowing period
	DueDate    time.Time
	ReturnDate *time.Time

	ReturnStatus        ReturnStatus
	PartialReturnReason string
	NotesComments       string
	FeedbackEmoji       string

	Override *StatusOverride

	// Version backs the optimistic concurrency check on every update
	Version uint64
}

// NewBorrowTransaction creates a new borrow transaction in the pending state.
// Availability validation happens in the use case against the item catalog;
// this constructor only enforces shape invariants.
func NewBorrowTransaction(
	userID string,
	userName string,
	contactNumber string,
	items []LineItem,
	durationMillis int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrUserNotFound
	}
	if len(items) == 0 {
		return nil, errs.NewValidationError(map[string]string{"items": "at least one item line is required"})
	}
	if durationMillis <= 0 {
		return nil, errs.ErrInvalidDuration
	}
	seen := make(map[string]bool, len(items))
	for _, line := range items {
		if line.QuantityBorrowed <= 0 {
			return nil, errs.NewValidationError(map[string]string{
				"items": "quantity for item " + line.ItemBarcode + " must be positive",
			})
		}
		// Barcodes are unique per transaction: returns, transfers, and the
		// outstanding-quantity aggregate all address lines by barcode
		if seen[line.ItemBarcode] {
			return nil, errs.NewValidationError(map[string]string{
				"items": "item " + line.ItemBarcode + " appears on more than one line",
			})
		}
		seen[line.ItemBarcode] = true
	}

	now := timeProvider.Now()
	return &Transaction{
		ID:                     uuid.NewString(),
		UserID:                 userID,
		UserName:               userName,
		ContactNumber:          contactNumber,
		TransactionType:        TypeBorrowed,
		Items:                  items,
		BorrowedDuration:       FormatDurationMillis(durationMillis),
		BorrowedDurationMillis: durationMillis,
		DateTime:               now,
		DueDate:                now.Add(time.Duration(durationMillis) * time.Millisecond),
		ReturnStatus:           StatusPending,
	}, nil
}

// openStatuses are the states in which stock is still out with the borrower
var openStatuses = map[ReturnStatus]bool{
	StatusPending:           true,
	StatusOverdue:           true,
	StatusPartiallyReturned: true,
	StatusExtended:          true,
}

// IsOpen reports whether the transaction still holds stock for availability
// purposes. Completed and Transferred are closed.
func (t *Transaction) IsOpen() bool {
	return openStatuses[t.ReturnStatus]
}

// DeriveReturnStatus computes the status as a pure function of the line items'
// aggregate return state plus the current time vs. the due date. Transferred
// is an explicit terminal state and is never derived here.
func DeriveReturnStatus(items []LineItem, current ReturnStatus, dueDate time.Time, now time.Time) ReturnStatus {
	if current == StatusTransferred || current == StatusCompleted {
		return current
	}

	allFull := true
	anyReturned := false
	for _, line := range items {
		if line.QuantityReturned > 0 {
			anyReturned = true
		}
		if !line.FullyReturned() {
			allFull = false
		}
	}

	if allFull && len(items) > 0 {
		return StatusCompleted
	}
	if anyReturned {
		return StatusPartiallyReturned
	}
	if now.After(dueDate) {
		return StatusOverdue
	}
	return current
}

// EffectiveStatus returns the status as of now, recomputing the overdue
// classification at read time so the server clock is authoritative.
func (t *Transaction) EffectiveStatus(now time.Time) ReturnStatus {
	if !t.IsOpen() {
		return t.ReturnStatus
	}
	if t.ReturnStatus == StatusPartiallyReturned {
		// Partial returns past due still read as overdue
		if now.After(t.DueDate) {
			return StatusOverdue
		}
		return t.ReturnStatus
	}
	if now.After(t.DueDate) {
		return StatusOverdue
	}
	return t.ReturnStatus
}

// ReturnLine records a return scan against one line item
type ReturnLine struct {
	ItemBarcode      string
	QuantityReturned int
	Condition        string
}

// ApplyReturns applies a batch of return scans. Either every line applies or
// none does: a single violation leaves the transaction untouched.
func (t *Transaction) ApplyReturns(returns []ReturnLine, timeProvider coreport.TimeProvider) error {
	if !t.IsOpen() {
		return errs.NewTransitionError(t.ID, string(t.ReturnStatus), "return items on")
	}

	// Validate the whole batch against a scratch copy before mutating
	updated := make([]LineItem, len(t.Items))
	copy(updated, t.Items)

	for _, ret := range returns {
		if ret.QuantityReturned < 0 {
			return errs.NewValidationError(map[string]string{
				"quantityReturned": "must not be negative for item " + ret.ItemBarcode,
			})
		}
		idx := -1
		for i := range updated {
			if updated[i].ItemBarcode == ret.ItemBarcode {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errs.ErrItemNotFound
		}
		line := &updated[idx]
		if line.QuantityReturned+ret.QuantityReturned > line.QuantityBorrowed {
			return errs.NewReturnExceededError(
				line.ItemBarcode,
				line.ItemName,
				line.QuantityReturned+ret.QuantityReturned,
				line.QuantityBorrowed,
			)
		}
		line.QuantityReturned += ret.QuantityReturned
		if ret.Condition != "" {
			line.Condition = ret.Condition
		}
	}

	t.Items = updated

	now := timeProvider.Now()
	t.ReturnStatus = DeriveReturnStatus(t.Items, t.ReturnStatus, t.DueDate, now)
	if t.ReturnStatus == StatusCompleted && t.ReturnDate == nil {
		t.ReturnDate = &now
	}
	return nil
}

// Extend pushes the due date forward by the new duration measured from now.
// The new due date must strictly exceed the prior one.
func (t *Transaction) Extend(durationMillis int64, timeProvider coreport.TimeProvider) error {
	if !t.IsOpen() {
		return errs.NewTransitionError(t.ID, string(t.ReturnStatus), "extend")
	}
	if durationMillis <= 0 {
		return errs.ErrInvalidDuration
	}

	now := timeProvider.Now()
	newDue := now.Add(time.Duration(durationMillis) * time.Millisecond)
	if !newDue.After(t.DueDate) {
		return errs.ErrInvalidDuration
	}

	t.DueDate = newDue
	t.BorrowedDurationMillis = durationMillis
	t.BorrowedDuration = FormatDurationMillis(durationMillis)
	t.ReturnStatus = StatusExtended
	return nil
}

// RemoveLines extracts the named line items for a transfer, returning the
// removed lines. When the removal empties the transaction its status becomes
// Transferred, closing it for availability purposes.
func (t *Transaction) RemoveLines(barcodes []string) ([]LineItem, error) {
	if !t.IsOpen() {
		return nil, errs.NewTransitionError(t.ID, string(t.ReturnStatus), "transfer items from")
	}

	wanted := make(map[string]bool, len(barcodes))
	for _, b := range barcodes {
		wanted[b] = true
	}

	var removed, kept []LineItem
	for _, line := range t.Items {
		if wanted[line.ItemBarcode] {
			removed = append(removed, line)
			delete(wanted, line.ItemBarcode)
		} else {
			kept = append(kept, line)
		}
	}
	if len(wanted) > 0 {
		return nil, errs.ErrItemNotFound
	}

	t.Items = kept
	if len(kept) == 0 {
		t.ReturnStatus = StatusTransferred
	}
	return removed, nil
}

// SetOverride records a manual status override without touching the canonical
// line item data
func (t *Transaction) SetOverride(status ReturnStatus, reason, overriddenBy string, timeProvider coreport.TimeProvider) {
	t.Override = &StatusOverride{
		Status:       status,
		Reason:       reason,
		OverriddenBy: overriddenBy,
		At:           timeProvider.Now(),
	}
}

// OutstandingQuantity returns the total quantity still out for the given
// barcode, zero when the transaction is closed
func (t *Transaction) OutstandingQuantity(barcode string) int {
	if !t.IsOpen() {
		return 0
	}
	for _, line := range t.Items {
		if line.ItemBarcode == barcode {
			return line.Outstanding()
		}
	}
	return 0
}
