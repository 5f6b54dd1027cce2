package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
)

var testStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func twoLineBorrow(t *testing.T, clock *fakeClock) *Transaction {
	t.Helper()
	txn, err := NewBorrowTransaction(
		"user-1",
		"Ada Lovelace",
		"0912000000",
		[]LineItem{
			{ItemBarcode: "OSC-001", ItemName: "Oscilloscope", QuantityBorrowed: 2},
			{ItemBarcode: "MUL-002", ItemName: "Multimeter", QuantityBorrowed: 3},
		},
		DurationMillis(2, 0),
		clock,
	)
	require.NoError(t, err)
	return txn
}

func TestNewBorrowTransaction(t *testing.T) {
	clock := newFakeClock(testStart)

	t.Run("Valid borrow creation", func(t *testing.T) {
		txn := twoLineBorrow(t, clock)

		assert.NotEmpty(t, txn.ID)
		assert.Equal(t, "user-1", txn.UserID)
		assert.Equal(t, "Ada Lovelace", txn.UserName)
		assert.Equal(t, TypeBorrowed, txn.TransactionType)
		assert.Equal(t, StatusPending, txn.ReturnStatus)
		assert.Equal(t, testStart, txn.DateTime)
		assert.Equal(t, testStart.Add(2*time.Hour), txn.DueDate)
		assert.Equal(t, "2 hours", txn.BorrowedDuration)
		assert.Nil(t, txn.ReturnDate)
		assert.True(t, txn.IsOpen())
	})

	t.Run("Distinct IDs across transactions", func(t *testing.T) {
		a := twoLineBorrow(t, clock)
		b := twoLineBorrow(t, clock)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("Empty user", func(t *testing.T) {
		txn, err := NewBorrowTransaction("", "", "", []LineItem{{ItemBarcode: "X", QuantityBorrowed: 1}}, 1000, clock)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		assert.Nil(t, txn)
	})

	t.Run("No item lines", func(t *testing.T) {
		txn, err := NewBorrowTransaction("user-1", "Ada", "", nil, 1000, clock)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Nil(t, txn)
	})

	t.Run("Zero duration", func(t *testing.T) {
		txn, err := NewBorrowTransaction("user-1", "Ada", "", []LineItem{{ItemBarcode: "X", QuantityBorrowed: 1}}, 0, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidDuration)
		assert.Nil(t, txn)
	})

	t.Run("Non-positive line quantity", func(t *testing.T) {
		txn, err := NewBorrowTransaction("user-1", "Ada", "", []LineItem{{ItemBarcode: "X", QuantityBorrowed: 0}}, 1000, clock)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Nil(t, txn)
	})

	t.Run("Duplicate barcode lines", func(t *testing.T) {
		// Returns and transfers address lines by barcode, so two lines for
		// one barcode would leave the second line unreachable
		txn, err := NewBorrowTransaction("user-1", "Ada", "", []LineItem{
			{ItemBarcode: "OSC-001", QuantityBorrowed: 2},
			{ItemBarcode: "OSC-001", QuantityBorrowed: 2},
		}, 1000, clock)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Nil(t, txn)
	})
}

func TestDeriveReturnStatus(t *testing.T) {
	due := testStart.Add(2 * time.Hour)
	beforeDue := testStart.Add(time.Hour)
	afterDue := testStart.Add(3 * time.Hour)

	tests := []struct {
		name    string
		items   []LineItem
		current ReturnStatus
		now     time.Time
		want    ReturnStatus
	}{
		{
			name:    "Nothing returned before due stays pending",
			items:   []LineItem{{QuantityBorrowed: 2}, {QuantityBorrowed: 1}},
			current: StatusPending,
			now:     beforeDue,
			want:    StatusPending,
		},
		{
			name:    "Nothing returned past due becomes overdue",
			items:   []LineItem{{QuantityBorrowed: 2}},
			current: StatusPending,
			now:     afterDue,
			want:    StatusOverdue,
		},
		{
			name:    "Partial return before due",
			items:   []LineItem{{QuantityBorrowed: 2, QuantityReturned: 1}, {QuantityBorrowed: 1}},
			current: StatusPending,
			now:     beforeDue,
			want:    StatusPartiallyReturned,
		},
		{
			name:    "Partial return wins over overdue",
			items:   []LineItem{{QuantityBorrowed: 2, QuantityReturned: 1}},
			current: StatusOverdue,
			now:     afterDue,
			want:    StatusPartiallyReturned,
		},
		{
			name:    "All lines fully returned completes",
			items:   []LineItem{{QuantityBorrowed: 2, QuantityReturned: 2}, {QuantityBorrowed: 1, QuantityReturned: 1}},
			current: StatusPartiallyReturned,
			now:     afterDue,
			want:    StatusCompleted,
		},
		{
			name:    "Extended before new due stays extended",
			items:   []LineItem{{QuantityBorrowed: 2}},
			current: StatusExtended,
			now:     beforeDue,
			want:    StatusExtended,
		},
		{
			name:    "Completed is terminal",
			items:   []LineItem{{QuantityBorrowed: 2, QuantityReturned: 2}},
			current: StatusCompleted,
			now:     afterDue,
			want:    StatusCompleted,
		},
		{
			name:    "Transferred is terminal",
			items:   nil,
			current: StatusTransferred,
			now:     afterDue,
			want:    StatusTransferred,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveReturnStatus(tt.items, tt.current, due, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveStatus(t *testing.T) {
	clock := newFakeClock(testStart)
	txn := twoLineBorrow(t, clock)

	t.Run("Before due reads stored status", func(t *testing.T) {
		assert.Equal(t, StatusPending, txn.EffectiveStatus(testStart.Add(time.Hour)))
	})

	t.Run("Past due reads overdue without persisting", func(t *testing.T) {
		assert.Equal(t, StatusOverdue, txn.EffectiveStatus(testStart.Add(3*time.Hour)))
		assert.Equal(t, StatusPending, txn.ReturnStatus)
	})

	t.Run("Partially returned past due reads overdue", func(t *testing.T) {
		partial := twoLineBorrow(t, clock)
		partial.ReturnStatus = StatusPartiallyReturned
		assert.Equal(t, StatusOverdue, partial.EffectiveStatus(testStart.Add(3*time.Hour)))
	})

	t.Run("Closed statuses are unaffected by the clock", func(t *testing.T) {
		done := twoLineBorrow(t, clock)
		done.ReturnStatus = StatusCompleted
		assert.Equal(t, StatusCompleted, done.EffectiveStatus(testStart.Add(100*time.Hour)))

		moved := twoLineBorrow(t, clock)
		moved.ReturnStatus = StatusTransferred
		assert.Equal(t, StatusTransferred, moved.EffectiveStatus(testStart.Add(100*time.Hour)))
	})
}

func TestApplyReturns(t *testing.T) {
	t.Run("Partial return", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		err := txn.ApplyReturns([]ReturnLine{{ItemBarcode: "OSC-001", QuantityReturned: 1}}, clock)
		require.NoError(t, err)

		assert.Equal(t, StatusPartiallyReturned, txn.ReturnStatus)
		assert.Equal(t, 1, txn.Items[0].QuantityReturned)
		assert.Equal(t, 1, txn.Items[0].Outstanding())
		assert.Nil(t, txn.ReturnDate)
	})

	t.Run("Returns accumulate to completion", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		require.NoError(t, txn.ApplyReturns([]ReturnLine{
			{ItemBarcode: "OSC-001", QuantityReturned: 1},
			{ItemBarcode: "MUL-002", QuantityReturned: 3},
		}, clock))
		assert.Equal(t, StatusPartiallyReturned, txn.ReturnStatus)

		clock.Advance(30 * time.Minute)
		require.NoError(t, txn.ApplyReturns([]ReturnLine{
			{ItemBarcode: "OSC-001", QuantityReturned: 1, Condition: "good"},
		}, clock))

		assert.Equal(t, StatusCompleted, txn.ReturnStatus)
		require.NotNil(t, txn.ReturnDate)
		assert.Equal(t, clock.Now(), *txn.ReturnDate)
		assert.Equal(t, "good", txn.Items[0].Condition)
		assert.False(t, txn.IsOpen())
	})

	t.Run("Over-return rejects the whole batch", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		err := txn.ApplyReturns([]ReturnLine{
			{ItemBarcode: "MUL-002", QuantityReturned: 2},
			{ItemBarcode: "OSC-001", QuantityReturned: 3}, // only 2 borrowed
		}, clock)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidQuantity)
		// First line of the batch must not have been applied
		assert.Equal(t, 0, txn.Items[1].QuantityReturned)
		assert.Equal(t, StatusPending, txn.ReturnStatus)
	})

	t.Run("Cumulative cap across batches", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		require.NoError(t, txn.ApplyReturns([]ReturnLine{{ItemBarcode: "OSC-001", QuantityReturned: 2}}, clock))
		err := txn.ApplyReturns([]ReturnLine{{ItemBarcode: "OSC-001", QuantityReturned: 1}}, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidQuantity)
		assert.Equal(t, 2, txn.Items[0].QuantityReturned)
	})

	t.Run("Unknown barcode", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		err := txn.ApplyReturns([]ReturnLine{{ItemBarcode: "NOPE", QuantityReturned: 1}}, clock)
		assert.ErrorIs(t, err, errs.ErrItemNotFound)
	})

	t.Run("Negative quantity", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		err := txn.ApplyReturns([]ReturnLine{{ItemBarcode: "OSC-001", QuantityReturned: -1}}, clock)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("Closed transaction rejects returns", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)
		txn.ReturnStatus = StatusCompleted

		err := txn.ApplyReturns([]ReturnLine{{ItemBarcode: "OSC-001", QuantityReturned: 1}}, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("Return on overdue transaction still applies", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)
		txn.ReturnStatus = StatusOverdue
		clock.Advance(5 * time.Hour)

		require.NoError(t, txn.ApplyReturns([]ReturnLine{
			{ItemBarcode: "OSC-001", QuantityReturned: 2},
			{ItemBarcode: "MUL-002", QuantityReturned: 3},
		}, clock))
		assert.Equal(t, StatusCompleted, txn.ReturnStatus)
	})
}

func TestExtend(t *testing.T) {
	t.Run("Extension moves due date and status", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		clock.Advance(time.Hour)
		require.NoError(t, txn.Extend(DurationMillis(3, 0), clock))

		assert.Equal(t, StatusExtended, txn.ReturnStatus)
		assert.Equal(t, clock.Now().Add(3*time.Hour), txn.DueDate)
		assert.Equal(t, "3 hours", txn.BorrowedDuration)
		assert.True(t, txn.IsOpen())
	})

	t.Run("Extension permitted from overdue", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)
		txn.ReturnStatus = StatusOverdue
		clock.Advance(4 * time.Hour)

		require.NoError(t, txn.Extend(DurationMillis(1, 0), clock))
		assert.Equal(t, StatusExtended, txn.ReturnStatus)
	})

	t.Run("New due date must exceed the prior one", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		// 30 minutes from now lands before the original two-hour due date
		err := txn.Extend(DurationMillis(0, 30), clock)
		assert.ErrorIs(t, err, errs.ErrInvalidDuration)
		assert.Equal(t, StatusPending, txn.ReturnStatus)
	})

	t.Run("Non-positive duration", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)
		assert.ErrorIs(t, txn.Extend(0, clock), errs.ErrInvalidDuration)
	})

	t.Run("Closed transaction rejects extension", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)
		txn.ReturnStatus = StatusTransferred

		err := txn.Extend(DurationMillis(1, 0), clock)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestRemoveLines(t *testing.T) {
	t.Run("Partial removal keeps the transaction open", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		removed, err := txn.RemoveLines([]string{"OSC-001"})
		require.NoError(t, err)

		require.Len(t, removed, 1)
		assert.Equal(t, "OSC-001", removed[0].ItemBarcode)
		require.Len(t, txn.Items, 1)
		assert.Equal(t, "MUL-002", txn.Items[0].ItemBarcode)
		assert.Equal(t, StatusPending, txn.ReturnStatus)
	})

	t.Run("Removing every line closes as transferred", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		removed, err := txn.RemoveLines([]string{"OSC-001", "MUL-002"})
		require.NoError(t, err)

		assert.Len(t, removed, 2)
		assert.Empty(t, txn.Items)
		assert.Equal(t, StatusTransferred, txn.ReturnStatus)
		assert.False(t, txn.IsOpen())
	})

	t.Run("Unknown barcode rejects the removal", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)

		_, err := txn.RemoveLines([]string{"OSC-001", "NOPE"})
		assert.ErrorIs(t, err, errs.ErrItemNotFound)
		assert.Len(t, txn.Items, 2)
	})

	t.Run("Closed transaction rejects removal", func(t *testing.T) {
		clock := newFakeClock(testStart)
		txn := twoLineBorrow(t, clock)
		txn.ReturnStatus = StatusCompleted

		_, err := txn.RemoveLines([]string{"OSC-001"})
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestSetOverride(t *testing.T) {
	clock := newFakeClock(testStart)
	txn := twoLineBorrow(t, clock)

	txn.SetOverride(StatusCompleted, "items verified on shelf", "admin-7", clock)

	require.NotNil(t, txn.Override)
	assert.Equal(t, StatusCompleted, txn.Override.Status)
	assert.Equal(t, "items verified on shelf", txn.Override.Reason)
	assert.Equal(t, "admin-7", txn.Override.OverriddenBy)
	assert.Equal(t, testStart, txn.Override.At)
	// The derived status stays canonical
	assert.Equal(t, StatusPending, txn.ReturnStatus)
}

func TestOutstandingQuantity(t *testing.T) {
	clock := newFakeClock(testStart)
	txn := twoLineBorrow(t, clock)

	assert.Equal(t, 2, txn.OutstandingQuantity("OSC-001"))
	assert.Equal(t, 3, txn.OutstandingQuantity("MUL-002"))
	assert.Equal(t, 0, txn.OutstandingQuantity("NOPE"))

	require.NoError(t, txn.ApplyReturns([]ReturnLine{{ItemBarcode: "OSC-001", QuantityReturned: 1}}, clock))
	assert.Equal(t, 1, txn.OutstandingQuantity("OSC-001"))

	txn.ReturnStatus = StatusTransferred
	assert.Equal(t, 0, txn.OutstandingQuantity("MUL-002"))
}
