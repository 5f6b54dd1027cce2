package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
)

var fixtureStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func approvedUser(id, name string) *entity.User {
	return &entity.User{
		ID:            id,
		FullName:      name,
		ContactNumber: "0912-000-" + id,
		Status:        entity.UserApproved,
	}
}

func labItems() []*entity.Item {
	return []*entity.Item{
		{Barcode: "OSC-001", Name: "Oscilloscope", Category: "measurement", Quantity: 3},
		{Barcode: "MUL-002", Name: "Multimeter", Category: "measurement", Quantity: 5},
	}
}

func borrowRequest(userID string, lines ...BorrowLine) CreateBorrowRequest {
	return CreateBorrowRequest{
		UserID:        userID,
		CourseSubject: "Electronics Lab",
		Professor:     "Dr. Hopper",
		RoomNo:        "B-204",
		DurationHours: 2,
		Lines:         lines,
	}
}

func TestCreateBorrow(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending transaction inside one unit of work", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{approvedUser("user-1", "Ada Lovelace")})

		txn, err := f.svc.CreateBorrow(ctx, borrowRequest("user-1",
			BorrowLine{ItemBarcode: "OSC-001", Quantity: 2},
			BorrowLine{ItemBarcode: "MUL-002", Quantity: 1},
		))
		require.NoError(t, err)

		assert.Equal(t, entity.StatusPending, txn.ReturnStatus)
		assert.Equal(t, "Ada Lovelace", txn.UserName)
		assert.Equal(t, fixtureStart.Add(2*time.Hour), txn.DueDate)
		require.Len(t, txn.Items, 2)
		assert.Equal(t, "Oscilloscope", txn.Items[0].ItemName)
		assert.Equal(t, 2, txn.Items[0].QuantityBorrowed)

		assert.Equal(t, 1, f.uow.begun)
		assert.Equal(t, 1, f.uow.committed)
		assert.Zero(t, f.uow.rolledBack)

		stored, err := f.txns.GetByID(ctx, txn.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stored.Version)

		assert.Equal(t, []string{"borrow_created"}, f.emitter.Types())
	})

	t.Run("rejects when the request exceeds availability", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{
			approvedUser("user-1", "Ada Lovelace"),
			approvedUser("user-2", "Grace Hopper"),
		})

		_, err := f.svc.CreateBorrow(ctx, borrowRequest("user-1", BorrowLine{ItemBarcode: "OSC-001", Quantity: 2}))
		require.NoError(t, err)

		_, err = f.svc.CreateBorrow(ctx, borrowRequest("user-2", BorrowLine{ItemBarcode: "OSC-001", Quantity: 2}))
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidQuantity)

		var qtyErr *errs.QuantityError
		require.True(t, errors.As(err, &qtyErr))
		assert.Equal(t, "OSC-001", qtyErr.ItemBarcode)
		assert.Equal(t, 2, qtyErr.Requested)
		assert.Equal(t, 1, qtyErr.Limit)

		// The failed attempt rolled back and persisted nothing
		assert.Equal(t, 1, f.uow.rolledBack)
		open, listErr := f.txns.List(ctx, listAll())
		require.NoError(t, listErr)
		assert.Len(t, open, 1)
	})

	t.Run("closed transactions do not reserve stock", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{approvedUser("user-1", "Ada Lovelace")})

		first, err := f.svc.CreateBorrow(ctx, borrowRequest("user-1", BorrowLine{ItemBarcode: "OSC-001", Quantity: 2}))
		require.NoError(t, err)

		_, err = f.svc.ProcessReturn(ctx, ReturnRequest{
			TransactionID: first.ID,
			Lines:         []entity.ReturnLine{{ItemBarcode: "OSC-001", QuantityReturned: 2}},
		})
		require.NoError(t, err)

		// All three oscilloscopes are back on the shelf
		_, err = f.svc.CreateBorrow(ctx, borrowRequest("user-1", BorrowLine{ItemBarcode: "OSC-001", Quantity: 3}))
		require.NoError(t, err)
	})

	t.Run("a barcode scanned twice cannot dodge the availability check", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{approvedUser("user-1", "Ada Lovelace")})

		// 2+2 of a 3-unit item: each line alone fits, the sum does not
		_, err := f.svc.CreateBorrow(ctx, borrowRequest("user-1",
			BorrowLine{ItemBarcode: "OSC-001", Quantity: 2},
			BorrowLine{ItemBarcode: "OSC-001", Quantity: 2},
		))
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValidation)

		var vErr *errs.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "items")

		all, listErr := f.txns.List(ctx, listAll())
		require.NoError(t, listErr)
		assert.Empty(t, all)

		reserved, resErr := f.txns.ReservedQuantity(ctx, "OSC-001")
		require.NoError(t, resErr)
		assert.Zero(t, reserved)
	})

	t.Run("rejects a borrower who is not approved", func(t *testing.T) {
		pending := approvedUser("user-9", "Alan Turing")
		pending.Status = entity.UserPending
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{pending})

		_, err := f.svc.CreateBorrow(ctx, borrowRequest("user-9", BorrowLine{ItemBarcode: "OSC-001", Quantity: 1}))
		assert.ErrorIs(t, err, errs.ErrUserNotApproved)
		assert.Zero(t, f.uow.begun)
	})

	t.Run("rejects an unknown borrower", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), nil)

		_, err := f.svc.CreateBorrow(ctx, borrowRequest("ghost", BorrowLine{ItemBarcode: "OSC-001", Quantity: 1}))
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("rolls back on an unknown item barcode", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{approvedUser("user-1", "Ada Lovelace")})

		_, err := f.svc.CreateBorrow(ctx, borrowRequest("user-1", BorrowLine{ItemBarcode: "NOPE-404", Quantity: 1}))
		assert.ErrorIs(t, err, errs.ErrItemNotFound)
		assert.Equal(t, 1, f.uow.rolledBack)
		assert.Zero(t, f.uow.committed)
	})

	t.Run("collects field errors before touching the directory", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), nil)

		_, err := f.svc.CreateBorrow(ctx, CreateBorrowRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValidation)

		var vErr *errs.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "userId")
		assert.Contains(t, vErr.Fields, "duration")
		assert.Contains(t, vErr.Fields, "items")
	})

	t.Run("invalidates cached availability for every borrowed barcode", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{approvedUser("user-1", "Ada Lovelace")})
		require.NoError(t, f.cache.SetReserved(ctx, "OSC-001", 0))
		require.NoError(t, f.cache.SetReserved(ctx, "MUL-002", 0))

		_, err := f.svc.CreateBorrow(ctx, borrowRequest("user-1",
			BorrowLine{ItemBarcode: "OSC-001", Quantity: 1},
			BorrowLine{ItemBarcode: "MUL-002", Quantity: 1},
		))
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"OSC-001", "MUL-002"}, f.cache.invalidated)
	})
}
