package transaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
)

func strPtr(s string) *string { return &s }

func TestAnnotate(t *testing.T) {
	ctx := context.Background()

	t.Run("set fields are last-write-wins, nil fields untouched", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{approvedUser("user-1", "Ada Lovelace")})
		id := openBorrow(t, f)

		_, err := f.svc.Annotate(ctx, AnnotationRequest{
			TransactionID: id,
			FeedbackEmoji: strPtr("😀"),
			NotesComments: strPtr("probe tip missing"),
		})
		require.NoError(t, err)

		txn, err := f.svc.Annotate(ctx, AnnotationRequest{
			TransactionID:       id,
			PartialReturnReason: strPtr("kept one multimeter for the demo"),
		})
		require.NoError(t, err)

		assert.Equal(t, "😀", txn.FeedbackEmoji)
		assert.Equal(t, "probe tip missing", txn.NotesComments)
		assert.Equal(t, "kept one multimeter for the demo", txn.PartialReturnReason)
	})

	t.Run("annotations never change the lifecycle status", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{approvedUser("user-1", "Ada Lovelace")})
		id := openBorrow(t, f)

		txn, err := f.svc.Annotate(ctx, AnnotationRequest{
			TransactionID: id,
			FeedbackEmoji: strPtr("👍"),
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, txn.ReturnStatus)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), nil)

		_, err := f.svc.Annotate(ctx, AnnotationRequest{TransactionID: "missing"})
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})
}

func TestOverrideStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("records the override side-band without touching the derived status", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), []*entity.User{approvedUser("user-1", "Ada Lovelace")})
		id := openBorrow(t, f)

		txn, err := f.svc.OverrideStatus(ctx, OverrideRequest{
			TransactionID: id,
			Status:        entity.StatusCompleted,
			Reason:        "items written off after water damage",
			OverriddenBy:  "admin-7",
		})
		require.NoError(t, err)

		require.NotNil(t, txn.Override)
		assert.Equal(t, entity.StatusCompleted, txn.Override.Status)
		assert.Equal(t, "admin-7", txn.Override.OverriddenBy)
		assert.Equal(t, f.clock.Now(), txn.Override.At)

		// The derived machinery keeps running on the canonical lines
		assert.Equal(t, entity.StatusPending, txn.ReturnStatus)
		reserved, err := f.txns.ReservedQuantity(ctx, "OSC-001")
		require.NoError(t, err)
		assert.Equal(t, 2, reserved)
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), nil)

		_, err := f.svc.OverrideStatus(ctx, OverrideRequest{
			TransactionID: "any",
			Status:        entity.StatusOverdue,
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		f := newServiceFixture(t, fixtureStart, labItems(), nil)

		_, err := f.svc.OverrideStatus(ctx, OverrideRequest{
			TransactionID: "any",
			Status:        entity.ReturnStatus("vanished"),
			Reason:        "why not",
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}
