package persistence

import (
	"context"
)

// AvailabilityCache is a materialized index of barcode → reserved quantity.
// It is a read-through cache over TransactionRepository.ReservedQuantity and
// must be invalidated on every transaction write. A nil or unavailable cache
// degrades to the live aggregate query.
type AvailabilityCache interface {
	// GetReserved returns the cached reserved quantity for a barcode.
	// The second return value is false on a cache miss.
	GetReserved(ctx context.Context, barcode string) (int, bool, error)

	// SetReserved stores the reserved quantity for a barcode
	SetReserved(ctx context.Context, barcode string, reserved int) error

	// Invalidate drops the cached entries for the given barcodes
	Invalidate(ctx context.Context, barcodes ...string) error
}
