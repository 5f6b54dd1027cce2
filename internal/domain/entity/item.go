package entity

import (
	"time"

	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// Item represents a catalog record. Quantity is the total stock the lab owns;
// it is never decremented at borrow time. Availability is always computed
// from open transactions.
type Item struct {
	Barcode   string
	Name      string
	Category  string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem creates a new catalog item with basic validation
func NewItem(barcode, name, category string, quantity int, timeProvider coreport.TimeProvider) (*Item, error) {
	fields := map[string]string{}
	if barcode == "" {
		fields["barcode"] = "barcode is required"
	}
	if name == "" {
		fields["name"] = "name is required"
	}
	if quantity < 0 {
		fields["quantity"] = "quantity must not be negative"
	}
	if len(fields) > 0 {
		return nil, errs.NewValidationError(fields)
	}

	now := timeProvider.Now()
	return &Item{
		Barcode:   barcode,
		Name:      name,
		Category:  category,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Availability is an item's total quantity minus the reserved quantity still
// out with borrowers
type Availability struct {
	ItemBarcode string
	ItemName    string
	Total       int
	Reserved    int
}

// Available returns the quantity currently on the shelf
func (a Availability) Available() int {
	available := a.Total - a.Reserved
	if available < 0 {
		// Conservation invariant violated upstream; never report negative stock
		return 0
	}
	return available
}
