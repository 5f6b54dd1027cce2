package notification

import (
	"context"
)

// Notification event types
const (
	TypeBorrowCreated        = "borrow_created"
	TypeTransactionCompleted = "transaction_completed"
	TypeTransactionOverdue   = "transaction_overdue"
	TypeItemsTransferred     = "items_transferred"
)

// Notification is the {type, message} event delivered to the external
// notification system on lifecycle transitions
type Notification struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
	UserID        string `json:"userId,omitempty"`
}

// Emitter delivers notifications to the external collaborator. Delivery is
// fire-and-forget: the lifecycle engine never blocks on or rolls back for a
// failed emit.
type Emitter interface {
	Emit(ctx context.Context, n Notification) error
}
