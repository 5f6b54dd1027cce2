package dto

import (
	"time"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	transactionUseCase "github.com/amirhossein-jamali/lab-lending/internal/domain/usecase/transaction"
)

// BorrowLineRequest is one scanned (barcode, quantity) pair
type BorrowLineRequest struct {
	ItemBarcode string `json:"itemBarcode" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// CreateBorrowRequest represents the API request for creating a borrow transaction
type CreateBorrowRequest struct {
	UserID          string              `json:"userId" binding:"required"`
	CourseSubject   string              `json:"courseSubject"`
	Professor       string              `json:"professor"`
	ProfAttendance  string              `json:"profAttendance"`
	RoomNo          string              `json:"roomNo"`
	DurationHours   int                 `json:"durationHours" binding:"min=0"`
	DurationMinutes int                 `json:"durationMinutes" binding:"min=0"`
	Items           []BorrowLineRequest `json:"items" binding:"required,min=1,dive"`
}

// ReturnLineRequest is one return scan against a borrowed line
type ReturnLineRequest struct {
	ItemBarcode      string `json:"itemBarcode" binding:"required"`
	QuantityReturned int    `json:"quantityReturned" binding:"required,gt=0"`
	Condition        string `json:"condition"`
}

// ReturnRequest represents the API request for a scan-complete return submission
type ReturnRequest struct {
	Items []ReturnLineRequest `json:"items" binding:"required,min=1,dive"`
}

// ExtendRequest represents the API request for extending a borrow duration
type ExtendRequest struct {
	DurationHours   int `json:"durationHours" binding:"min=0"`
	DurationMinutes int `json:"durationMinutes" binding:"min=0"`
}

// TransferTargetRequest names the new holder for transferred lines
type TransferTargetRequest struct {
	UserID string `json:"userId" binding:"required"`
	RoomNo string `json:"roomNo"`
}

// TransferRequest represents the API request for transferring item lines
type TransferRequest struct {
	ItemBarcodes []string               `json:"itemBarcodes" binding:"required,min=1"`
	Target       *TransferTargetRequest `json:"target"`
}

// AnnotationRequest represents the API request for post-hoc annotations.
// Absent fields are left untouched.
type AnnotationRequest struct {
	FeedbackEmoji       *string `json:"feedbackEmoji"`
	PartialReturnReason *string `json:"partialReturnReason"`
	NotesComments       *string `json:"notesComments"`
}

// OverrideRequest represents the API request for a manual status override
type OverrideRequest struct {
	Status       string `json:"status" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
	OverriddenBy string `json:"overriddenBy"`
}

// LineItemResponse is one item line in a transaction response
type LineItemResponse struct {
	ItemBarcode      string `json:"itemBarcode"`
	ItemName         string `json:"itemName"`
	QuantityBorrowed int    `json:"quantityBorrowed"`
	QuantityReturned int    `json:"quantityReturned"`
	Outstanding      int    `json:"outstanding"`
	Condition        string `json:"condition,omitempty"`
}

// StatusOverrideResponse reports a recorded manual override
type StatusOverrideResponse struct {
	Status       string    `json:"status"`
	Reason       string    `json:"reason"`
	OverriddenBy string    `json:"overriddenBy,omitempty"`
	At           time.Time `json:"at"`
}

// TransactionResponse represents a transaction in API responses.
// Status is the stored state; EffectiveStatus additionally reflects a due
// date already passed at read time.
type TransactionResponse struct {
	ID                  string                  `json:"id"`
	UserID              string                  `json:"userId"`
	UserName            string                  `json:"userName"`
	ContactNumber       string                  `json:"contactNumber,omitempty"`
	TransactionType     string                  `json:"transactionType"`
	Items               []LineItemResponse      `json:"items"`
	CourseSubject       string                  `json:"courseSubject,omitempty"`
	Professor           string                  `json:"professor,omitempty"`
	ProfAttendance      string                  `json:"profAttendance,omitempty"`
	RoomNo              string                  `json:"roomNo,omitempty"`
	BorrowedDuration    string                  `json:"borrowedDuration"`
	DateTime            time.Time               `json:"dateTime"`
	DueDate             time.Time               `json:"dueDate"`
	ReturnDate          *time.Time              `json:"returnDate,omitempty"`
	Status              string                  `json:"status"`
	EffectiveStatus     string                  `json:"effectiveStatus"`
	PartialReturnReason string                  `json:"partialReturnReason,omitempty"`
	NotesComments       string                  `json:"notesComments,omitempty"`
	FeedbackEmoji       string                  `json:"feedbackEmoji,omitempty"`
	Override            *StatusOverrideResponse `json:"override,omitempty"`
	Version             uint64                  `json:"version"`
}

// ReturnResponse reports which branch of the return flow applied
type ReturnResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Completed   bool                `json:"completed"`
	Partial     bool                `json:"partial"`
}

// TransferResponse reports the updated source transaction and the borrow
// created for the new holder, if any
type TransferResponse struct {
	Source    TransactionResponse  `json:"source"`
	NewBorrow *TransactionResponse `json:"newBorrow,omitempty"`
}

// StatusCountResponse is one row of the summary breakdown
type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ItemUsageResponse is one row of the most-borrowed-items ranking
type ItemUsageResponse struct {
	ItemBarcode string `json:"itemBarcode"`
	ItemName    string `json:"itemName"`
	TimesLent   int64  `json:"timesLent"`
	TotalUnits  int64  `json:"totalUnits"`
}

// SummaryResponse represents the dashboard summary
type SummaryResponse struct {
	StatusCounts   []StatusCountResponse `json:"statusCounts"`
	CurrentOverdue int                   `json:"currentOverdue"`
	TopItems       []ItemUsageResponse   `json:"topItems"`
}

// ToTransactionResponse maps a transaction and its effective status to the
// API representation
func ToTransactionResponse(txn *entity.Transaction, effective entity.ReturnStatus) TransactionResponse {
	items := make([]LineItemResponse, 0, len(txn.Items))
	for _, line := range txn.Items {
		items = append(items, LineItemResponse{
			ItemBarcode:      line.ItemBarcode,
			ItemName:         line.ItemName,
			QuantityBorrowed: line.QuantityBorrowed,
			QuantityReturned: line.QuantityReturned,
			Outstanding:      line.Outstanding(),
			Condition:        line.Condition,
		})
	}

	var override *StatusOverrideResponse
	if txn.Override != nil {
		override = &StatusOverrideResponse{
			Status:       string(txn.Override.Status),
			Reason:       txn.Override.Reason,
			OverriddenBy: txn.Override.OverriddenBy,
			At:           txn.Override.At,
		}
	}

	return TransactionResponse{
		ID:                  txn.ID,
		UserID:              txn.UserID,
		UserName:            txn.UserName,
		ContactNumber:       txn.ContactNumber,
		TransactionType:     string(txn.TransactionType),
		Items:               items,
		CourseSubject:       txn.CourseSubject,
		Professor:           txn.Professor,
		ProfAttendance:      txn.ProfAttendance,
		RoomNo:              txn.RoomNo,
		BorrowedDuration:    txn.BorrowedDuration,
		DateTime:            txn.DateTime,
		DueDate:             txn.DueDate,
		ReturnDate:          txn.ReturnDate,
		Status:              string(txn.ReturnStatus),
		EffectiveStatus:     string(effective),
		PartialReturnReason: txn.PartialReturnReason,
		NotesComments:       txn.NotesComments,
		FeedbackEmoji:       txn.FeedbackEmoji,
		Override:            override,
		Version:             txn.Version,
	}
}

// ToViewResponse maps a use case view to the API representation
func ToViewResponse(view *transactionUseCase.TransactionView) TransactionResponse {
	return ToTransactionResponse(view.Transaction, view.EffectiveStatus)
}
