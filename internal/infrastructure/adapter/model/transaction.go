package model

import (
	"time"
)

// Transaction represents the database model for borrow transactions
type Transaction struct {
	ID              string    `gorm:"primaryKey;size:36"`
	UserID          string    `gorm:"not null;index;size:36"`
	UserName        string    `gorm:"not null;size:255"`
	ContactNumber   string    `gorm:"size:50"`
	TransactionType string    `gorm:"not null;size:20"`

	CourseSubject  string `gorm:"size:255"`
	Professor      string `gorm:"size:255"`
	ProfAttendance string `gorm:"size:50"`
	RoomNo         string `gorm:"size:50"`

	BorrowedDuration       string `gorm:"size:100"`
	BorrowedDurationMillis int64  `gorm:"not null"`

	DateTime   time.Time `gorm:"not null;index"`
	DueDate    time.Time `gorm:"not null;index"`
	ReturnDate *time.Time

	ReturnStatus        string `gorm:"not null;size:30;index"`
	PartialReturnReason string `gorm:"type:text"`
	NotesComments       string `gorm:"type:text"`
	FeedbackEmoji       string `gorm:"size:20"`

	OverrideStatus *string    `gorm:"size:30"`
	OverrideReason string     `gorm:"type:text"`
	OverriddenBy   string     `gorm:"size:255"`
	OverriddenAt   *time.Time

	Version uint64 `gorm:"not null;default:1"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID;references:ID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem represents one line item row within a transaction
type TransactionItem struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	TransactionID    string `gorm:"not null;index;size:36"`
	ItemBarcode      string `gorm:"not null;index;size:100"`
	ItemName         string `gorm:"not null;size:255"`
	QuantityBorrowed int    `gorm:"not null"`
	QuantityReturned int    `gorm:"not null;default:0"`
	Condition        string `gorm:"size:100"`
	Position         int    `gorm:"not null;default:0"` // preserves scan order
}

// TableName specifies the table name for TransactionItem
func (TransactionItem) TableName() string {
	return "transaction_items"
}
