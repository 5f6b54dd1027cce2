package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// UserStatus tracks the registration approval lifecycle
type UserStatus string

// User statuses
const (
	UserPending  UserStatus = "pending"
	UserApproved UserStatus = "approved"
	UserDeclined UserStatus = "declined"
)

// User represents a borrower identity record in the user directory.
// Transactions snapshot FullName and ContactNumber at creation time and
// never re-sync when the record changes.
type User struct {
	ID            string
	FullName      string
	ContactNumber string
	Email         string
	Status        UserStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser registers a new borrower in the pending state
func NewUser(fullName, contactNumber, email string, timeProvider coreport.TimeProvider) (*User, error) {
	fields := map[string]string{}
	if fullName == "" {
		fields["fullName"] = "full name is required"
	}
	if contactNumber == "" {
		fields["contactNumber"] = "contact number is required"
	}
	if len(fields) > 0 {
		return nil, errs.NewValidationError(fields)
	}

	now := timeProvider.Now()
	return &User{
		ID:            uuid.NewString(),
		FullName:      fullName,
		ContactNumber: contactNumber,
		Email:         email,
		Status:        UserPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Approve moves a pending registration to approved
func (u *User) Approve(timeProvider coreport.TimeProvider) error {
	if u.Status == UserApproved {
		return nil
	}
	u.Status = UserApproved
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// Decline rejects a registration
func (u *User) Decline(timeProvider coreport.TimeProvider) error {
	u.Status = UserDeclined
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// CanBorrow reports whether the user may open new borrow transactions
func (u *User) CanBorrow() bool {
	return u.Status == UserApproved
}
