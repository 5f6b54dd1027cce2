package dto

import (
	"time"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
)

// RegisterUserRequest represents the API request for registering a borrower
type RegisterUserRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	ContactNumber string `json:"contactNumber" binding:"required"`
	Email         string `json:"email"`
}

// UserResponse represents a borrower in API responses
type UserResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	ContactNumber string    `json:"contactNumber"`
	Email         string    `json:"email,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToUserResponse maps a borrower to the API representation
func ToUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		FullName:      user.FullName,
		ContactNumber: user.ContactNumber,
		Email:         user.Email,
		Status:        string(user.Status),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
