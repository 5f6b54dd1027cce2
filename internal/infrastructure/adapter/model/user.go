package model

import (
	"time"
)

// User represents the database model for borrowers
type User struct {
	ID            string    `gorm:"primaryKey;size:36"`
	FullName      string    `gorm:"not null;size:255"`
	ContactNumber string    `gorm:"not null;uniqueIndex;size:50"`
	Email         string    `gorm:"size:255"`
	Status        string    `gorm:"not null;size:20;index"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
