package model

import "time"

// MigrationVersion tracks applied schema versions
type MigrationVersion struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Version   string    `gorm:"size:16;not null"`
	AppliedAt time.Time `gorm:"not null"`
	Details   string    `gorm:"size:255"`
}

// TableName specifies the table name for MigrationVersion
func (MigrationVersion) TableName() string {
	return "migration_versions"
}
