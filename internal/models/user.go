package models

import (
	"time"

	"gorm.io/gorm"
)

// User statuses
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`
	Role     string `gorm:"default:'user'"`
	Status   string `gorm:"default:'active'"`
	// BlockedAt records when the maintenance job blocked the account for
	// sustained negative balance.
	BlockedAt   *time.Time
	LastLoginAt time.Time
}
