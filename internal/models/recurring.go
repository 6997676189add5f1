package models

import "time"

// RecurringSchedule drives re-execution of a template transaction on a
// calendar interval. NextRunAt is advanced per occurrence so a missed tick
// neither skips nor duplicates a due date.
type RecurringSchedule struct {
	ID            uint      `gorm:"primarykey"`
	TransactionID uint      `gorm:"uniqueIndex;not null"`
	WalletID      uint      `gorm:"not null;index"`
	Interval      string    `gorm:"not null"`
	NextRunAt     time.Time `gorm:"not null;index"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
