package models

import "time"

// CreditCard is a stored, tokenized payment card. The raw number never
// persists; CardNumber holds the vault token.
type CreditCard struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"not null;index"`
	CardNumber  string `gorm:"not null"`
	CardType    string `gorm:"not null"`
	ExpiryMonth string `gorm:"not null"`
	ExpiryYear  string `gorm:"not null"`
	LastFour    string `gorm:"not null"`
	IsDefault   bool   `gorm:"default:false"`
	Status      string `gorm:"default:'active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
