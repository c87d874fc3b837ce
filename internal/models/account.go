package models

import "time"

// Account is a bank account owned by a single user.
// BalanceCents must always equal the initial balance plus the sum of signed
// effects of the account's transactions; only the ledger package mutates it.
type Account struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index;not null"`
	Institution  string `gorm:"size:128;not null"`
	AccountType  string `gorm:"size:64;not null"`
	BalanceCents int64  `gorm:"not null;default:0"` // store in cents to avoid float
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE"`
}
