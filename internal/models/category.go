package models

import "time"

// Category is a descriptive tag for transactions.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Transactions []Transaction `gorm:"many2many:transaction_categories"`
}
