package models

import "time"

// TransactionKind is the direction of a transaction.
type TransactionKind string

const (
	KindEntry TransactionKind = "ENTRADA"
	KindExit  TransactionKind = "SAIDA"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == KindEntry || k == KindExit
}

// Transaction is a single entry or exit on an account.
type Transaction struct {
	ID              uint            `gorm:"primaryKey"`
	AccountID       uint            `gorm:"index;not null"`
	AmountCents     int64           `gorm:"not null"` // always positive; direction comes from Kind
	Kind            TransactionKind `gorm:"size:16;index;not null"`
	Description     string          `gorm:"size:255;not null"`
	TransactionDate time.Time       `gorm:"index;not null"`
	CreatedAt       time.Time

	Categories []Category `gorm:"many2many:transaction_categories"`
}

// SignedEffectCents is the balance delta this transaction contributes:
// +amount for ENTRADA, -amount for SAIDA.
func (t *Transaction) SignedEffectCents() int64 {
	if t.Kind == KindEntry {
		return t.AmountCents
	}
	return -t.AmountCents
}
