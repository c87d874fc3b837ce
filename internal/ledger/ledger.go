// Package ledger owns accounts' transaction-derived balances. Every mutation
// writes the transaction row and the owning account's balance in one storage
// transaction, so the two can never diverge.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-control/internal/models"
	"finance-control/internal/util"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxAttempts bounds internal retries on retryable storage conflicts.
const maxAttempts = 3

type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordInput is the validated input for Record.
type RecordInput struct {
	AccountID       uint
	Amount          decimal.Decimal
	Kind            models.TransactionKind
	Description     string
	TransactionDate time.Time
}

func (in *RecordInput) amountCents() (int64, error) {
	if !in.Amount.IsPositive() {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	cents, err := util.ToCents(in.Amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return cents, nil
}

func (in *RecordInput) validate() (int64, error) {
	cents, err := in.amountCents()
	if err != nil {
		return 0, err
	}
	if !in.Kind.Valid() {
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, in.Kind)
	}
	if strings.TrimSpace(in.Description) == "" {
		return 0, fmt.Errorf("%w: description is required", ErrInvalidArgument)
	}
	if in.TransactionDate.IsZero() {
		return 0, fmt.Errorf("%w: transaction date is required", ErrInvalidArgument)
	}
	return cents, nil
}

// Record inserts a transaction and applies its signed effect to the owning
// account's balance.
func (l *Ledger) Record(ctx context.Context, in RecordInput) (*models.Transaction, error) {
	cents, err := in.validate()
	if err != nil {
		return nil, err
	}

	trx := models.Transaction{
		AccountID:       in.AccountID,
		AmountCents:     cents,
		Kind:            in.Kind,
		Description:     strings.TrimSpace(in.Description),
		TransactionDate: in.TransactionDate,
	}

	err = l.withRetry(ctx, func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, in.AccountID).Error; err != nil {
			return err
		}
		// reset generated fields in case a prior attempt rolled back
		trx.ID = 0
		trx.CreatedAt = time.Time{}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}
		return adjustBalance(tx, account.ID, trx.SignedEffectCents())
	})
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

// AmendInput carries the mutable transaction fields; nil fields keep their
// current value.
type AmendInput struct {
	Amount          *decimal.Decimal
	Kind            *models.TransactionKind
	Description     *string
	TransactionDate *time.Time
}

func (in *AmendInput) validate() error {
	if in.Amount == nil && in.Kind == nil && in.Description == nil && in.TransactionDate == nil {
		return fmt.Errorf("%w: no fields to amend", ErrInvalidArgument)
	}
	if in.Amount != nil {
		probe := RecordInput{Amount: *in.Amount}
		if _, err := probe.amountCents(); err != nil {
			return err
		}
	}
	if in.Kind != nil && !in.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, *in.Kind)
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidArgument)
	}
	if in.TransactionDate != nil && in.TransactionDate.IsZero() {
		return fmt.Errorf("%w: transaction date is required", ErrInvalidArgument)
	}
	return nil
}

// Amend updates a transaction and applies the net adjustment
// (new effect - old effect) to the account balance, so the balance never
// reflects a half-applied state.
func (l *Ledger) Amend(ctx context.Context, transactionID uint, in AmendInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var amended models.Transaction
	err := l.withRetry(ctx, func(tx *gorm.DB) error {
		var old models.Transaction
		if err := tx.First(&old, transactionID).Error; err != nil {
			return err
		}
		oldEffect := old.SignedEffectCents()

		amended = old
		if in.Amount != nil {
			cents, err := util.ToCents(*in.Amount)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
			}
			amended.AmountCents = cents
		}
		if in.Kind != nil {
			amended.Kind = *in.Kind
		}
		if in.Description != nil {
			amended.Description = strings.TrimSpace(*in.Description)
		}
		if in.TransactionDate != nil {
			amended.TransactionDate = *in.TransactionDate
		}

		if err := tx.Model(&models.Transaction{}).
			Where("id = ?", old.ID).
			Updates(map[string]interface{}{
				"amount_cents":     amended.AmountCents,
				"kind":             amended.Kind,
				"description":      amended.Description,
				"transaction_date": amended.TransactionDate,
			}).Error; err != nil {
			return err
		}

		net := amended.SignedEffectCents() - oldEffect
		if net == 0 {
			return nil
		}
		return adjustBalance(tx, old.AccountID, net)
	})
	if err != nil {
		return nil, err
	}
	return &amended, nil
}

// Void deletes a transaction and reverses its effect on the account balance.
func (l *Ledger) Void(ctx context.Context, transactionID uint) error {
	return l.withRetry(ctx, func(tx *gorm.DB) error {
		var trx models.Transaction
		if err := tx.First(&trx, transactionID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&trx).Error; err != nil {
			return err
		}
		return adjustBalance(tx, trx.AccountID, -trx.SignedEffectCents())
	})
}

// Filter restricts List results. Zero values mean no restriction.
type Filter struct {
	AccountID uint
	Kind      models.TransactionKind
}

// List returns transactions in ascending id order. Each call queries a fresh
// snapshot.
func (l *Ledger) List(ctx context.Context, f Filter) ([]models.Transaction, error) {
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, f.Kind)
	}

	q := l.db.WithContext(ctx).Model(&models.Transaction{})
	if f.AccountID != 0 {
		q = q.Where("account_id = ?", f.AccountID)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}

	var trxs []models.Transaction
	if err := q.Order("id ASC").Find(&trxs).Error; err != nil {
		return nil, classify(err)
	}
	return trxs, nil
}

// adjustBalance applies a relative delta to the account row. The relative
// UPDATE composes with concurrent deltas instead of overwriting them.
func adjustBalance(tx *gorm.DB, accountID uint, deltaCents int64) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance_cents", gorm.Expr("balance_cents + ?", deltaCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// withRetry runs fn in a storage transaction, retrying bounded times when the
// commit was aborted by a concurrent writer. The transaction always resolves
// (commit or rollback) before withRetry returns, including on context
// cancellation mid-operation.
func (l *Ledger) withRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = classify(l.db.WithContext(ctx).Transaction(fn))
		if !errors.Is(err, ErrConflictRetryable) {
			return err
		}
	}
	return err
}

// classify maps storage errors onto the ledger error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflictRetryable),
		errors.Is(err, ErrStorageUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	}

	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %v", ErrConflictRetryable, se.Code)
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
