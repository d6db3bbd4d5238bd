package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// TransactionSubtype distinguishes recurring from one-off amounts
type TransactionSubtype string

const (
	TransactionSubtypeFixed    TransactionSubtype = "FIXED"
	TransactionSubtypeVariable TransactionSubtype = "VARIABLE"
)

// PaymentSource represents the payment channel of a transaction
type PaymentSource string

const (
	PaymentSourceCash         PaymentSource = "CASH"
	PaymentSourceDebitCard    PaymentSource = "DEBIT_CARD"
	PaymentSourceCreditCard   PaymentSource = "CREDIT_CARD"
	PaymentSourceBankTransfer PaymentSource = "BANK_TRANSFER"
	PaymentSourcePix          PaymentSource = "PIX"
	PaymentSourceOther        PaymentSource = "OTHER"
)

// ValidTransactionType reports whether t is a known transaction type
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// ValidTransactionSubtype reports whether s is a known transaction subtype
func ValidTransactionSubtype(s TransactionSubtype) bool {
	return s == TransactionSubtypeFixed || s == TransactionSubtypeVariable
}

// ValidPaymentSource reports whether s is a known payment source
func ValidPaymentSource(s PaymentSource) bool {
	switch s {
	case PaymentSourceCash, PaymentSourceDebitCard, PaymentSourceCreditCard,
		PaymentSourceBankTransfer, PaymentSourcePix, PaymentSourceOther:
		return true
	}
	return false
}

// Installment describes one payment of an installment purchase (e.g. 3 of 12)
type Installment struct {
	Number int `json:"number"`
	Total  int `json:"total"`
}

// Responsibility is one party's share of a transaction.
// CalculatedAmount is derived from the transaction amount and the percentage;
// it is never authoritative on its own and is always recomputed on write.
type Responsibility struct {
	ResponsibleID    uuid.UUID       `json:"responsibleId"`
	Percentage       decimal.Decimal `json:"percentage"`
	CalculatedAmount decimal.Decimal `json:"calculatedAmount"`
	Notes            string          `json:"notes,omitempty"`
}

// Transaction represents an income or expense record.
// The transaction exclusively owns its responsibility list: responsibilities
// are addressed by position, replaced wholesale on update and deleted with
// the parent.
type Transaction struct {
	ID               uuid.UUID          `json:"id"`
	OwnerID          uuid.UUID          `json:"ownerId"`
	Type             TransactionType    `json:"type"`
	Subtype          TransactionSubtype `json:"subtype"`
	Source           PaymentSource      `json:"source"`
	Description      string             `json:"description"`
	Amount           decimal.Decimal    `json:"amount"`
	Date             time.Time          `json:"date"`
	CategoryID       uuid.UUID          `json:"categoryId"`
	SubcategoryID    *uuid.UUID         `json:"subcategoryId,omitempty"`
	AccountID        *uuid.UUID         `json:"accountId,omitempty"`
	Installment      *Installment       `json:"installment,omitempty"`
	Responsibilities []Responsibility   `json:"responsibilities"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// Validate checks the transaction's own fields. The responsibility list
// invariants (100% sum, calculated amounts) are enforced by the allocator,
// which must run before any write.
func (t *Transaction) Validate() error {
	if !ValidTransactionType(t.Type) {
		return NewFieldValidationError("type", "must be INCOME or EXPENSE", string(t.Type))
	}
	if !ValidTransactionSubtype(t.Subtype) {
		return NewFieldValidationError("subtype", "must be FIXED or VARIABLE", string(t.Subtype))
	}
	if !ValidPaymentSource(t.Source) {
		return NewFieldValidationError("source", "unknown payment source", string(t.Source))
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return NewFieldValidationError("amount", "must be positive", t.Amount.String())
	}
	if t.Date.IsZero() {
		return NewFieldValidationError("date", "is required", nil)
	}
	if t.CategoryID == uuid.Nil {
		return NewFieldValidationError("categoryId", "is required", nil)
	}
	if t.Installment != nil {
		if t.Installment.Number <= 0 || t.Installment.Total <= 0 {
			return NewFieldValidationError("installment", "number and total must be positive", t.Installment)
		}
		if t.Installment.Number > t.Installment.Total {
			return NewFieldValidationError("installment", "number cannot exceed total", t.Installment)
		}
	}
	return nil
}
