package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType carries the sign semantics of a transaction. Amounts are
// stored as absolute values once a type has been assigned.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// CategorySource records which stage decided a transaction's category.
type CategorySource string

const (
	SourceRule    CategorySource = "rule"
	SourceAI      CategorySource = "ai"
	SourceManual  CategorySource = "manual"
	SourceLearned CategorySource = "learned"
)

// Frequency is a detected recurrence interval.
type Frequency string

const (
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// RawTransaction is one parsed statement row before anonymization and
// categorization. Every format adapter produces this shape so the rest of
// the pipeline never sees per-bank field names.
type RawTransaction struct {
	Date                 time.Time         `json:"date"`
	Description          string            `json:"description"`
	Amount               float64           `json:"amount"`
	Currency             string            `json:"currency"`
	Category             string            `json:"category,omitempty"`
	Subcategory          string            `json:"subcategory,omitempty"`
	Recipient            string            `json:"recipient,omitempty"`
	RecipientIBAN        string            `json:"recipientIban,omitempty"`
	ReferenceAccount     string            `json:"referenceAccount,omitempty"`
	ReferenceAccountName string            `json:"referenceAccountName,omitempty"`
	IsTransfer           bool              `json:"isTransfer,omitempty"`
	RawData              map[string]string `json:"-"`
}

// Transaction is a RawTransaction after sign normalization. Amount is always
// >= 0; Type carries the original sign.
type Transaction struct {
	RawTransaction

	ID                 string          `json:"id"`
	Type               TransactionType `json:"type"`
	Merchant           string          `json:"merchant,omitempty"`
	IsRecurring        bool            `json:"isRecurring,omitempty"`
	RecurringFrequency Frequency       `json:"recurringFrequency,omitempty"`
	IsExcluded         bool            `json:"isExcluded,omitempty"`
	CategorySource     CategorySource  `json:"categorySource,omitempty"`
	DoubleBookingMatch string          `json:"doubleBookingMatch,omitempty"`
}

// FromRaw normalizes a raw row into a Transaction: assigns a fresh id,
// derives the type from the signed amount and stores the absolute value.
func FromRaw(raw RawTransaction) Transaction {
	tx := Transaction{
		RawTransaction: raw,
		ID:             uuid.NewString(),
		Type:           TypeIncome,
	}
	if raw.Amount < 0 {
		tx.Type = TypeExpense
		tx.Amount = -raw.Amount
	}
	return tx
}

// Counterparty returns the best available counterparty label, preferring the
// cleaned merchant name over the raw recipient and description.
func (t *Transaction) Counterparty() string {
	if t.Merchant != "" {
		return t.Merchant
	}
	if t.Recipient != "" {
		return t.Recipient
	}
	return t.Description
}
