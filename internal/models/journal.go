package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal types. Every row belongs to exactly one journal.
const (
	JournalGeneral   = "GJ"
	JournalAdjusting = "AJ"
	JournalClosing   = "CJ"
	JournalReversing = "RJ"
)

// JournalEntry is a single debit or credit row. The rows sharing one
// ref_code together form a balanced transaction; a single row never
// carries both sides. account_name is a display snapshot taken at posting
// time — account identity is always resolved through account_code.
type JournalEntry struct {
	ID          int             `db:"id" json:"id"`
	Date        time.Time       `db:"entry_date" json:"date"`
	AccountCode string          `db:"account_code" json:"account_code"`
	AccountName string          `db:"account_name" json:"account_name"`
	Description string          `db:"description" json:"description"`
	Debit       decimal.Decimal `db:"debit" json:"debit"`
	Credit      decimal.Decimal `db:"credit" json:"credit"`
	JournalType string          `db:"journal_type" json:"journal_type"`
	RefCode     string          `db:"ref_code" json:"ref_code"`
}

// RefGroup returns whether the entry belongs to the given ref code group.
func (e JournalEntry) RefGroup(ref string) bool {
	return e.RefCode == ref
}

type JournalEntryRequest struct {
	Date        string          `json:"date" validate:"required"`
	AccountCode string          `json:"account_code" validate:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	JournalType string          `json:"journal_type"`
	RefCode     string          `json:"ref_code"`
}
