package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types and normal balance sides used throughout the ledger.
const (
	TypeAsset     = "asset"
	TypeLiability = "liability"
	TypeEquity    = "equity"
	TypeRevenue   = "revenue"
	TypeExpense   = "expense"

	NormalDebit  = "debit"
	NormalCredit = "credit"
)

type Account struct {
	AccountCode      string          `db:"account_code" json:"account_code"`
	AccountName      string          `db:"account_name" json:"account_name"`
	AccountType      string          `db:"account_type" json:"account_type"`
	NormalBalance    string          `db:"normal_balance" json:"normal_balance"`
	BeginningBalance decimal.Decimal `db:"beginning_balance" json:"beginning_balance"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

type AccountRequest struct {
	AccountCode      string          `json:"account_code" validate:"required"`
	AccountName      string          `json:"account_name" validate:"required"`
	AccountType      string          `json:"account_type"`
	NormalBalance    string          `json:"normal_balance"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
}

type AccountUpdateRequest struct {
	AccountName      string           `json:"account_name"`
	BeginningBalance *decimal.Decimal `json:"beginning_balance"`
}
