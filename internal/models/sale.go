package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one line on a point-of-sale ticket.
type SaleItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// SaleTransaction is a point-of-sale ticket. transaction_code is
// GB{ddmm}{seq:03d}, the sequence restarting every day. Items are stored
// serialized in a single column.
type SaleTransaction struct {
	TransactionCode string          `db:"transaction_code" json:"transaction_code"`
	Date            time.Time       `db:"sale_date" json:"date"`
	ItemsJSON       string          `db:"items" json:"-"`
	Items           []SaleItem      `db:"-" json:"items"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	CashierUsername string          `db:"cashier_username" json:"cashier_username"`
}

type SaleItemRequest struct {
	Name     string          `json:"name" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type SaleRequest struct {
	Date  string            `json:"date" validate:"required"`
	Items []SaleItemRequest `json:"items" validate:"required"`
}

// PurchaseKind selects which asset account a cash purchase debits.
const (
	PurchaseSeedStock = "seed_stock"
	PurchaseSupplies  = "supplies"
	PurchaseEquipment = "equipment"
)

type PurchaseRequest struct {
	Date        string          `json:"date" validate:"required"`
	Kind        string          `json:"kind" validate:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type ManualEntryRequest struct {
	Date         string          `json:"date" validate:"required"`
	DebitCode    string          `json:"debit_code" validate:"required"`
	CreditCode   string          `json:"credit_code" validate:"required"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	JournalType  string          `json:"journal_type"`
}
