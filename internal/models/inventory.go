package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryCardEntry is one row of the perpetual inventory card. The card
// is append-only: balance columns carry the running quantity and
// moving-average cost after this row. Corrections edit or delete a row and
// replay the whole card.
type InventoryCardEntry struct {
	ID                int             `db:"id" json:"id"`
	Date              time.Time       `db:"entry_date" json:"date"`
	ProductName       string          `db:"product_name" json:"product_name"`
	RefCode           string          `db:"ref_code" json:"ref_code"`
	Description       string          `db:"description" json:"description"`
	PurchaseQuantity  decimal.Decimal `db:"purchase_quantity" json:"purchase_quantity"`
	PurchaseUnitPrice decimal.Decimal `db:"purchase_unit_price" json:"purchase_unit_price"`
	PurchaseAmount    decimal.Decimal `db:"purchase_amount" json:"purchase_amount"`
	SalesQuantity     decimal.Decimal `db:"sales_quantity" json:"sales_quantity"`
	SalesUnitPrice    decimal.Decimal `db:"sales_unit_price" json:"sales_unit_price"`
	SalesAmount       decimal.Decimal `db:"sales_amount" json:"sales_amount"`
	BalanceQuantity   decimal.Decimal `db:"balance_quantity" json:"balance_quantity"`
	BalanceUnitPrice  decimal.Decimal `db:"balance_unit_price" json:"balance_unit_price"`
	BalanceAmount     decimal.Decimal `db:"balance_amount" json:"balance_amount"`
	Employee          string          `db:"employee" json:"employee"`
}

type InventoryCardUpdateRequest struct {
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	PurchaseQuantity  decimal.Decimal `json:"purchase_quantity"`
	PurchaseUnitPrice decimal.Decimal `json:"purchase_unit_price"`
	SalesQuantity     decimal.Decimal `json:"sales_quantity"`
	SalesUnitPrice    decimal.Decimal `json:"sales_unit_price"`
}
