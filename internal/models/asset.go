package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Depreciation methods.
const (
	MethodStraightLine     = "straight_line"
	MethodDecliningBalance = "declining_balance"
	MethodSumOfYears       = "sum_of_years"
)

// Period types for depreciation computation.
const (
	PeriodAnnual  = "annual"
	PeriodMonthly = "monthly"
)

// Asset is a depreciable fixed asset. book_value = cost -
// accumulated_depreciation and never drops below salvage_value.
type Asset struct {
	ID                      int             `db:"id" json:"id"`
	AssetName               string          `db:"asset_name" json:"asset_name"`
	AssetCode               string          `db:"asset_code" json:"asset_code"`
	Cost                    decimal.Decimal `db:"cost" json:"cost"`
	SalvageValue            decimal.Decimal `db:"salvage_value" json:"salvage_value"`
	UsefulLife              int             `db:"useful_life" json:"useful_life"`
	DepreciationMethod      string          `db:"depreciation_method" json:"depreciation_method"`
	PurchaseDate            time.Time       `db:"purchase_date" json:"purchase_date"`
	AccumulatedDepreciation decimal.Decimal `db:"accumulated_depreciation" json:"accumulated_depreciation"`
	BookValue               decimal.Decimal `db:"book_value" json:"book_value"`
	CreatedAt               time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time       `db:"updated_at" json:"updated_at"`
}

// FullyDepreciated reports whether the asset has reached its terminal
// state (book value at salvage).
func (a Asset) FullyDepreciated() bool {
	return a.BookValue.LessThanOrEqual(a.SalvageValue)
}

type AssetRequest struct {
	AssetName          string          `json:"asset_name" validate:"required"`
	AssetCode          string          `json:"asset_code"`
	Cost               decimal.Decimal `json:"cost"`
	SalvageValue       decimal.Decimal `json:"salvage_value"`
	UsefulLife         int             `json:"useful_life"`
	DepreciationMethod string          `json:"depreciation_method"`
	PurchaseDate       string          `json:"purchase_date"`
}
