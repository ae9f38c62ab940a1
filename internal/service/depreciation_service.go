package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pembukuan-web/internal/models"
)

// AssetStore is the persistence surface for fixed assets.
type AssetStore interface {
	Insert(ctx context.Context, asset *models.Asset) error
	FindByID(ctx context.Context, id int) (*models.Asset, error)
	FindAll(ctx context.Context) ([]models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, id int) error
}

// DepreciationPoster writes a depreciation run's journal rows and the
// updated asset in one transaction.
type DepreciationPoster interface {
	PostDepreciation(ctx context.Context, entries []models.JournalEntry, asset *models.Asset) error
}

// DepreciationService computes and posts period depreciation for fixed
// assets. An asset moves from active to fully depreciated when its book
// value reaches salvage; the fully depreciated state is terminal.
type DepreciationService struct {
	assets AssetStore
	ledger *LedgerService
	poster DepreciationPoster
	log    *logrus.Logger
}

func NewDepreciationService(assets AssetStore, ledger *LedgerService, poster DepreciationPoster, log *logrus.Logger) *DepreciationService {
	return &DepreciationService{assets: assets, ledger: ledger, poster: poster, log: log}
}

var twelve = decimal.NewFromInt(12)

// CreateAsset registers a depreciable asset. Book value starts at cost.
func (s *DepreciationService) CreateAsset(ctx context.Context, req models.AssetRequest) (*models.Asset, error) {
	if req.AssetName == "" {
		return nil, validationErr("asset_name", "asset name is required")
	}
	if !req.Cost.IsPositive() {
		return nil, validationErr("cost", "cost must be positive")
	}
	if req.SalvageValue.IsNegative() || req.SalvageValue.GreaterThanOrEqual(req.Cost) {
		return nil, validationErr("salvage_value", "salvage value must be non-negative and below cost")
	}
	if req.UsefulLife < 1 {
		return nil, validationErr("useful_life", "useful life must be at least one year")
	}
	switch req.DepreciationMethod {
	case models.MethodStraightLine, models.MethodDecliningBalance, models.MethodSumOfYears:
	default:
		return nil, validationErr("depreciation_method", "unknown method %q", req.DepreciationMethod)
	}
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return nil, validationErr("purchase_date", "invalid date %q", req.PurchaseDate)
	}

	asset := &models.Asset{
		AssetName:               req.AssetName,
		AssetCode:               req.AssetCode,
		Cost:                    req.Cost,
		SalvageValue:            req.SalvageValue,
		UsefulLife:              req.UsefulLife,
		DepreciationMethod:      req.DepreciationMethod,
		PurchaseDate:            purchaseDate,
		AccumulatedDepreciation: decimal.Zero,
		BookValue:               req.Cost,
	}
	if err := s.assets.Insert(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// List returns all assets.
func (s *DepreciationService) List(ctx context.Context) ([]models.Asset, error) {
	return s.assets.FindAll(ctx)
}

// Get returns one asset by id.
func (s *DepreciationService) Get(ctx context.Context, id int) (*models.Asset, error) {
	return s.assets.FindByID(ctx, id)
}

// Compute returns the depreciation amount for the given period number
// (1-based) under the asset's method. Monthly periods count months,
// annual periods count years.
func (s *DepreciationService) Compute(asset *models.Asset, period int, periodType string) (decimal.Decimal, error) {
	if period < 1 {
		return decimal.Zero, validationErr("period", "period must be at least 1")
	}
	if periodType != models.PeriodAnnual && periodType != models.PeriodMonthly {
		return decimal.Zero, validationErr("period_type", "period type must be annual or monthly, got %q", periodType)
	}

	switch asset.DepreciationMethod {
	case models.MethodStraightLine:
		return straightLine(asset, period, periodType), nil
	case models.MethodDecliningBalance:
		return decliningBalance(asset, period, periodType), nil
	case models.MethodSumOfYears:
		return sumOfYears(asset, period, periodType), nil
	default:
		return decimal.Zero, validationErr("depreciation_method", "unknown method %q", asset.DepreciationMethod)
	}
}

// straightLine spreads cost minus salvage evenly over the useful life.
func straightLine(asset *models.Asset, period int, periodType string) decimal.Decimal {
	life := decimal.NewFromInt(int64(asset.UsefulLife))
	annual := asset.Cost.Sub(asset.SalvageValue).Div(life)
	if periodType == models.PeriodMonthly {
		if period > asset.UsefulLife*12 {
			return decimal.Zero
		}
		return annual.Div(twelve)
	}
	if period > asset.UsefulLife {
		return decimal.Zero
	}
	return annual
}

// decliningBalance applies double the straight-line rate to a running
// book value. The n-th period amount depends on every earlier one, so
// periods 1..n are replayed each call; useful lives are small enough that
// the recomputation stays cheap.
func decliningBalance(asset *models.Asset, period int, periodType string) decimal.Decimal {
	rate := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(asset.UsefulLife)))
	if periodType == models.PeriodMonthly {
		rate = rate.Div(twelve)
	}

	book := asset.Cost
	amount := decimal.Zero
	for n := 1; n <= period; n++ {
		amount = book.Mul(rate)
		if book.Sub(amount).LessThan(asset.SalvageValue) {
			amount = book.Sub(asset.SalvageValue)
		}
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		book = book.Sub(amount)
	}
	return amount
}

// sumOfYears weights each year by its remaining life over the sum of the
// year digits. Monthly amounts divide the covering year's figure by 12.
func sumOfYears(asset *models.Asset, period int, periodType string) decimal.Decimal {
	year := period
	if periodType == models.PeriodMonthly {
		year = (period-1)/12 + 1
	}
	if year > asset.UsefulLife {
		return decimal.Zero
	}

	life := asset.UsefulLife
	sumDigits := decimal.NewFromInt(int64(life * (life + 1) / 2))
	remaining := decimal.NewFromInt(int64(life - year + 1))
	annual := remaining.Mul(asset.Cost.Sub(asset.SalvageValue)).Div(sumDigits)
	if periodType == models.PeriodMonthly {
		return annual.Div(twelve)
	}
	return annual
}

// DepreciationRefCode returns the ref code grouping an asset's posted
// depreciation for one period: DEP{asset_id}-{yyyymm}.
func DepreciationRefCode(assetID int, periodDate time.Time) string {
	return fmt.Sprintf("DEP%d-%s", assetID, periodDate.Format("200601"))
}

// Post records the depreciation amount as an adjusting entry — debit
// depreciation expense, credit accumulated depreciation — and moves the
// asset's accumulated depreciation and book value, all in one
// transaction. The amount is clamped so book value never drops below
// salvage.
func (s *DepreciationService) Post(ctx context.Context, assetID int, amount decimal.Decimal, periodDate time.Time) (*models.Asset, error) {
	asset, err := s.assets.FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.FullyDepreciated() {
		return nil, validationErr("asset", "asset %d is fully depreciated", assetID)
	}
	if !amount.IsPositive() {
		return nil, validationErr("amount", "depreciation amount must be positive")
	}

	remaining := asset.BookValue.Sub(asset.SalvageValue)
	if amount.GreaterThan(remaining) {
		amount = remaining
	}

	expense, err := s.ledger.accounts.FindByCode(ctx, CodeDepExpense)
	if err != nil {
		return nil, validationErr("account_code", "account %s is not registered", CodeDepExpense)
	}
	accum, err := s.ledger.accounts.FindByCode(ctx, CodeAccumulatedDep)
	if err != nil {
		return nil, validationErr("account_code", "account %s is not registered", CodeAccumulatedDep)
	}

	ref := DepreciationRefCode(asset.ID, periodDate)
	desc := fmt.Sprintf("Penyusutan %s", asset.AssetName)
	entries := []models.JournalEntry{
		{Date: periodDate, AccountCode: expense.AccountCode, AccountName: expense.AccountName, Description: desc, Debit: amount, JournalType: models.JournalAdjusting, RefCode: ref},
		{Date: periodDate, AccountCode: accum.AccountCode, AccountName: accum.AccountName, Description: desc, Credit: amount, JournalType: models.JournalAdjusting, RefCode: ref},
	}

	asset.AccumulatedDepreciation = asset.AccumulatedDepreciation.Add(amount)
	asset.BookValue = asset.Cost.Sub(asset.AccumulatedDepreciation)

	if err := s.poster.PostDepreciation(ctx, entries, asset); err != nil {
		return nil, err
	}
	s.ledger.invalidateBalance(ctx, CodeDepExpense)
	s.ledger.invalidateBalance(ctx, CodeAccumulatedDep)

	s.log.WithFields(logrus.Fields{
		"asset_id": asset.ID,
		"ref_code": ref,
		"amount":   amount.StringFixed(2),
	}).Info("depreciation posted")
	return asset, nil
}

// ComputeAndPost computes the period amount under the asset's method and
// posts it. A zero computed amount (past useful life or fully
// depreciated) is a validation error rather than an empty posting.
func (s *DepreciationService) ComputeAndPost(ctx context.Context, assetID, period int, periodType string, periodDate time.Time) (*models.Asset, decimal.Decimal, error) {
	asset, err := s.assets.FindByID(ctx, assetID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	amount, err := s.Compute(asset, period, periodType)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if !amount.IsPositive() {
		return nil, decimal.Zero, validationErr("period", "no depreciation due for period %d", period)
	}
	updated, err := s.Post(ctx, assetID, amount, periodDate)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return updated, amount, nil
}

// DeleteAsset removes the asset together with every depreciation entry
// posted for it (matched by the DEP{id}- ref code prefix).
func (s *DepreciationService) DeleteAsset(ctx context.Context, id int) (int, error) {
	if _, err := s.assets.FindByID(ctx, id); err != nil {
		return 0, err
	}
	deleted, err := s.ledger.journal.DeleteByRefPrefix(ctx, fmt.Sprintf("DEP%d-", id))
	if err != nil {
		return 0, err
	}
	if err := s.assets.Delete(ctx, id); err != nil {
		return deleted, err
	}
	s.ledger.invalidateBalance(ctx, CodeDepExpense)
	s.ledger.invalidateBalance(ctx, CodeAccumulatedDep)
	return deleted, nil
}
