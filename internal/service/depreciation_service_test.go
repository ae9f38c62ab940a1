package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pembukuan-web/internal/models"
)

func newTestAsset(t *testing.T, env *testEnv, method string) *models.Asset {
	t.Helper()
	asset, err := env.depreciation.CreateAsset(context.Background(), models.AssetRequest{
		AssetName:          "Mesin Aerator",
		AssetCode:          "EQ-01",
		Cost:               dec("10000000"),
		SalvageValue:       dec("1000000"),
		UsefulLife:         5,
		DepreciationMethod: method,
		PurchaseDate:       "2025-01-01",
	})
	require.NoError(t, err)
	return asset
}

func TestCreateAssetValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.depreciation.CreateAsset(ctx, models.AssetRequest{
		AssetName:          "Mesin",
		Cost:               dec("1000"),
		SalvageValue:       dec("1000"),
		UsefulLife:         5,
		DepreciationMethod: models.MethodStraightLine,
		PurchaseDate:       "2025-01-01",
	})
	assert.True(t, IsValidation(err), "salvage equal to cost must be rejected")

	_, err = env.depreciation.CreateAsset(ctx, models.AssetRequest{
		AssetName:          "Mesin",
		Cost:               dec("1000"),
		UsefulLife:         0,
		DepreciationMethod: models.MethodStraightLine,
		PurchaseDate:       "2025-01-01",
	})
	assert.True(t, IsValidation(err))

	_, err = env.depreciation.CreateAsset(ctx, models.AssetRequest{
		AssetName:          "Mesin",
		Cost:               dec("1000"),
		UsefulLife:         5,
		DepreciationMethod: "units_of_production",
		PurchaseDate:       "2025-01-01",
	})
	assert.True(t, IsValidation(err))
}

func TestStraightLine(t *testing.T) {
	env := newTestEnv()
	asset := newTestAsset(t, env, models.MethodStraightLine)

	annual, err := env.depreciation.Compute(asset, 1, models.PeriodAnnual)
	require.NoError(t, err)
	assert.True(t, annual.Equal(dec("1800000")), "got %s", annual)

	monthly, err := env.depreciation.Compute(asset, 7, models.PeriodMonthly)
	require.NoError(t, err)
	assert.True(t, monthly.Equal(dec("150000")), "got %s", monthly)

	// Beyond the useful life nothing depreciates.
	past, err := env.depreciation.Compute(asset, 6, models.PeriodAnnual)
	require.NoError(t, err)
	assert.True(t, past.IsZero())
}

func TestDecliningBalance(t *testing.T) {
	env := newTestEnv()
	asset := newTestAsset(t, env, models.MethodDecliningBalance)

	first, err := env.depreciation.Compute(asset, 1, models.PeriodAnnual)
	require.NoError(t, err)
	assert.True(t, first.Equal(dec("4000000")), "got %s", first)

	second, err := env.depreciation.Compute(asset, 2, models.PeriodAnnual)
	require.NoError(t, err)
	assert.True(t, second.Equal(dec("2400000")), "got %s", second)

	// The final year is clamped so book value stops at salvage.
	fifth, err := env.depreciation.Compute(asset, 5, models.PeriodAnnual)
	require.NoError(t, err)
	assert.True(t, fifth.Equal(dec("296000")), "got %s", fifth)
}

func TestSumOfYears(t *testing.T) {
	env := newTestEnv()
	asset := newTestAsset(t, env, models.MethodSumOfYears)

	first, err := env.depreciation.Compute(asset, 1, models.PeriodAnnual)
	require.NoError(t, err)
	assert.True(t, first.Equal(dec("3000000")), "got %s", first)

	second, err := env.depreciation.Compute(asset, 2, models.PeriodAnnual)
	require.NoError(t, err)
	assert.True(t, second.Equal(dec("2400000")), "got %s", second)

	// Month 13 falls in year two.
	month13, err := env.depreciation.Compute(asset, 13, models.PeriodMonthly)
	require.NoError(t, err)
	assert.True(t, month13.Equal(dec("200000")), "got %s", month13)
}

func TestDepreciationRefCode(t *testing.T) {
	assert.Equal(t, "DEP7-202512", DepreciationRefCode(7, date("2025-12-31")))
}

func TestPostDepreciation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	asset := newTestAsset(t, env, models.MethodStraightLine)

	updated, err := env.depreciation.Post(ctx, asset.ID, dec("1800000"), date("2025-12-31"))
	require.NoError(t, err)
	assert.True(t, updated.AccumulatedDepreciation.Equal(dec("1800000")))
	assert.True(t, updated.BookValue.Equal(dec("8200000")))
	assert.False(t, updated.FullyDepreciated())

	ref := DepreciationRefCode(asset.ID, date("2025-12-31"))
	entries, err := env.ledger.Query(ctx, JournalFilter{RefCode: ref})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.JournalAdjusting, entries[0].JournalType)
	assert.Equal(t, CodeDepExpense, entries[0].AccountCode)
	assert.True(t, entries[0].Debit.Equal(dec("1800000")))
	assert.Equal(t, CodeAccumulatedDep, entries[1].AccountCode)
	assert.True(t, entries[1].Credit.Equal(dec("1800000")))
}

func TestPostDepreciationClampsAtSalvage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	asset := newTestAsset(t, env, models.MethodStraightLine)

	// Posting more than the remaining depreciable base stops at salvage.
	updated, err := env.depreciation.Post(ctx, asset.ID, dec("20000000"), date("2025-12-31"))
	require.NoError(t, err)
	assert.True(t, updated.BookValue.Equal(dec("1000000")))
	assert.True(t, updated.FullyDepreciated())

	// The fully depreciated state is terminal.
	_, err = env.depreciation.Post(ctx, asset.ID, dec("1"), date("2026-12-31"))
	assert.True(t, IsValidation(err))
}

func TestComputeAndPostBeyondLife(t *testing.T) {
	env := newTestEnv()
	asset := newTestAsset(t, env, models.MethodStraightLine)

	_, _, err := env.depreciation.ComputeAndPost(context.Background(), asset.ID, 6, models.PeriodAnnual, date("2031-12-31"))
	assert.True(t, IsValidation(err))
}

func TestDeleteAssetRemovesEntries(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	asset := newTestAsset(t, env, models.MethodStraightLine)

	_, err := env.depreciation.Post(ctx, asset.ID, dec("1800000"), date("2025-12-31"))
	require.NoError(t, err)
	_, err = env.depreciation.Post(ctx, asset.ID, dec("1800000"), date("2026-12-31"))
	require.NoError(t, err)

	deleted, err := env.depreciation.DeleteAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)

	_, err = env.depreciation.Get(ctx, asset.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := env.ledger.Query(ctx, JournalFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
