package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pembukuan-web/internal/models"
)

func TestPostRejectsBothSides(t *testing.T) {
	env := newTestEnv()

	err := env.ledger.Post(context.Background(), &models.JournalEntry{
		Date:        date("2025-01-10"),
		AccountCode: CodeCash,
		Debit:       dec("1000"),
		Credit:      dec("1000"),
		JournalType: models.JournalGeneral,
	})
	assert.True(t, IsValidation(err))

	err = env.ledger.Post(context.Background(), &models.JournalEntry{
		Date:        date("2025-01-10"),
		AccountCode: CodeCash,
		JournalType: models.JournalGeneral,
	})
	assert.True(t, IsValidation(err))
}

func TestPostRejectsUnknownAccount(t *testing.T) {
	env := newTestEnv()

	err := env.ledger.Post(context.Background(), &models.JournalEntry{
		Date:        date("2025-01-10"),
		AccountCode: "1-9999",
		Debit:       dec("1000"),
		JournalType: models.JournalGeneral,
	})
	assert.True(t, IsValidation(err))

	entries, qerr := env.ledger.Query(context.Background(), JournalFilter{})
	require.NoError(t, qerr)
	assert.Empty(t, entries)
}

func TestPostFillsAccountNameSnapshot(t *testing.T) {
	env := newTestEnv()

	entry := &models.JournalEntry{
		Date:        date("2025-01-10"),
		AccountCode: CodeCash,
		Debit:       dec("1000"),
		JournalType: models.JournalGeneral,
	}
	require.NoError(t, env.ledger.Post(context.Background(), entry))
	assert.Equal(t, "Kas", entry.AccountName)
}

func TestPostGroupRequiresBalance(t *testing.T) {
	env := newTestEnv()

	err := env.ledger.PostGroup(context.Background(), []models.JournalEntry{
		{Date: date("2025-01-10"), AccountCode: CodeCash, Debit: dec("1000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
		{Date: date("2025-01-10"), AccountCode: CodeSalesRevenue, Credit: dec("900"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
	})
	assert.True(t, IsValidation(err))

	entries, qerr := env.ledger.Query(context.Background(), JournalFilter{})
	require.NoError(t, qerr)
	assert.Empty(t, entries)
}

func TestPostGroupToleratesRoundingSlack(t *testing.T) {
	env := newTestEnv()

	err := env.ledger.PostGroup(context.Background(), []models.JournalEntry{
		{Date: date("2025-01-10"), AccountCode: CodeCash, Debit: dec("1000.00"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
		{Date: date("2025-01-10"), AccountCode: CodeSalesRevenue, Credit: dec("999.99"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
	})
	assert.NoError(t, err)
}

func TestPostGroupRequiresSharedRef(t *testing.T) {
	env := newTestEnv()

	err := env.ledger.PostGroup(context.Background(), []models.JournalEntry{
		{Date: date("2025-01-10"), AccountCode: CodeCash, Debit: dec("1000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
		{Date: date("2025-01-10"), AccountCode: CodeSalesRevenue, Credit: dec("1000"), JournalType: models.JournalGeneral, RefCode: "MN-2"},
	})
	assert.True(t, IsValidation(err))
}

func TestBalanceFoldsByNormalSide(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.ledger.PostGroup(ctx, []models.JournalEntry{
		{Date: date("2025-01-10"), AccountCode: CodeCash, Debit: dec("500000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
		{Date: date("2025-01-10"), AccountCode: CodeSalesRevenue, Credit: dec("500000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
	}))
	require.NoError(t, env.ledger.PostGroup(ctx, []models.JournalEntry{
		{Date: date("2025-01-15"), AccountCode: CodeRentExpense, Debit: dec("200000"), JournalType: models.JournalGeneral, RefCode: "MN-2"},
		{Date: date("2025-01-15"), AccountCode: CodeCash, Credit: dec("200000"), JournalType: models.JournalGeneral, RefCode: "MN-2"},
	}))

	cash, err := env.ledger.Balance(ctx, CodeCash, nil)
	require.NoError(t, err)
	assert.True(t, cash.Equal(dec("300000")), "got %s", cash)

	revenue, err := env.ledger.Balance(ctx, CodeSalesRevenue, nil)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(dec("500000")))

	// As-of cuts off entries dated after the boundary.
	asOf := date("2025-01-12")
	cashAt, err := env.ledger.Balance(ctx, CodeCash, &asOf)
	require.NoError(t, err)
	assert.True(t, cashAt.Equal(dec("500000")), "got %s", cashAt)
}

func TestBalanceIncludesBeginningBalance(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	begin := dec("1000000")
	_, err := env.account.Update(ctx, CodeCash, models.AccountUpdateRequest{BeginningBalance: &begin})
	require.NoError(t, err)

	balance, err := env.ledger.Balance(ctx, CodeCash, nil)
	require.NoError(t, err)
	assert.True(t, balance.Equal(begin))
}

func TestUpdateEntryRevalidates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	entry := &models.JournalEntry{
		Date:        date("2025-01-10"),
		AccountCode: CodeCash,
		Debit:       dec("1000"),
		JournalType: models.JournalGeneral,
		RefCode:     "MN-1",
	}
	require.NoError(t, env.ledger.Post(ctx, entry))

	updated, err := env.ledger.UpdateEntry(ctx, entry.ID, models.JournalEntryRequest{
		AccountCode: CodeSupplies,
		Debit:       dec("2500"),
	})
	require.NoError(t, err)
	assert.Equal(t, CodeSupplies, updated.AccountCode)
	assert.Equal(t, "Perlengkapan", updated.AccountName)
	assert.True(t, updated.Debit.Equal(dec("2500")))

	_, err = env.ledger.UpdateEntry(ctx, entry.ID, models.JournalEntryRequest{
		Debit:  dec("10"),
		Credit: dec("10"),
	})
	assert.True(t, IsValidation(err))
}

func TestUpdateEntryKeepsAmountsWhenAbsent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	entry := &models.JournalEntry{
		Date:        date("2025-01-10"),
		AccountCode: CodeCash,
		Description: "Penjualan tunai",
		Debit:       dec("1000"),
		JournalType: models.JournalGeneral,
		RefCode:     "MN-1",
	}
	require.NoError(t, env.ledger.Post(ctx, entry))

	// An edit touching only the description leaves the amounts alone.
	updated, err := env.ledger.UpdateEntry(ctx, entry.ID, models.JournalEntryRequest{
		Description: "Penjualan tunai pagi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Penjualan tunai pagi", updated.Description)
	assert.True(t, updated.Debit.Equal(dec("1000")), "got %s", updated.Debit)
	assert.True(t, updated.Credit.IsZero())
}

func TestBalanceIgnoresSameDateOrder(t *testing.T) {
	ctx := context.Background()
	rows := []models.JournalEntry{
		{Date: date("2025-01-10"), AccountCode: CodeCash, Debit: dec("500000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
		{Date: date("2025-01-10"), AccountCode: CodeCash, Credit: dec("200000"), JournalType: models.JournalGeneral, RefCode: "MN-2"},
		{Date: date("2025-01-10"), AccountCode: CodeCash, Debit: dec("75000"), JournalType: models.JournalGeneral, RefCode: "MN-3"},
	}

	forward := newTestEnv()
	for i := range rows {
		row := rows[i]
		require.NoError(t, forward.ledger.Post(ctx, &row))
	}

	reversed := newTestEnv()
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		require.NoError(t, reversed.ledger.Post(ctx, &row))
	}

	a, err := forward.ledger.Balance(ctx, CodeCash, nil)
	require.NoError(t, err)
	b, err := reversed.ledger.Balance(ctx, CodeCash, nil)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "forward %s, reversed %s", a, b)
	assert.True(t, a.Equal(dec("375000")))
}

func TestDeleteGroupRemovesAllRows(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.ledger.PostGroup(ctx, []models.JournalEntry{
		{Date: date("2025-01-10"), AccountCode: CodeCash, Debit: dec("1000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
		{Date: date("2025-01-10"), AccountCode: CodeSalesRevenue, Credit: dec("1000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
	}))

	deleted, err := env.ledger.DeleteGroup(ctx, "MN-1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	entries, err := env.ledger.Query(ctx, JournalFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQueryFilters(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.ledger.PostGroup(ctx, []models.JournalEntry{
		{Date: date("2025-01-10"), AccountCode: CodeCash, Debit: dec("1000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
		{Date: date("2025-01-10"), AccountCode: CodeSalesRevenue, Credit: dec("1000"), JournalType: models.JournalGeneral, RefCode: "MN-1"},
	}))
	require.NoError(t, env.ledger.PostGroup(ctx, []models.JournalEntry{
		{Date: date("2025-01-31"), AccountCode: CodeDepExpense, Debit: dec("150000"), JournalType: models.JournalAdjusting, RefCode: "DEP1-202501"},
		{Date: date("2025-01-31"), AccountCode: CodeAccumulatedDep, Credit: dec("150000"), JournalType: models.JournalAdjusting, RefCode: "DEP1-202501"},
	}))

	adjusting, err := env.ledger.Query(ctx, JournalFilter{JournalType: models.JournalAdjusting})
	require.NoError(t, err)
	assert.Len(t, adjusting, 2)

	cash, err := env.ledger.Query(ctx, JournalFilter{AccountCode: CodeCash})
	require.NoError(t, err)
	assert.Len(t, cash, 1)

	_, err = env.ledger.Query(ctx, JournalFilter{JournalType: "XX"})
	assert.True(t, IsValidation(err))
}
