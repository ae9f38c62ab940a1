package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pembukuan-web/internal/models"
)

func TestRecordCashSaleWithFallbackCost(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sale, err := env.composer.RecordCashSale(ctx, date("2025-01-10"), []models.SaleItemRequest{
		{Name: testProduct, Quantity: dec("10"), Price: dec("30000")},
	}, "budi")
	require.NoError(t, err)

	// Daily sequence, day-month date part.
	assert.Equal(t, "GB1001001", sale.TransactionCode)
	assert.Equal(t, "budi", sale.CashierUsername)
	assert.True(t, sale.TotalAmount.Equal(dec("300000")))

	entries, err := env.ledger.Query(ctx, JournalFilter{RefCode: sale.TransactionCode})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byAccount := map[string]models.JournalEntry{}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, e := range entries {
		byAccount[e.AccountCode] = e
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}
	assert.True(t, totalDebit.Equal(totalCredit))
	assert.True(t, byAccount[CodeCash].Debit.Equal(dec("300000")))
	assert.True(t, byAccount[CodeSalesRevenue].Credit.Equal(dec("300000")))
	// No cost history: cost of goods estimated at 70% of the sale price.
	assert.True(t, byAccount[CodeCOGS].Debit.Equal(dec("210000")))
	assert.True(t, byAccount[CodeInventory].Credit.Equal(dec("210000")))

	card, err := env.inventorySvc.Card(ctx, testProduct)
	require.NoError(t, err)
	require.Len(t, card, 1)
	assert.True(t, card[0].SalesQuantity.Equal(dec("10")))
	assert.True(t, card[0].SalesUnitPrice.Equal(dec("21000")))
}

func TestRecordCashSaleUsesMovingAverageCost(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.composer.RecordPurchase(ctx, models.PurchaseRequest{
		Date:      "2025-01-05",
		Kind:      models.PurchaseSeedStock,
		Quantity:  dec("100"),
		UnitPrice: dec("20000"),
	}, testProduct, "ani")
	require.NoError(t, err)

	sale, err := env.composer.RecordCashSale(ctx, date("2025-01-10"), []models.SaleItemRequest{
		{Name: testProduct, Quantity: dec("10"), Price: dec("30000")},
	}, "budi")
	require.NoError(t, err)

	entries, err := env.ledger.Query(ctx, JournalFilter{RefCode: sale.TransactionCode, AccountCode: CodeCOGS})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Debit.Equal(dec("200000")), "got %s", entries[0].Debit)

	card, err := env.inventorySvc.Card(ctx, testProduct)
	require.NoError(t, err)
	require.Len(t, card, 2)
	assert.True(t, card[1].BalanceQuantity.Equal(dec("90")))
	assert.True(t, card[1].BalanceAmount.Equal(dec("1800000")))
}

func TestRecordCashSaleRepeatedProduct(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.composer.RecordPurchase(ctx, models.PurchaseRequest{
		Date:      "2025-01-05",
		Kind:      models.PurchaseSeedStock,
		Quantity:  dec("20"),
		UnitPrice: dec("20000"),
	}, testProduct, "ani")
	require.NoError(t, err)

	// Two lines of the same product in one ticket deduct cumulatively.
	sale, err := env.composer.RecordCashSale(ctx, date("2025-01-10"), []models.SaleItemRequest{
		{Name: testProduct, Quantity: dec("5"), Price: dec("30000")},
		{Name: testProduct, Quantity: dec("5"), Price: dec("30000")},
	}, "budi")
	require.NoError(t, err)

	card, err := env.inventorySvc.Card(ctx, testProduct)
	require.NoError(t, err)
	require.Len(t, card, 3)
	assert.True(t, card[1].BalanceQuantity.Equal(dec("15")), "got %s", card[1].BalanceQuantity)
	assert.True(t, card[1].BalanceAmount.Equal(dec("300000")))
	assert.True(t, card[2].BalanceQuantity.Equal(dec("10")), "got %s", card[2].BalanceQuantity)
	assert.True(t, card[2].BalanceAmount.Equal(dec("200000")))

	entries, err := env.ledger.Query(ctx, JournalFilter{RefCode: sale.TransactionCode, AccountCode: CodeCOGS})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Debit.Equal(dec("200000")))
}

func TestRecordCashSaleSequencePerDay(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	items := []models.SaleItemRequest{{Name: testProduct, Quantity: dec("1"), Price: dec("30000")}}

	first, err := env.composer.RecordCashSale(ctx, date("2025-01-10"), items, "budi")
	require.NoError(t, err)
	second, err := env.composer.RecordCashSale(ctx, date("2025-01-10"), items, "budi")
	require.NoError(t, err)
	nextDay, err := env.composer.RecordCashSale(ctx, date("2025-01-11"), items, "budi")
	require.NoError(t, err)

	assert.Equal(t, "GB1001001", first.TransactionCode)
	assert.Equal(t, "GB1001002", second.TransactionCode)
	assert.Equal(t, "GB1101001", nextDay.TransactionCode)
}

func TestRecordCashSaleValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.composer.RecordCashSale(ctx, date("2025-01-10"), nil, "budi")
	assert.True(t, IsValidation(err))

	_, err = env.composer.RecordCashSale(ctx, date("2025-01-10"), []models.SaleItemRequest{
		{Name: testProduct, Quantity: dec("-1"), Price: dec("30000")},
	}, "budi")
	assert.True(t, IsValidation(err))

	_, err = env.composer.RecordCashSale(ctx, date("2025-01-10"), []models.SaleItemRequest{
		{Name: testProduct, Quantity: dec("1"), Price: dec("30000")},
	}, "")
	assert.True(t, IsValidation(err))
}

func TestRecordPurchaseSeedStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	entries, err := env.composer.RecordPurchase(ctx, models.PurchaseRequest{
		Date:      "2025-01-05",
		Kind:      models.PurchaseSeedStock,
		Quantity:  dec("100"),
		UnitPrice: dec("20000"),
	}, testProduct, "ani")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, CodeInventory, entries[0].AccountCode)
	assert.True(t, entries[0].Debit.Equal(dec("2000000")))
	assert.Equal(t, CodeCash, entries[1].AccountCode)
	assert.True(t, entries[1].Credit.Equal(dec("2000000")))
	assert.Equal(t, "Pembelian bibit ikan", entries[0].Description)

	card, err := env.inventorySvc.Card(ctx, testProduct)
	require.NoError(t, err)
	require.Len(t, card, 1)
	assert.True(t, card[0].PurchaseQuantity.Equal(dec("100")))
	assert.Equal(t, "ani", card[0].Employee)
}

func TestRecordPurchaseSuppliesSkipsCard(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	entries, err := env.composer.RecordPurchase(ctx, models.PurchaseRequest{
		Date:      "2025-01-05",
		Kind:      models.PurchaseSupplies,
		Quantity:  dec("10"),
		UnitPrice: dec("15000"),
	}, testProduct, "ani")
	require.NoError(t, err)
	assert.Equal(t, CodeSupplies, entries[0].AccountCode)

	card, err := env.inventorySvc.Card(ctx, testProduct)
	require.NoError(t, err)
	assert.Empty(t, card)
}

func TestRecordPurchaseUnknownKind(t *testing.T) {
	env := newTestEnv()

	_, err := env.composer.RecordPurchase(context.Background(), models.PurchaseRequest{
		Date:      "2025-01-05",
		Kind:      "livestock",
		Quantity:  dec("1"),
		UnitPrice: dec("1"),
	}, testProduct, "ani")
	assert.True(t, IsValidation(err))
}

func TestRecordManualEntry(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	entries, err := env.composer.RecordManualEntry(ctx, models.ManualEntryRequest{
		Date:         "2025-01-20",
		DebitCode:    CodeSalaryExpense,
		CreditCode:   CodeCash,
		Description:  "Gaji karyawan Januari",
		DebitAmount:  dec("1500000"),
		CreditAmount: dec("1500000"),
	}, "budi")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].RefCode, entries[1].RefCode)
	assert.Equal(t, models.JournalGeneral, entries[0].JournalType)
}

func TestRecordManualEntryUnbalanced(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.composer.RecordManualEntry(ctx, models.ManualEntryRequest{
		Date:         "2025-01-20",
		DebitCode:    CodeSalaryExpense,
		CreditCode:   CodeCash,
		DebitAmount:  dec("1500000"),
		CreditAmount: dec("1400000"),
	}, "budi")
	assert.True(t, IsValidation(err))

	entries, qerr := env.ledger.Query(ctx, JournalFilter{})
	require.NoError(t, qerr)
	assert.Empty(t, entries)
}

func TestDeleteSaleRestoresCard(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.composer.RecordPurchase(ctx, models.PurchaseRequest{
		Date:      "2025-01-05",
		Kind:      models.PurchaseSeedStock,
		Quantity:  dec("100"),
		UnitPrice: dec("20000"),
	}, testProduct, "ani")
	require.NoError(t, err)

	sale, err := env.composer.RecordCashSale(ctx, date("2025-01-10"), []models.SaleItemRequest{
		{Name: testProduct, Quantity: dec("10"), Price: dec("30000")},
	}, "budi")
	require.NoError(t, err)

	require.NoError(t, env.composer.DeleteSale(ctx, sale.TransactionCode))

	entries, err := env.ledger.Query(ctx, JournalFilter{RefCode: sale.TransactionCode})
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = env.composer.Sale(ctx, sale.TransactionCode)
	assert.ErrorIs(t, err, ErrNotFound)

	card, err := env.inventorySvc.Card(ctx, testProduct)
	require.NoError(t, err)
	require.Len(t, card, 1)
	assert.True(t, card[0].BalanceQuantity.Equal(dec("100")))
	assert.True(t, card[0].BalanceAmount.Equal(dec("2000000")))
}
