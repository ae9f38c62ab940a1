package service

import (
	"github.com/shopspring/decimal"

	"pembukuan-web/internal/models"
)

// Well-known account codes the composer and statement generator post
// against. The leading digit of a code identifies its class: 1 asset,
// 2 liability, 3 equity, 4 revenue, 5/6 expense.
const (
	CodeCash             = "1-1000" // Kas
	CodeInventory        = "1-1200" // Persediaan
	CodeSupplies         = "1-1300" // Perlengkapan
	CodeReceivable       = "1-1400" // Piutang Usaha
	CodeEquipment        = "1-2200" // Peralatan
	CodeAccumulatedDep   = "1-2210" // Akumulasi Penyusutan Peralatan
	CodeCapital          = "3-1000" // Modal
	CodeDrawing          = "3-2000" // Prive
	CodeIncomeSummary    = "3-3000" // Ikhtisar Laba Rugi
	CodeSalesRevenue     = "4-1000" // Penjualan
	CodeOtherIncome      = "4-1201" // Pendapatan Lain-lain
	CodeCOGS             = "5-1000" // Harga Pokok Penjualan
	CodeSalaryExpense    = "6-1000" // Beban Gaji
	CodeUtilitiesExpense = "6-1100" // Beban Listrik dan Air
	CodeDepExpense       = "6-1300" // Beban Penyusutan Peralatan
	CodeSuppliesExpense  = "6-1400" // Beban Perlengkapan
	CodeRentExpense      = "6-1500" // Beban Sewa
	CodeMiscExpense      = "6-1501" // Beban Lain-lain
)

type chartEntry struct {
	code          string
	name          string
	accountType   string
	normalBalance string
}

var defaultChart = []chartEntry{
	{CodeCash, "Kas", models.TypeAsset, models.NormalDebit},
	{CodeInventory, "Persediaan", models.TypeAsset, models.NormalDebit},
	{CodeSupplies, "Perlengkapan", models.TypeAsset, models.NormalDebit},
	{CodeReceivable, "Piutang Usaha", models.TypeAsset, models.NormalDebit},
	{CodeEquipment, "Peralatan", models.TypeAsset, models.NormalDebit},
	{CodeAccumulatedDep, "Akumulasi Penyusutan Peralatan", models.TypeAsset, models.NormalCredit},
	{"2-1000", "Utang Usaha", models.TypeLiability, models.NormalCredit},
	{"2-2000", "Utang Bank", models.TypeLiability, models.NormalCredit},
	{CodeCapital, "Modal", models.TypeEquity, models.NormalCredit},
	{CodeDrawing, "Prive", models.TypeEquity, models.NormalDebit},
	{CodeIncomeSummary, "Ikhtisar Laba Rugi", models.TypeEquity, models.NormalCredit},
	{CodeSalesRevenue, "Penjualan", models.TypeRevenue, models.NormalCredit},
	{CodeOtherIncome, "Pendapatan Lain-lain", models.TypeRevenue, models.NormalCredit},
	{CodeCOGS, "Harga Pokok Penjualan", models.TypeExpense, models.NormalDebit},
	{CodeSalaryExpense, "Beban Gaji", models.TypeExpense, models.NormalDebit},
	{CodeUtilitiesExpense, "Beban Listrik dan Air", models.TypeExpense, models.NormalDebit},
	{CodeDepExpense, "Beban Penyusutan Peralatan", models.TypeExpense, models.NormalDebit},
	{CodeSuppliesExpense, "Beban Perlengkapan", models.TypeExpense, models.NormalDebit},
	{CodeRentExpense, "Beban Sewa", models.TypeExpense, models.NormalDebit},
	{CodeMiscExpense, "Beban Lain-lain", models.TypeExpense, models.NormalDebit},
}

// DefaultChartOfAccounts returns the chart seeded on an empty registry.
// Beginning balances start at zero.
func DefaultChartOfAccounts() []models.Account {
	accounts := make([]models.Account, 0, len(defaultChart))
	for _, e := range defaultChart {
		accounts = append(accounts, models.Account{
			AccountCode:      e.code,
			AccountName:      e.name,
			AccountType:      e.accountType,
			NormalBalance:    e.normalBalance,
			BeginningBalance: decimal.Zero,
		})
	}
	return accounts
}
