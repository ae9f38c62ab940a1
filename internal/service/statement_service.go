package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pembukuan-web/internal/models"
)

// StatementLine is one account's row on a two-column report.
type StatementLine struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account with a non-zero balance, split into
// debit and credit columns by its normal side.
type TrialBalance struct {
	Lines       []StatementLine `json:"lines"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balanced    bool            `json:"balanced"`
}

// WorksheetLine carries one account across the 10-column worksheet.
type WorksheetLine struct {
	AccountCode   string          `json:"account_code"`
	AccountName   string          `json:"account_name"`
	TrialDebit    decimal.Decimal `json:"trial_debit"`
	TrialCredit   decimal.Decimal `json:"trial_credit"`
	AdjustDebit   decimal.Decimal `json:"adjust_debit"`
	AdjustCredit  decimal.Decimal `json:"adjust_credit"`
	AdjustedDebit decimal.Decimal `json:"adjusted_debit"`
	AdjustedCredit decimal.Decimal `json:"adjusted_credit"`
	IncomeDebit   decimal.Decimal `json:"income_debit"`
	IncomeCredit  decimal.Decimal `json:"income_credit"`
	BalanceDebit  decimal.Decimal `json:"balance_debit"`
	BalanceCredit decimal.Decimal `json:"balance_credit"`
}

// Worksheet is the 10-column working paper. Net income is the balancing
// plug between the income-statement and balance-sheet column pairs.
type Worksheet struct {
	Lines     []WorksheetLine `json:"lines"`
	NetIncome decimal.Decimal `json:"net_income"`
}

// StatementAmount is one account's signed balance on a single-column report.
type StatementAmount struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatement nets revenue accounts against expense accounts at
// adjusted balances.
type IncomeStatement struct {
	Revenues     []StatementAmount `json:"revenues"`
	Expenses     []StatementAmount `json:"expenses"`
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
	TotalExpense decimal.Decimal   `json:"total_expense"`
	NetIncome    decimal.Decimal   `json:"net_income"`
}

// BalanceSheet opposes assets to liabilities plus equity. The income
// summary account is excluded from equity.
type BalanceSheet struct {
	Assets           []StatementAmount `json:"assets"`
	Liabilities      []StatementAmount `json:"liabilities"`
	Equity           []StatementAmount `json:"equity"`
	TotalAssets      decimal.Decimal   `json:"total_assets"`
	TotalLiabilities decimal.Decimal   `json:"total_liabilities"`
	TotalEquity      decimal.Decimal   `json:"total_equity"`
	Balanced         bool              `json:"balanced"`
}

// CashFlowBucket aggregates the cash entries classified into one
// activity.
type CashFlowBucket struct {
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowStatement classifies every journal entry touching the cash
// account into operating, investing and financing activities by keyword.
// This mirrors the shop's report, which never carried an explicit
// category tag on postings.
type CashFlowStatement struct {
	Operating     CashFlowBucket  `json:"operating"`
	Investing     CashFlowBucket  `json:"investing"`
	Financing     CashFlowBucket  `json:"financing"`
	NetChange     decimal.Decimal `json:"net_change"`
	BeginningCash decimal.Decimal `json:"beginning_cash"`
	EndingCash    decimal.Decimal `json:"ending_cash"`
}

// StatementService derives the financial statements from the registry and
// the journal. Each report loads the journal once and aggregates
// per-account balances in memory rather than re-scanning per account.
type StatementService struct {
	ledger   *LedgerService
	accounts AccountStore
	log      *logrus.Logger
}

func NewStatementService(ledger *LedgerService, accounts AccountStore, log *logrus.Logger) *StatementService {
	return &StatementService{ledger: ledger, accounts: accounts, log: log}
}

// balanceSet holds per-account signed balances (positive on the account's
// normal side) for one journal-type slice of the ledger.
type balanceSet map[string]decimal.Decimal

// loadBalances folds all entries up to asOf into per-account balances.
// keep selects which journal types contribute; beginning balances are
// included only when withBeginning is set, so adjustment-only sets stay
// pure deltas.
func (s *StatementService) loadBalances(ctx context.Context, asOf *time.Time, keep func(string) bool, withBeginning bool) ([]models.Account, balanceSet, error) {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.ledger.journal.Find(ctx, JournalFilter{EndDate: asOf})
	if err != nil {
		return nil, nil, err
	}

	byAccount := make(map[string][]models.JournalEntry)
	for _, e := range entries {
		if keep != nil && !keep(e.JournalType) {
			continue
		}
		byAccount[e.AccountCode] = append(byAccount[e.AccountCode], e)
	}

	balances := make(balanceSet, len(accounts))
	for _, acct := range accounts {
		start := decimal.Zero
		if withBeginning {
			start = acct.BeginningBalance
		}
		balances[acct.AccountCode] = applyEntries(start, acct.NormalBalance, byAccount[acct.AccountCode])
	}
	return accounts, balances, nil
}

// sideColumns splits a signed balance into the debit/credit columns per
// the account's normal side; a negative balance lands on the other side.
func sideColumns(normalBalance string, balance decimal.Decimal) (debit, credit decimal.Decimal) {
	abs := balance.Abs()
	onNormal := !balance.IsNegative()
	if (normalBalance == models.NormalDebit) == onNormal {
		return abs, decimal.Zero
	}
	return decimal.Zero, abs
}

func (s *StatementService) trialBalanceFrom(accounts []models.Account, balances balanceSet) *TrialBalance {
	tb := &TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, acct := range accounts {
		balance := balances[acct.AccountCode]
		if balance.IsZero() {
			continue
		}
		debit, credit := sideColumns(acct.NormalBalance, balance)
		tb.Lines = append(tb.Lines, StatementLine{
			AccountCode: acct.AccountCode,
			AccountName: acct.AccountName,
			Debit:       debit,
			Credit:      credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(debit)
		tb.TotalCredit = tb.TotalCredit.Add(credit)
	}
	tb.Balanced = tb.TotalDebit.Sub(tb.TotalCredit).Abs().LessThanOrEqual(balanceTolerance)
	return tb
}

// TrialBalance reports every non-zero account balance as of the date.
func (s *StatementService) TrialBalance(ctx context.Context, asOf *time.Time) (*TrialBalance, error) {
	accounts, balances, err := s.loadBalances(ctx, asOf, nil, true)
	if err != nil {
		return nil, err
	}
	return s.trialBalanceFrom(accounts, balances), nil
}

// AdjustedTrialBalance reports balances with adjusting entries applied on
// top of the pre-adjustment ledger.
func (s *StatementService) AdjustedTrialBalance(ctx context.Context, asOf *time.Time) (*TrialBalance, error) {
	accounts, balances, err := s.loadBalances(ctx, asOf, nil, true)
	if err != nil {
		return nil, err
	}
	// Pre-adjustment plus AJ deltas is the full balance; the split only
	// matters for the worksheet's middle columns.
	return s.trialBalanceFrom(accounts, balances), nil
}

func isIncomeStatementCode(code string) bool {
	return strings.HasPrefix(code, "4-") || strings.HasPrefix(code, "5-") || strings.HasPrefix(code, "6-")
}

// BuildWorksheet computes the 10-column worksheet: pre-adjustment
// balances, adjustments, adjusted balances, then routes 4-/5-/6- accounts
// into the income-statement columns and the rest into the balance-sheet
// columns.
func (s *StatementService) BuildWorksheet(ctx context.Context, asOf *time.Time) (*Worksheet, error) {
	notAdjusting := func(t string) bool { return t != models.JournalAdjusting }
	onlyAdjusting := func(t string) bool { return t == models.JournalAdjusting }

	accounts, pre, err := s.loadBalances(ctx, asOf, notAdjusting, true)
	if err != nil {
		return nil, err
	}
	_, adj, err := s.loadBalances(ctx, asOf, onlyAdjusting, false)
	if err != nil {
		return nil, err
	}

	ws := &Worksheet{}
	incomeDebit := decimal.Zero
	incomeCredit := decimal.Zero
	for _, acct := range accounts {
		preBal := pre[acct.AccountCode]
		adjBal := adj[acct.AccountCode]
		adjusted := preBal.Add(adjBal)
		if preBal.IsZero() && adjBal.IsZero() {
			continue
		}

		line := WorksheetLine{AccountCode: acct.AccountCode, AccountName: acct.AccountName}
		line.TrialDebit, line.TrialCredit = sideColumns(acct.NormalBalance, preBal)
		line.AdjustDebit, line.AdjustCredit = sideColumns(acct.NormalBalance, adjBal)
		line.AdjustedDebit, line.AdjustedCredit = sideColumns(acct.NormalBalance, adjusted)

		if isIncomeStatementCode(acct.AccountCode) {
			line.IncomeDebit, line.IncomeCredit = line.AdjustedDebit, line.AdjustedCredit
			incomeDebit = incomeDebit.Add(line.IncomeDebit)
			incomeCredit = incomeCredit.Add(line.IncomeCredit)
		} else {
			line.BalanceDebit, line.BalanceCredit = line.AdjustedDebit, line.AdjustedCredit
		}
		ws.Lines = append(ws.Lines, line)
	}

	// The plug that levels the income-statement columns is the period's
	// net income (credit surplus) or net loss (debit surplus); it lands
	// on the opposite side of the balance-sheet columns.
	ws.NetIncome = incomeCredit.Sub(incomeDebit)
	return ws, nil
}

// IncomeStatementReport nets revenues against expenses at adjusted
// balances as of the period end.
func (s *StatementService) IncomeStatementReport(ctx context.Context, asOf *time.Time) (*IncomeStatement, error) {
	accounts, balances, err := s.loadBalances(ctx, asOf, nil, true)
	if err != nil {
		return nil, err
	}

	report := &IncomeStatement{
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, acct := range accounts {
		balance := balances[acct.AccountCode]
		switch {
		case strings.HasPrefix(acct.AccountCode, "4-"):
			report.Revenues = append(report.Revenues, StatementAmount{acct.AccountCode, acct.AccountName, balance})
			report.TotalRevenue = report.TotalRevenue.Add(balance)
		case strings.HasPrefix(acct.AccountCode, "5-"), strings.HasPrefix(acct.AccountCode, "6-"):
			report.Expenses = append(report.Expenses, StatementAmount{acct.AccountCode, acct.AccountName, balance})
			report.TotalExpense = report.TotalExpense.Add(balance)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)
	return report, nil
}

// BalanceSheetReport opposes assets to liabilities and equity at adjusted
// balances as of the date.
func (s *StatementService) BalanceSheetReport(ctx context.Context, asOf *time.Time) (*BalanceSheet, error) {
	accounts, balances, err := s.loadBalances(ctx, asOf, nil, true)
	if err != nil {
		return nil, err
	}

	report := &BalanceSheet{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, acct := range accounts {
		balance := balances[acct.AccountCode]
		amount := StatementAmount{acct.AccountCode, acct.AccountName, balance}
		switch {
		case strings.HasPrefix(acct.AccountCode, "1-"):
			// Contra-asset balances (accumulated depreciation) carry a
			// credit normal side and reduce total assets.
			if acct.NormalBalance == models.NormalCredit {
				amount.Amount = balance.Neg()
			}
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(amount.Amount)
		case strings.HasPrefix(acct.AccountCode, "2-"):
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case strings.HasPrefix(acct.AccountCode, "3-"):
			if acct.AccountCode == CodeIncomeSummary {
				continue
			}
			// Drawings carry a debit normal side and reduce equity.
			if acct.NormalBalance == models.NormalDebit {
				amount.Amount = balance.Neg()
			}
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(amount.Amount)
		}
	}
	report.Balanced = report.TotalAssets.Sub(report.TotalLiabilities.Add(report.TotalEquity)).Abs().LessThanOrEqual(balanceTolerance)
	return report, nil
}

// cash-flow keyword policy, matched case-insensitively against the
// entry's description and ref code, first match wins.
var (
	operatingInKeywords  = []string{"penjualan"}
	operatingOutKeywords = []string{"pembelian", "beban", "gaji", "listrik"}
	investingKeywords    = []string{"peralatan", "aset"}
	financingKeywords    = []string{"modal", "prive", "utang"}
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

const (
	bucketOperating = "operating"
	bucketInvesting = "investing"
	bucketFinancing = "financing"
)

// classifyCashEntry assigns a cash journal entry to an activity bucket.
// Unmatched entries default to operating.
func classifyCashEntry(description, refCode string) string {
	text := strings.ToLower(description + " " + refCode)
	switch {
	case containsAny(text, operatingInKeywords) || strings.HasPrefix(refCode, "GB"):
		return bucketOperating
	case containsAny(text, operatingOutKeywords):
		return bucketOperating
	case containsAny(text, investingKeywords):
		return bucketInvesting
	case containsAny(text, financingKeywords):
		return bucketFinancing
	default:
		return bucketOperating
	}
}

// CashFlow classifies every journal entry touching the cash account
// within the range into operating / investing / financing activities.
func (s *StatementService) CashFlow(ctx context.Context, start, end *time.Time) (*CashFlowStatement, error) {
	cash, err := s.accounts.FindByCode(ctx, CodeCash)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledger.journal.Find(ctx, JournalFilter{
		AccountCode: CodeCash,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return nil, err
	}

	report := &CashFlowStatement{
		Operating:     CashFlowBucket{decimal.Zero, decimal.Zero, decimal.Zero},
		Investing:     CashFlowBucket{decimal.Zero, decimal.Zero, decimal.Zero},
		Financing:     CashFlowBucket{decimal.Zero, decimal.Zero, decimal.Zero},
		NetChange:     decimal.Zero,
		BeginningCash: cash.BeginningBalance,
	}

	for _, e := range entries {
		bucket := &report.Operating
		switch classifyCashEntry(e.Description, e.RefCode) {
		case bucketInvesting:
			bucket = &report.Investing
		case bucketFinancing:
			bucket = &report.Financing
		}
		bucket.Inflow = bucket.Inflow.Add(e.Debit)
		bucket.Outflow = bucket.Outflow.Add(e.Credit)
		bucket.Net = bucket.Inflow.Sub(bucket.Outflow)
	}

	report.NetChange = report.Operating.Net.Add(report.Investing.Net).Add(report.Financing.Net)
	report.EndingCash = report.BeginningCash.Add(report.NetChange)
	return report, nil
}

// Close zeroes every revenue and expense account into the income summary
// with closing entries, then closes the summary's net into capital —
// credit on net income, debit on net loss. All rows share one ref code
// and are inserted in a single transaction. Returns the net income.
func (s *StatementService) Close(ctx context.Context, periodEnd time.Time) (decimal.Decimal, error) {
	summary, err := s.accounts.FindByCode(ctx, CodeIncomeSummary)
	if err != nil {
		return decimal.Zero, validationErr("account_code", "account %s is not registered", CodeIncomeSummary)
	}
	capital, err := s.accounts.FindByCode(ctx, CodeCapital)
	if err != nil {
		return decimal.Zero, validationErr("account_code", "account %s is not registered", CodeCapital)
	}

	asOf := periodEnd
	accounts, balances, err := s.loadBalances(ctx, &asOf, nil, true)
	if err != nil {
		return decimal.Zero, err
	}

	// Sort for a stable closing journal regardless of registry order.
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountCode < accounts[j].AccountCode })

	ref := fmt.Sprintf("CL-%s", periodEnd.Format("200601"))
	var entries []models.JournalEntry
	totalRevenue := decimal.Zero
	totalExpense := decimal.Zero

	for _, acct := range accounts {
		balance := balances[acct.AccountCode]
		if balance.IsZero() || !isIncomeStatementCode(acct.AccountCode) {
			continue
		}
		desc := fmt.Sprintf("Jurnal penutup %s", acct.AccountName)
		if strings.HasPrefix(acct.AccountCode, "4-") {
			// Revenue holds a credit balance; debit it away and credit
			// the summary.
			entries = append(entries,
				models.JournalEntry{Date: periodEnd, AccountCode: acct.AccountCode, AccountName: acct.AccountName, Description: desc, Debit: balance, JournalType: models.JournalClosing, RefCode: ref},
				models.JournalEntry{Date: periodEnd, AccountCode: summary.AccountCode, AccountName: summary.AccountName, Description: desc, Credit: balance, JournalType: models.JournalClosing, RefCode: ref},
			)
			totalRevenue = totalRevenue.Add(balance)
		} else {
			entries = append(entries,
				models.JournalEntry{Date: periodEnd, AccountCode: summary.AccountCode, AccountName: summary.AccountName, Description: desc, Debit: balance, JournalType: models.JournalClosing, RefCode: ref},
				models.JournalEntry{Date: periodEnd, AccountCode: acct.AccountCode, AccountName: acct.AccountName, Description: desc, Credit: balance, JournalType: models.JournalClosing, RefCode: ref},
			)
			totalExpense = totalExpense.Add(balance)
		}
	}

	net := totalRevenue.Sub(totalExpense)
	if !net.IsZero() {
		desc := "Jurnal penutup ikhtisar laba rugi ke modal"
		if net.IsPositive() {
			entries = append(entries,
				models.JournalEntry{Date: periodEnd, AccountCode: summary.AccountCode, AccountName: summary.AccountName, Description: desc, Debit: net, JournalType: models.JournalClosing, RefCode: ref},
				models.JournalEntry{Date: periodEnd, AccountCode: capital.AccountCode, AccountName: capital.AccountName, Description: desc, Credit: net, JournalType: models.JournalClosing, RefCode: ref},
			)
		} else {
			loss := net.Neg()
			entries = append(entries,
				models.JournalEntry{Date: periodEnd, AccountCode: capital.AccountCode, AccountName: capital.AccountName, Description: desc, Debit: loss, JournalType: models.JournalClosing, RefCode: ref},
				models.JournalEntry{Date: periodEnd, AccountCode: summary.AccountCode, AccountName: summary.AccountName, Description: desc, Credit: loss, JournalType: models.JournalClosing, RefCode: ref},
			)
		}
	}

	if len(entries) == 0 {
		return decimal.Zero, validationErr("period", "nothing to close as of %s", periodEnd.Format("2006-01-02"))
	}
	if err := s.ledger.PostGroup(ctx, entries); err != nil {
		return decimal.Zero, err
	}

	s.log.WithFields(logrus.Fields{
		"ref_code":   ref,
		"net_income": net.StringFixed(2),
	}).Info("closing entries posted")
	return net, nil
}
