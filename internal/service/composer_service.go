package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pembukuan-web/internal/models"
)

// SaleStore persists point-of-sale tickets.
type SaleStore interface {
	Insert(ctx context.Context, sale *models.SaleTransaction) error
	CountByDate(ctx context.Context, date time.Time) (int, error)
	FindByCode(ctx context.Context, code string) (*models.SaleTransaction, error)
	FindAll(ctx context.Context, limit, offset int) ([]models.SaleTransaction, int, error)
	Delete(ctx context.Context, code string) error
}

// SalePoster writes everything a cash sale produces — the ticket, its four
// journal rows and its inventory card rows — in a single transaction, so a
// failure partway through leaves no partial state.
type SalePoster interface {
	PostSale(ctx context.Context, sale *models.SaleTransaction, entries []models.JournalEntry, cards []models.InventoryCardEntry) error
}

// ComposerPolicy carries the business knobs of the composer.
type ComposerPolicy struct {
	// CogsFallbackRatio estimates cost of goods as this share of the sale
	// price when no cost history exists for the product. Shop policy, not
	// an accounting rule.
	CogsFallbackRatio decimal.Decimal
}

// ComposerService turns business events into balanced journal entry
// groups. Every group it emits satisfies sum(debit) == sum(credit).
type ComposerService struct {
	ledger    *LedgerService
	inventory *InventoryService
	accounts  AccountStore
	sales     SaleStore
	poster    SalePoster
	policy    ComposerPolicy
	log       *logrus.Logger
}

func NewComposerService(
	ledger *LedgerService,
	inventory *InventoryService,
	accounts AccountStore,
	sales SaleStore,
	poster SalePoster,
	policy ComposerPolicy,
	log *logrus.Logger,
) *ComposerService {
	return &ComposerService{
		ledger:    ledger,
		inventory: inventory,
		accounts:  accounts,
		sales:     sales,
		poster:    poster,
		policy:    policy,
		log:       log,
	}
}

func (s *ComposerService) mustAccount(ctx context.Context, code string) (*models.Account, error) {
	account, err := s.accounts.FindByCode(ctx, code)
	if err != nil {
		return nil, validationErr("account_code", "account %s is not registered", code)
	}
	return account, nil
}

func shortRef(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String()[:8])
}

// RecordCashSale posts a point-of-sale ticket: cash and cost-of-goods
// debits against revenue and inventory credits, all under the ticket's
// transaction code, plus one inventory card row per item. Everything is
// written in one transaction.
func (s *ComposerService) RecordCashSale(ctx context.Context, date time.Time, items []models.SaleItemRequest, actor string) (*models.SaleTransaction, error) {
	if actor == "" {
		return nil, validationErr("actor", "actor is required")
	}
	if len(items) == 0 {
		return nil, validationErr("items", "at least one item is required")
	}
	for i, item := range items {
		if item.Name == "" {
			return nil, validationErr("items", "item %d: name is required", i+1)
		}
		if !item.Quantity.IsPositive() {
			return nil, validationErr("items", "item %d: quantity must be positive", i+1)
		}
		if !item.Price.IsPositive() {
			return nil, validationErr("items", "item %d: price must be positive", i+1)
		}
	}

	cash, err := s.mustAccount(ctx, CodeCash)
	if err != nil {
		return nil, err
	}
	revenue, err := s.mustAccount(ctx, CodeSalesRevenue)
	if err != nil {
		return nil, err
	}
	cogsAcct, err := s.mustAccount(ctx, CodeCOGS)
	if err != nil {
		return nil, err
	}
	inventory, err := s.mustAccount(ctx, CodeInventory)
	if err != nil {
		return nil, err
	}

	seq, err := s.sales.CountByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	code := fmt.Sprintf("GB%s%03d", date.Format("0201"), seq+1)

	sale := &models.SaleTransaction{
		TransactionCode: code,
		Date:            date,
		CashierUsername: actor,
	}

	total := decimal.Zero
	totalCogs := decimal.Zero
	cards := make([]models.InventoryCardEntry, 0, len(items))
	running := map[string]*cardBalance{}

	for _, item := range items {
		subtotal := item.Quantity.Mul(item.Price)
		total = total.Add(subtotal)
		sale.Items = append(sale.Items, models.SaleItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: subtotal,
		})

		// Cost each item at the card's last moving-average unit cost;
		// with no cost history, fall back to the configured share of the
		// sale price.
		cost, known := s.inventory.LastUnitCost(ctx, item.Name)
		if !known {
			cost = item.Price.Mul(s.policy.CogsFallbackRatio)
		}
		itemCogs := item.Quantity.Mul(cost)
		totalCogs = totalCogs.Add(itemCogs)

		balance, ok := running[item.Name]
		if !ok {
			balance = &cardBalance{}
			if last, err := s.inventory.store.LastEntry(ctx, item.Name); err == nil && last != nil {
				balance.quantity = last.BalanceQuantity
				balance.amount = last.BalanceAmount
			}
			running[item.Name] = balance
		}
		cards = append(cards, buildSaleCard(date, code, item, cost, actor, balance))
	}
	sale.TotalAmount = total

	desc := fmt.Sprintf("Penjualan tunai %s", code)
	cogsDesc := fmt.Sprintf("HPP penjualan %s", code)
	entries := []models.JournalEntry{
		{Date: date, AccountCode: cash.AccountCode, AccountName: cash.AccountName, Description: desc, Debit: total, JournalType: models.JournalGeneral, RefCode: code},
		{Date: date, AccountCode: revenue.AccountCode, AccountName: revenue.AccountName, Description: desc, Credit: total, JournalType: models.JournalGeneral, RefCode: code},
		{Date: date, AccountCode: cogsAcct.AccountCode, AccountName: cogsAcct.AccountName, Description: cogsDesc, Debit: totalCogs, JournalType: models.JournalGeneral, RefCode: code},
		{Date: date, AccountCode: inventory.AccountCode, AccountName: inventory.AccountName, Description: cogsDesc, Credit: totalCogs, JournalType: models.JournalGeneral, RefCode: code},
	}

	if err := s.poster.PostSale(ctx, sale, entries, cards); err != nil {
		return nil, err
	}
	for _, e := range entries {
		s.ledger.invalidateBalance(ctx, e.AccountCode)
	}

	s.log.WithFields(logrus.Fields{
		"transaction_code": code,
		"total":            total.StringFixed(2),
		"cashier":          actor,
	}).Info("cash sale posted")
	return sale, nil
}

// cardBalance tracks a product's running card balance while a ticket's
// rows are being composed, so repeated products deduct cumulatively.
type cardBalance struct {
	quantity decimal.Decimal
	amount   decimal.Decimal
}

// buildSaleCard prepares the outflow card row for one sold item, moving
// the product's running balance forward.
func buildSaleCard(date time.Time, ref string, item models.SaleItemRequest, cost decimal.Decimal, actor string, balance *cardBalance) models.InventoryCardEntry {
	salesAmount := item.Quantity.Mul(cost)
	balance.quantity = balance.quantity.Sub(item.Quantity)
	balance.amount = balance.amount.Sub(salesAmount)

	card := models.InventoryCardEntry{
		Date:           date,
		ProductName:    item.Name,
		RefCode:        ref,
		Description:    fmt.Sprintf("Penjualan %s", ref),
		SalesQuantity:  item.Quantity,
		SalesUnitPrice: cost,
		SalesAmount:    salesAmount,
		Employee:       actor,
	}
	card.BalanceQuantity = balance.quantity
	card.BalanceAmount = balance.amount
	card.BalanceUnitPrice = unitCost(card.BalanceAmount, card.BalanceQuantity)
	return card
}

// purchaseTargets maps a purchase kind to the debited account and the
// default description. Every purchase credits cash.
var purchaseTargets = map[string]struct {
	debitCode string
	desc      string
}{
	models.PurchaseSeedStock: {CodeInventory, "Pembelian bibit ikan"},
	models.PurchaseSupplies:  {CodeSupplies, "Pembelian perlengkapan"},
	models.PurchaseEquipment: {CodeEquipment, "Pembelian peralatan"},
}

// RecordPurchase posts a cash purchase of seed stock, supplies or
// equipment. Seed stock additionally records an inventory card inflow.
func (s *ComposerService) RecordPurchase(ctx context.Context, req models.PurchaseRequest, productName, actor string) ([]models.JournalEntry, error) {
	if actor == "" {
		return nil, validationErr("actor", "actor is required")
	}
	target, ok := purchaseTargets[req.Kind]
	if !ok {
		return nil, validationErr("kind", "unknown purchase kind %q", req.Kind)
	}
	if !req.Quantity.IsPositive() {
		return nil, validationErr("quantity", "quantity must be positive")
	}
	if !req.UnitPrice.IsPositive() {
		return nil, validationErr("unit_price", "unit price must be positive")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, validationErr("date", "invalid date %q", req.Date)
	}

	debit, err := s.mustAccount(ctx, target.debitCode)
	if err != nil {
		return nil, err
	}
	cash, err := s.mustAccount(ctx, CodeCash)
	if err != nil {
		return nil, err
	}

	desc := req.Description
	if desc == "" {
		desc = target.desc
	}
	amount := req.Quantity.Mul(req.UnitPrice)
	ref := shortRef("PB")

	entries := []models.JournalEntry{
		{Date: date, AccountCode: debit.AccountCode, AccountName: debit.AccountName, Description: desc, Debit: amount, JournalType: models.JournalGeneral, RefCode: ref},
		{Date: date, AccountCode: cash.AccountCode, AccountName: cash.AccountName, Description: desc, Credit: amount, JournalType: models.JournalGeneral, RefCode: ref},
	}
	if err := s.ledger.PostGroup(ctx, entries); err != nil {
		return nil, err
	}

	if req.Kind == models.PurchaseSeedStock {
		_, err := s.inventory.Record(ctx, RecordInput{
			Date:        date,
			ProductName: productName,
			RefCode:     ref,
			Description: desc,
			QuantityIn:  req.Quantity,
			UnitPrice:   req.UnitPrice,
			Employee:    actor,
		})
		if err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// RecordManualEntry posts a two-row manual transaction: an expense payment
// or a miscellaneous cash receipt. Debit and credit amounts must match
// within tolerance and both accounts must be registered.
func (s *ComposerService) RecordManualEntry(ctx context.Context, req models.ManualEntryRequest, actor string) ([]models.JournalEntry, error) {
	if actor == "" {
		return nil, validationErr("actor", "actor is required")
	}
	if !req.DebitAmount.IsPositive() || !req.CreditAmount.IsPositive() {
		return nil, validationErr("amount", "debit and credit amounts must be positive")
	}
	if req.DebitAmount.Sub(req.CreditAmount).Abs().GreaterThan(balanceTolerance) {
		return nil, validationErr("amount", "debit (%s) does not equal credit (%s)",
			req.DebitAmount.StringFixed(2), req.CreditAmount.StringFixed(2))
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, validationErr("date", "invalid date %q", req.Date)
	}

	debit, err := s.mustAccount(ctx, req.DebitCode)
	if err != nil {
		return nil, err
	}
	credit, err := s.mustAccount(ctx, req.CreditCode)
	if err != nil {
		return nil, err
	}

	journalType := req.JournalType
	if journalType == "" {
		journalType = models.JournalGeneral
	}
	ref := shortRef("MN")

	entries := []models.JournalEntry{
		{Date: date, AccountCode: debit.AccountCode, AccountName: debit.AccountName, Description: req.Description, Debit: req.DebitAmount, JournalType: journalType, RefCode: ref},
		{Date: date, AccountCode: credit.AccountCode, AccountName: credit.AccountName, Description: req.Description, Credit: req.CreditAmount, JournalType: journalType, RefCode: ref},
	}
	if err := s.ledger.PostGroup(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteSale removes a posted ticket together with its journal rows and
// inventory card rows, then replays the affected product cards so their
// running balances hold again.
func (s *ComposerService) DeleteSale(ctx context.Context, code string) error {
	sale, err := s.sales.FindByCode(ctx, code)
	if err != nil {
		return err
	}

	if _, err := s.ledger.DeleteGroup(ctx, code); err != nil {
		return err
	}
	if _, err := s.inventory.DeleteByRefCode(ctx, code); err != nil {
		return err
	}
	if err := s.sales.Delete(ctx, code); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, item := range sale.Items {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		if err := s.inventory.Recalculate(ctx, item.Name); err != nil {
			return err
		}
	}

	s.log.WithField("transaction_code", code).Info("sale deleted")
	return nil
}

// Sales lists tickets, newest first.
func (s *ComposerService) Sales(ctx context.Context, limit, offset int) ([]models.SaleTransaction, int, error) {
	return s.sales.FindAll(ctx, limit, offset)
}

// Sale returns one ticket by its transaction code.
func (s *ComposerService) Sale(ctx context.Context, code string) (*models.SaleTransaction, error) {
	return s.sales.FindByCode(ctx, code)
}
