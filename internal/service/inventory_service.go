package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pembukuan-web/internal/models"
)

// InventoryStore is the persistence surface of the perpetual inventory
// card. FindAllChronological orders by date, then insertion id, which is
// the replay order of Recalculate. UpdateBalances rewrites the balance
// columns of every given row in one transaction.
type InventoryStore interface {
	Insert(ctx context.Context, entry *models.InventoryCardEntry) error
	LastEntry(ctx context.Context, productName string) (*models.InventoryCardEntry, error)
	FindByID(ctx context.Context, id int) (*models.InventoryCardEntry, error)
	FindAllChronological(ctx context.Context, productName string) ([]models.InventoryCardEntry, error)
	Update(ctx context.Context, entry *models.InventoryCardEntry) error
	UpdateBalances(ctx context.Context, entries []models.InventoryCardEntry) error
	Delete(ctx context.Context, id int) error
	DeleteByRefCode(ctx context.Context, refCode string) (int, error)
}

// InventoryService maintains one moving-average cost card per product.
// The card is append-only: every purchase and sale adds a row carrying the
// running quantity and cost balance. Corrections edit or delete a row and
// then replay the whole card. The read-last-then-insert pattern assumes a
// single operator at a time; there is no row locking.
type InventoryService struct {
	store InventoryStore
	log   *logrus.Logger
}

func NewInventoryService(store InventoryStore, log *logrus.Logger) *InventoryService {
	return &InventoryService{store: store, log: log}
}

// RecordInput describes one card mutation: a purchase (QuantityIn) or a
// sale (QuantityOut). UnitPrice is the purchase price on inflows and the
// unit cost on outflows.
type RecordInput struct {
	Date        time.Time
	ProductName string
	RefCode     string
	Description string
	QuantityIn  decimal.Decimal
	QuantityOut decimal.Decimal
	UnitPrice   decimal.Decimal
	Employee    string
}

// Record appends a card row, extending the running balance of the most
// recent row for the product.
func (s *InventoryService) Record(ctx context.Context, in RecordInput) (*models.InventoryCardEntry, error) {
	if in.ProductName == "" {
		return nil, validationErr("product_name", "product name is required")
	}
	hasIn := in.QuantityIn.IsPositive()
	hasOut := in.QuantityOut.IsPositive()
	if hasIn == hasOut {
		return nil, validationErr("quantity", "exactly one of quantity_in or quantity_out must be positive")
	}
	if !in.UnitPrice.IsPositive() {
		return nil, validationErr("unit_price", "unit price must be positive")
	}

	lastQty := decimal.Zero
	lastAmount := decimal.Zero
	if last, err := s.store.LastEntry(ctx, in.ProductName); err == nil && last != nil {
		lastQty = last.BalanceQuantity
		lastAmount = last.BalanceAmount
	}

	entry := &models.InventoryCardEntry{
		Date:        in.Date,
		ProductName: in.ProductName,
		RefCode:     in.RefCode,
		Description: in.Description,
		Employee:    in.Employee,
	}

	if hasIn {
		entry.PurchaseQuantity = in.QuantityIn
		entry.PurchaseUnitPrice = in.UnitPrice
		entry.PurchaseAmount = in.QuantityIn.Mul(in.UnitPrice)
		entry.BalanceQuantity = lastQty.Add(in.QuantityIn)
		entry.BalanceAmount = lastAmount.Add(entry.PurchaseAmount)
	} else {
		entry.SalesQuantity = in.QuantityOut
		entry.SalesUnitPrice = in.UnitPrice
		entry.SalesAmount = in.QuantityOut.Mul(in.UnitPrice)
		entry.BalanceQuantity = lastQty.Sub(in.QuantityOut)
		entry.BalanceAmount = lastAmount.Sub(entry.SalesAmount)
	}
	entry.BalanceUnitPrice = unitCost(entry.BalanceAmount, entry.BalanceQuantity)

	if err := s.store.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// LastUnitCost returns the moving-average unit cost after the most recent
// card row for the product. The second result is false when no cost
// history exists.
func (s *InventoryService) LastUnitCost(ctx context.Context, productName string) (decimal.Decimal, bool) {
	last, err := s.store.LastEntry(ctx, productName)
	if err != nil || last == nil {
		return decimal.Zero, false
	}
	if last.BalanceUnitPrice.IsZero() {
		return decimal.Zero, false
	}
	return last.BalanceUnitPrice, true
}

// Card returns the product's card rows in chronological order.
func (s *InventoryService) Card(ctx context.Context, productName string) ([]models.InventoryCardEntry, error) {
	return s.store.FindAllChronological(ctx, productName)
}

// UpdateEntry edits a card row. The caller must follow up with
// Recalculate (directly or through the background worker) to restore the
// running-balance invariant.
func (s *InventoryService) UpdateEntry(ctx context.Context, id int, req models.InventoryCardUpdateRequest) (*models.InventoryCardEntry, error) {
	entry, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, validationErr("date", "invalid date %q", req.Date)
		}
		entry.Date = date
	}
	if req.Description != "" {
		entry.Description = req.Description
	}
	if req.PurchaseQuantity.IsPositive() {
		entry.PurchaseQuantity = req.PurchaseQuantity
		entry.PurchaseUnitPrice = req.PurchaseUnitPrice
		entry.PurchaseAmount = req.PurchaseQuantity.Mul(req.PurchaseUnitPrice)
	}
	if req.SalesQuantity.IsPositive() {
		entry.SalesQuantity = req.SalesQuantity
		entry.SalesUnitPrice = req.SalesUnitPrice
		entry.SalesAmount = req.SalesQuantity.Mul(req.SalesUnitPrice)
	}

	if err := s.store.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes a card row. As with UpdateEntry, the card must be
// recalculated afterwards.
func (s *InventoryService) DeleteEntry(ctx context.Context, id int) (string, error) {
	entry, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return "", err
	}
	return entry.ProductName, nil
}

// DeleteByRefCode removes every card row created under the ref code,
// returning the count. Used when a posted sale is deleted.
func (s *InventoryService) DeleteByRefCode(ctx context.Context, refCode string) (int, error) {
	return s.store.DeleteByRefCode(ctx, refCode)
}

// Recalculate replays the product's card in chronological order from a
// zero balance and rewrites every row's stored balance columns. Running
// it twice in a row yields identical results. Full replay trades write
// cost for correctness under arbitrary historical edits.
func (s *InventoryService) Recalculate(ctx context.Context, productName string) error {
	entries, err := s.store.FindAllChronological(ctx, productName)
	if err != nil {
		return err
	}

	qty := decimal.Zero
	amount := decimal.Zero
	for i := range entries {
		qty = qty.Add(entries[i].PurchaseQuantity).Sub(entries[i].SalesQuantity)
		amount = amount.Add(entries[i].PurchaseAmount).Sub(entries[i].SalesAmount)
		entries[i].BalanceQuantity = qty
		entries[i].BalanceAmount = amount
		entries[i].BalanceUnitPrice = unitCost(amount, qty)
	}

	if err := s.store.UpdateBalances(ctx, entries); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"product": productName,
		"rows":    len(entries),
	}).Info("inventory card recalculated")
	return nil
}

func unitCost(amount, qty decimal.Decimal) decimal.Decimal {
	if qty.IsPositive() {
		return amount.DivRound(qty, 4)
	}
	return decimal.Zero
}
