package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pembukuan-web/internal/models"
)

// In-memory store fakes backing the service tests.

type fakeAccountStore struct {
	accounts map[string]*models.Account
	journal  *fakeJournalStore
}

func newFakeAccountStore(journal *fakeJournalStore) *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]*models.Account{}, journal: journal}
}

func (f *fakeAccountStore) seed(accounts []models.Account) {
	for i := range accounts {
		a := accounts[i]
		f.accounts[a.AccountCode] = &a
	}
}

func (f *fakeAccountStore) FindAll(ctx context.Context) ([]models.Account, error) {
	out := make([]models.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}

func (f *fakeAccountStore) FindByCode(ctx context.Context, code string) (*models.Account, error) {
	a, ok := f.accounts[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountStore) Insert(ctx context.Context, account *models.Account) error {
	if _, ok := f.accounts[account.AccountCode]; ok {
		return ErrDuplicate
	}
	cp := *account
	f.accounts[account.AccountCode] = &cp
	return nil
}

func (f *fakeAccountStore) Update(ctx context.Context, account *models.Account) error {
	if _, ok := f.accounts[account.AccountCode]; !ok {
		return ErrNotFound
	}
	cp := *account
	f.accounts[account.AccountCode] = &cp
	return nil
}

func (f *fakeAccountStore) DeleteCascade(ctx context.Context, code string) (int, error) {
	if _, ok := f.accounts[code]; !ok {
		return 0, ErrNotFound
	}
	deleted := 0
	if f.journal != nil {
		kept := f.journal.entries[:0]
		for _, e := range f.journal.entries {
			if e.AccountCode == code {
				deleted++
				continue
			}
			kept = append(kept, e)
		}
		f.journal.entries = kept
	}
	delete(f.accounts, code)
	return deleted, nil
}

func (f *fakeAccountStore) ResetAll(ctx context.Context, seed []models.Account) error {
	f.accounts = map[string]*models.Account{}
	if f.journal != nil {
		f.journal.entries = nil
	}
	f.seed(seed)
	return nil
}

type fakeJournalStore struct {
	entries []models.JournalEntry
	nextID  int
}

func (f *fakeJournalStore) Insert(ctx context.Context, entry *models.JournalEntry) error {
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeJournalStore) InsertGroup(ctx context.Context, entries []models.JournalEntry) error {
	for i := range entries {
		if err := f.Insert(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeJournalStore) FindByID(ctx context.Context, id int) (*models.JournalEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeJournalStore) Find(ctx context.Context, filter JournalFilter) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	for _, e := range f.entries {
		if filter.JournalType != "" && e.JournalType != filter.JournalType {
			continue
		}
		if filter.AccountCode != "" && e.AccountCode != filter.AccountCode {
			continue
		}
		if filter.RefCode != "" && e.RefCode != filter.RefCode {
			continue
		}
		if filter.StartDate != nil && e.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeJournalStore) Update(ctx context.Context, entry *models.JournalEntry) error {
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = *entry
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeJournalStore) Delete(ctx context.Context, id int) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeJournalStore) DeleteByRefCode(ctx context.Context, refCode string) (int, error) {
	deleted := 0
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.RefCode == refCode {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return deleted, nil
}

func (f *fakeJournalStore) DeleteByRefPrefix(ctx context.Context, prefix string) (int, error) {
	deleted := 0
	kept := f.entries[:0]
	for _, e := range f.entries {
		if strings.HasPrefix(e.RefCode, prefix) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return deleted, nil
}

type fakeInventoryStore struct {
	rows   []models.InventoryCardEntry
	nextID int
}

func (f *fakeInventoryStore) Insert(ctx context.Context, entry *models.InventoryCardEntry) error {
	f.nextID++
	entry.ID = f.nextID
	f.rows = append(f.rows, *entry)
	return nil
}

func (f *fakeInventoryStore) LastEntry(ctx context.Context, productName string) (*models.InventoryCardEntry, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ProductName == productName {
			cp := f.rows[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeInventoryStore) FindByID(ctx context.Context, id int) (*models.InventoryCardEntry, error) {
	for _, r := range f.rows {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeInventoryStore) FindAllChronological(ctx context.Context, productName string) ([]models.InventoryCardEntry, error) {
	var out []models.InventoryCardEntry
	for _, r := range f.rows {
		if r.ProductName == productName {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeInventoryStore) Update(ctx context.Context, entry *models.InventoryCardEntry) error {
	for i := range f.rows {
		if f.rows[i].ID == entry.ID {
			f.rows[i] = *entry
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeInventoryStore) UpdateBalances(ctx context.Context, entries []models.InventoryCardEntry) error {
	for _, e := range entries {
		for i := range f.rows {
			if f.rows[i].ID == e.ID {
				f.rows[i].BalanceQuantity = e.BalanceQuantity
				f.rows[i].BalanceUnitPrice = e.BalanceUnitPrice
				f.rows[i].BalanceAmount = e.BalanceAmount
			}
		}
	}
	return nil
}

func (f *fakeInventoryStore) Delete(ctx context.Context, id int) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeInventoryStore) DeleteByRefCode(ctx context.Context, refCode string) (int, error) {
	deleted := 0
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.RefCode == refCode {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return deleted, nil
}

type fakeSaleStore struct {
	sales []models.SaleTransaction
}

func (f *fakeSaleStore) Insert(ctx context.Context, sale *models.SaleTransaction) error {
	f.sales = append(f.sales, *sale)
	return nil
}

func (f *fakeSaleStore) CountByDate(ctx context.Context, date time.Time) (int, error) {
	count := 0
	for _, s := range f.sales {
		if s.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			count++
		}
	}
	return count, nil
}

func (f *fakeSaleStore) FindByCode(ctx context.Context, code string) (*models.SaleTransaction, error) {
	for _, s := range f.sales {
		if s.TransactionCode == code {
			cp := s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeSaleStore) FindAll(ctx context.Context, limit, offset int) ([]models.SaleTransaction, int, error) {
	total := len(f.sales)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return append([]models.SaleTransaction(nil), f.sales[offset:end]...), total, nil
}

func (f *fakeSaleStore) Delete(ctx context.Context, code string) error {
	for i := range f.sales {
		if f.sales[i].TransactionCode == code {
			f.sales = append(f.sales[:i], f.sales[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type fakeAssetStore struct {
	assets []models.Asset
	nextID int
}

func (f *fakeAssetStore) Insert(ctx context.Context, asset *models.Asset) error {
	f.nextID++
	asset.ID = f.nextID
	f.assets = append(f.assets, *asset)
	return nil
}

func (f *fakeAssetStore) FindByID(ctx context.Context, id int) (*models.Asset, error) {
	for _, a := range f.assets {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeAssetStore) FindAll(ctx context.Context) ([]models.Asset, error) {
	return append([]models.Asset(nil), f.assets...), nil
}

func (f *fakeAssetStore) Update(ctx context.Context, asset *models.Asset) error {
	for i := range f.assets {
		if f.assets[i].ID == asset.ID {
			f.assets[i] = *asset
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeAssetStore) Delete(ctx context.Context, id int) error {
	for i := range f.assets {
		if f.assets[i].ID == id {
			f.assets = append(f.assets[:i], f.assets[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// fakePoster fans the atomic write sequences out to the individual fakes.
type fakePoster struct {
	journal   *fakeJournalStore
	inventory *fakeInventoryStore
	sales     *fakeSaleStore
	assets    *fakeAssetStore
}

func (f *fakePoster) PostSale(ctx context.Context, sale *models.SaleTransaction, entries []models.JournalEntry, cards []models.InventoryCardEntry) error {
	if err := f.sales.Insert(ctx, sale); err != nil {
		return err
	}
	if err := f.journal.InsertGroup(ctx, entries); err != nil {
		return err
	}
	for i := range cards {
		if err := f.inventory.Insert(ctx, &cards[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakePoster) PostDepreciation(ctx context.Context, entries []models.JournalEntry, asset *models.Asset) error {
	if err := f.journal.InsertGroup(ctx, entries); err != nil {
		return err
	}
	return f.assets.Update(ctx, asset)
}

// testEnv wires every service over the in-memory fakes.
type testEnv struct {
	accounts     *fakeAccountStore
	journal      *fakeJournalStore
	inventory    *fakeInventoryStore
	sales        *fakeSaleStore
	assets       *fakeAssetStore
	account      *AccountService
	ledger       *LedgerService
	inventorySvc *InventoryService
	composer     *ComposerService
	depreciation *DepreciationService
	statements   *StatementService
}

func newTestEnv() *testEnv {
	log := logrus.New()
	log.SetOutput(io.Discard)

	journal := &fakeJournalStore{}
	accounts := newFakeAccountStore(journal)
	accounts.seed(DefaultChartOfAccounts())
	inventory := &fakeInventoryStore{}
	sales := &fakeSaleStore{}
	assets := &fakeAssetStore{}
	poster := &fakePoster{journal: journal, inventory: inventory, sales: sales, assets: assets}

	ledger := NewLedgerService(journal, accounts, nil, 0, log)
	inventorySvc := NewInventoryService(inventory, log)
	composer := NewComposerService(ledger, inventorySvc, accounts, sales, poster,
		ComposerPolicy{CogsFallbackRatio: decimal.NewFromFloat(0.70)}, log)
	depreciation := NewDepreciationService(assets, ledger, poster, log)
	statements := NewStatementService(ledger, accounts, log)

	return &testEnv{
		accounts:     accounts,
		journal:      journal,
		inventory:    inventory,
		sales:        sales,
		assets:       assets,
		account:      NewAccountService(accounts, log),
		ledger:       ledger,
		inventorySvc: inventorySvc,
		composer:     composer,
		depreciation: depreciation,
		statements:   statements,
	}
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
