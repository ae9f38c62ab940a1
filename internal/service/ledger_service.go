package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pembukuan-web/internal/models"
)

// JournalFilter narrows a journal query. Zero values mean "no filter".
type JournalFilter struct {
	JournalType string
	AccountCode string
	RefCode     string
	StartDate   *time.Time
	EndDate     *time.Time
}

// JournalStore is the persistence surface of the journal. InsertGroup
// writes all rows of one ref_code group in a single transaction.
type JournalStore interface {
	Insert(ctx context.Context, entry *models.JournalEntry) error
	InsertGroup(ctx context.Context, entries []models.JournalEntry) error
	FindByID(ctx context.Context, id int) (*models.JournalEntry, error)
	Find(ctx context.Context, filter JournalFilter) ([]models.JournalEntry, error)
	Update(ctx context.Context, entry *models.JournalEntry) error
	Delete(ctx context.Context, id int) error
	DeleteByRefCode(ctx context.Context, refCode string) (int, error)
	DeleteByRefPrefix(ctx context.Context, prefix string) (int, error)
}

// balanceTolerance is the rounding slack allowed when comparing the two
// sides of a transaction or report.
var balanceTolerance = decimal.NewFromFloat(0.01)

// LedgerService owns the journal and derives account balances from it.
// Balances are a pure function of the account's beginning balance and its
// dated entries; the optional Redis cache only short-circuits the
// recomputation and never changes an observable result.
type LedgerService struct {
	journal  JournalStore
	accounts AccountStore
	cache    *redis.Client // may be nil
	cacheTTL time.Duration
	log      *logrus.Logger
}

func NewLedgerService(journal JournalStore, accounts AccountStore, cache *redis.Client, cacheTTL time.Duration, log *logrus.Logger) *LedgerService {
	return &LedgerService{
		journal:  journal,
		accounts: accounts,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func validJournalType(t string) bool {
	switch t {
	case models.JournalGeneral, models.JournalAdjusting,
		models.JournalClosing, models.JournalReversing:
		return true
	}
	return false
}

func (s *LedgerService) validateEntry(ctx context.Context, entry *models.JournalEntry) error {
	if entry.AccountCode == "" {
		return validationErr("account_code", "account code is required")
	}
	if entry.Date.IsZero() {
		return validationErr("date", "date is required")
	}
	if !validJournalType(entry.JournalType) {
		return validationErr("journal_type", "unknown journal type %q", entry.JournalType)
	}
	hasDebit := entry.Debit.IsPositive()
	hasCredit := entry.Credit.IsPositive()
	if hasDebit == hasCredit {
		return validationErr("amount", "exactly one of debit or credit must be positive")
	}
	if entry.Debit.IsNegative() || entry.Credit.IsNegative() {
		return validationErr("amount", "amounts must not be negative")
	}

	account, err := s.accounts.FindByCode(ctx, entry.AccountCode)
	if err != nil {
		return validationErr("account_code", "unknown account code %q", entry.AccountCode)
	}
	if entry.AccountName == "" {
		entry.AccountName = account.AccountName
	}
	return nil
}

// Post writes a single journal row. It validates the row's own shape and
// that the account exists; group balance is the composer's responsibility.
func (s *LedgerService) Post(ctx context.Context, entry *models.JournalEntry) error {
	if err := s.validateEntry(ctx, entry); err != nil {
		return err
	}
	if err := s.journal.Insert(ctx, entry); err != nil {
		return err
	}
	s.invalidateBalance(ctx, entry.AccountCode)
	return nil
}

// PostGroup writes all rows of one balanced transaction in a single
// transaction. The rows must share a ref code and their debit and credit
// totals must match within tolerance.
func (s *LedgerService) PostGroup(ctx context.Context, entries []models.JournalEntry) error {
	if len(entries) == 0 {
		return validationErr("entries", "at least one entry is required")
	}

	ref := entries[0].RefCode
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range entries {
		if entries[i].RefCode != ref {
			return validationErr("ref_code", "all entries of a group must share one ref code")
		}
		if err := s.validateEntry(ctx, &entries[i]); err != nil {
			return err
		}
		totalDebit = totalDebit.Add(entries[i].Debit)
		totalCredit = totalCredit.Add(entries[i].Credit)
	}
	if totalDebit.Sub(totalCredit).Abs().GreaterThan(balanceTolerance) {
		return validationErr("amount", "debits (%s) do not equal credits (%s)",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}

	if err := s.journal.InsertGroup(ctx, entries); err != nil {
		return err
	}
	for i := range entries {
		s.invalidateBalance(ctx, entries[i].AccountCode)
	}
	return nil
}

// Query returns journal entries ordered by date, optionally filtered by
// journal type and date range.
func (s *LedgerService) Query(ctx context.Context, filter JournalFilter) ([]models.JournalEntry, error) {
	if filter.JournalType != "" && !validJournalType(filter.JournalType) {
		return nil, validationErr("journal_type", "unknown journal type %q", filter.JournalType)
	}
	return s.journal.Find(ctx, filter)
}

// UpdateEntry edits a posted row's date, description, amounts or account.
func (s *LedgerService) UpdateEntry(ctx context.Context, id int, req models.JournalEntryRequest) (*models.JournalEntry, error) {
	entry, err := s.journal.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldAccount := entry.AccountCode

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, validationErr("date", "invalid date %q", req.Date)
		}
		entry.Date = date
	}
	if req.AccountCode != "" {
		account, err := s.accounts.FindByCode(ctx, req.AccountCode)
		if err != nil {
			return nil, validationErr("account_code", "unknown account code %q", req.AccountCode)
		}
		entry.AccountCode = account.AccountCode
		entry.AccountName = account.AccountName
	}
	if req.Description != "" {
		entry.Description = req.Description
	}
	// Absent amounts keep the posted ones, so an edit can touch only the
	// date, description or account.
	if !req.Debit.IsZero() || !req.Credit.IsZero() {
		entry.Debit = req.Debit
		entry.Credit = req.Credit
	}

	if err := s.validateEntry(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidateBalance(ctx, oldAccount)
	s.invalidateBalance(ctx, entry.AccountCode)
	return entry, nil
}

// DeleteEntry removes a single row.
func (s *LedgerService) DeleteEntry(ctx context.Context, id int) error {
	entry, err := s.journal.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.journal.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateBalance(ctx, entry.AccountCode)
	return nil
}

// DeleteGroup removes every row sharing the ref code, returning the count.
func (s *LedgerService) DeleteGroup(ctx context.Context, refCode string) (int, error) {
	n, err := s.journal.DeleteByRefCode(ctx, refCode)
	if err != nil {
		return 0, err
	}
	s.invalidateAll(ctx)
	return n, nil
}

// Balance derives the account's balance: beginning balance plus, for each
// entry dated on or before asOf, debit-credit on a normal-debit account
// and credit-debit on a normal-credit one. A nil asOf covers all entries.
func (s *LedgerService) Balance(ctx context.Context, code string, asOf *time.Time) (decimal.Decimal, error) {
	if asOf == nil {
		if cached, ok := s.cachedBalance(ctx, code); ok {
			return cached, nil
		}
	}

	account, err := s.accounts.FindByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	entries, err := s.journal.Find(ctx, JournalFilter{AccountCode: code, EndDate: asOf})
	if err != nil {
		return decimal.Zero, err
	}

	balance := applyEntries(account.BeginningBalance, account.NormalBalance, entries)

	if asOf == nil {
		s.storeBalance(ctx, code, balance)
	}
	return balance, nil
}

// applyEntries folds journal entries into a starting balance using the
// account's normal side. Order does not affect the result.
func applyEntries(start decimal.Decimal, normalBalance string, entries []models.JournalEntry) decimal.Decimal {
	balance := start
	for _, e := range entries {
		if normalBalance == models.NormalDebit {
			balance = balance.Add(e.Debit).Sub(e.Credit)
		} else {
			balance = balance.Add(e.Credit).Sub(e.Debit)
		}
	}
	return balance
}

const balanceCachePrefix = "balance:"

func (s *LedgerService) cachedBalance(ctx context.Context, code string) (decimal.Decimal, bool) {
	if s.cache == nil {
		return decimal.Zero, false
	}
	val, err := s.cache.Get(ctx, balanceCachePrefix+code).Result()
	if err != nil {
		return decimal.Zero, false
	}
	balance, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false
	}
	return balance, true
}

func (s *LedgerService) storeBalance(ctx context.Context, code string, balance decimal.Decimal) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, balanceCachePrefix+code, balance.String(), s.cacheTTL).Err(); err != nil {
		s.log.WithError(err).Warn("balance cache write failed")
	}
}

func (s *LedgerService) invalidateBalance(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, balanceCachePrefix+code).Err(); err != nil {
		s.log.WithError(err).Warn("balance cache invalidation failed")
	}
}

// invalidateAll drops every cached balance. Used after bulk deletions
// where the affected accounts are not known up front.
func (s *LedgerService) invalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, balanceCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.log.WithError(err).Warn("balance cache invalidation failed")
			return
		}
	}
}
