package service

import (
	"context"
	"regexp"

	"github.com/sirupsen/logrus"

	"pembukuan-web/internal/models"
)

// AccountStore is the persistence surface the registry needs. The sqlx
// repository implements it; tests use an in-memory fake.
type AccountStore interface {
	FindAll(ctx context.Context) ([]models.Account, error)
	FindByCode(ctx context.Context, code string) (*models.Account, error)
	Insert(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	// DeleteCascade removes the account's journal entries first, then the
	// account, in one transaction. Returns the number of entries removed.
	DeleteCascade(ctx context.Context, code string) (int, error)
	// ResetAll wipes all accounts and all journal entries in one
	// transaction, then inserts the given seed accounts (may be empty).
	ResetAll(ctx context.Context, seed []models.Account) error
}

// Reset modes for the chart of accounts.
const (
	ResetClear   = "clear"
	ResetDefault = "default"
)

var accountCodePattern = regexp.MustCompile(`^[1-6]-\d{4}$`)

// AccountService is the chart-of-accounts registry.
type AccountService struct {
	store AccountStore
	log   *logrus.Logger
}

func NewAccountService(store AccountStore, log *logrus.Logger) *AccountService {
	return &AccountService{store: store, log: log}
}

func classForCode(code string) (accountType, normalBalance string) {
	switch code[0] {
	case '1':
		return models.TypeAsset, models.NormalDebit
	case '2':
		return models.TypeLiability, models.NormalCredit
	case '3':
		return models.TypeEquity, models.NormalCredit
	case '4':
		return models.TypeRevenue, models.NormalCredit
	default:
		return models.TypeExpense, models.NormalDebit
	}
}

func validAccountType(t string) bool {
	switch t {
	case models.TypeAsset, models.TypeLiability, models.TypeEquity,
		models.TypeRevenue, models.TypeExpense:
		return true
	}
	return false
}

// Create registers a new account. Account type and normal balance default
// to the class implied by the code's leading digit when omitted.
func (s *AccountService) Create(ctx context.Context, req models.AccountRequest) (*models.Account, error) {
	if req.AccountCode == "" {
		return nil, validationErr("account_code", "account code is required")
	}
	if req.AccountName == "" {
		return nil, validationErr("account_name", "account name is required")
	}
	if !accountCodePattern.MatchString(req.AccountCode) {
		return nil, validationErr("account_code", "account code must match D-DDDD, got %q", req.AccountCode)
	}

	defType, defSide := classForCode(req.AccountCode)
	accountType := req.AccountType
	if accountType == "" {
		accountType = defType
	}
	if !validAccountType(accountType) {
		return nil, validationErr("account_type", "unknown account type %q", accountType)
	}
	normal := req.NormalBalance
	if normal == "" {
		normal = defSide
	}
	if normal != models.NormalDebit && normal != models.NormalCredit {
		return nil, validationErr("normal_balance", "normal balance must be debit or credit, got %q", normal)
	}

	if existing, err := s.store.FindByCode(ctx, req.AccountCode); err == nil && existing != nil {
		return nil, ErrDuplicate
	}

	account := &models.Account{
		AccountCode:      req.AccountCode,
		AccountName:      req.AccountName,
		AccountType:      accountType,
		NormalBalance:    normal,
		BeginningBalance: req.BeginningBalance,
	}
	if err := s.store.Insert(ctx, account); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"account_code": account.AccountCode,
		"account_name": account.AccountName,
	}).Info("account created")

	return account, nil
}

// List returns all accounts ordered by code.
func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	return s.store.FindAll(ctx)
}

// Get returns a single account by code.
func (s *AccountService) Get(ctx context.Context, code string) (*models.Account, error) {
	return s.store.FindByCode(ctx, code)
}

// Update changes the account's name and/or beginning balance. Code and
// normal balance are immutable once created.
func (s *AccountService) Update(ctx context.Context, code string, req models.AccountUpdateRequest) (*models.Account, error) {
	account, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.AccountName != "" {
		account.AccountName = req.AccountName
	}
	if req.BeginningBalance != nil {
		account.BeginningBalance = *req.BeginningBalance
	}

	if err := s.store.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes the account together with every journal entry posted
// against it, returning the number of entries removed.
func (s *AccountService) Delete(ctx context.Context, code string) (int, error) {
	if _, err := s.store.FindByCode(ctx, code); err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteCascade(ctx, code)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"account_code":    code,
		"entries_removed": deleted,
	}).Info("account deleted")

	return deleted, nil
}

// Reset clears all accounts and journal entries. In default mode the
// fixed chart of accounts is re-seeded afterwards.
func (s *AccountService) Reset(ctx context.Context, mode string) error {
	switch mode {
	case ResetClear:
		return s.store.ResetAll(ctx, nil)
	case ResetDefault:
		return s.store.ResetAll(ctx, DefaultChartOfAccounts())
	default:
		return validationErr("mode", "reset mode must be clear or default, got %q", mode)
	}
}
