package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
)

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	query := `
		SELECT account_code, account_name, account_type, normal_balance,
		       beginning_balance, created_at, updated_at
		FROM accounts
		ORDER BY account_code`
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) FindByCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	query := `
		SELECT account_code, account_name, account_type, normal_balance,
		       beginning_balance, created_at, updated_at
		FROM accounts
		WHERE account_code = ?
		LIMIT 1`
	err := r.db.GetContext(ctx, &account, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) Insert(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (account_code, account_name, account_type, normal_balance, beginning_balance)
	          VALUES (:account_code, :account_name, :account_type, :normal_balance, :beginning_balance)`
	_, err := r.db.NamedExecContext(ctx, query, account)
	return err
}

func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts SET account_name = :account_name,
	          beginning_balance = :beginning_balance
	          WHERE account_code = :account_code`
	_, err := r.db.NamedExecContext(ctx, query, account)
	return err
}

// DeleteCascade removes the account's journal entries and then the
// account itself in one transaction, returning the entry count. The
// cascade is an application policy, not a database constraint.
func (r *AccountRepository) DeleteCascade(ctx context.Context, code string) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM journal_entries WHERE account_code = ?", code)
	if err != nil {
		return 0, err
	}
	deleted, _ := result.RowsAffected()

	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts WHERE account_code = ?", code); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// ResetAll wipes all accounts and all journal entries, then inserts the
// seed accounts, all in one transaction.
func (r *AccountRepository) ResetAll(ctx context.Context, seed []models.Account) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM journal_entries"); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts"); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}

	for i := range seed {
		query := `INSERT INTO accounts (account_code, account_name, account_type, normal_balance, beginning_balance)
		          VALUES (:account_code, :account_name, :account_type, :normal_balance, :beginning_balance)`
		if _, err := tx.NamedExecContext(ctx, query, &seed[i]); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", seed[i].AccountCode, err)
		}
	}

	return tx.Commit()
}
