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

const insertJournalEntryQuery = `
	INSERT INTO journal_entries (entry_date, account_code, account_name, description, debit, credit, journal_type, ref_code)
	VALUES (:entry_date, :account_code, :account_name, :description, :debit, :credit, :journal_type, :ref_code)`

type JournalRepository struct {
	db *sqlx.DB
}

func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Insert(ctx context.Context, entry *models.JournalEntry) error {
	result, err := sqlx.NamedExecContext(ctx, r.db, insertJournalEntryQuery, entry)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	entry.ID = int(id)
	return nil
}

// InsertGroup writes every row of one balanced transaction in a single
// database transaction.
func (r *JournalRepository) InsertGroup(ctx context.Context, entries []models.JournalEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range entries {
		result, err := sqlx.NamedExecContext(ctx, tx, insertJournalEntryQuery, &entries[i])
		if err != nil {
			return fmt.Errorf("failed to insert journal row %d: %w", i+1, err)
		}
		id, _ := result.LastInsertId()
		entries[i].ID = int(id)
	}

	return tx.Commit()
}

func (r *JournalRepository) FindByID(ctx context.Context, id int) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	query := "SELECT * FROM journal_entries WHERE id = ? LIMIT 1"
	err := r.db.GetContext(ctx, &entry, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *JournalRepository) Find(ctx context.Context, filter service.JournalFilter) ([]models.JournalEntry, error) {
	query := "SELECT * FROM journal_entries WHERE 1=1"
	args := []interface{}{}

	if filter.JournalType != "" {
		query += " AND journal_type = ?"
		args = append(args, filter.JournalType)
	}
	if filter.AccountCode != "" {
		query += " AND account_code = ?"
		args = append(args, filter.AccountCode)
	}
	if filter.RefCode != "" {
		query += " AND ref_code = ?"
		args = append(args, filter.RefCode)
	}
	if filter.StartDate != nil {
		query += " AND entry_date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND entry_date <= ?"
		args = append(args, *filter.EndDate)
	}
	query += " ORDER BY entry_date, id"

	var entries []models.JournalEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *JournalRepository) Update(ctx context.Context, entry *models.JournalEntry) error {
	query := `UPDATE journal_entries SET entry_date = :entry_date, account_code = :account_code,
	          account_name = :account_name, description = :description,
	          debit = :debit, credit = :credit
	          WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, r.db, query, entry)
	return err
}

func (r *JournalRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM journal_entries WHERE id = ?", id)
	return err
}

func (r *JournalRepository) DeleteByRefCode(ctx context.Context, refCode string) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM journal_entries WHERE ref_code = ?", refCode)
	if err != nil {
		return 0, err
	}
	deleted, _ := result.RowsAffected()
	return int(deleted), nil
}

func (r *JournalRepository) DeleteByRefPrefix(ctx context.Context, prefix string) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM journal_entries WHERE ref_code LIKE ?", prefix+"%")
	if err != nil {
		return 0, err
	}
	deleted, _ := result.RowsAffected()
	return int(deleted), nil
}
