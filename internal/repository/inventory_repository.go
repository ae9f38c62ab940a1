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

const insertInventoryCardQuery = `
	INSERT INTO inventory_cards (entry_date, product_name, ref_code, description,
	        purchase_quantity, purchase_unit_price, purchase_amount,
	        sales_quantity, sales_unit_price, sales_amount,
	        balance_quantity, balance_unit_price, balance_amount, employee)
	VALUES (:entry_date, :product_name, :ref_code, :description,
	        :purchase_quantity, :purchase_unit_price, :purchase_amount,
	        :sales_quantity, :sales_unit_price, :sales_amount,
	        :balance_quantity, :balance_unit_price, :balance_amount, :employee)`

type InventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Insert(ctx context.Context, entry *models.InventoryCardEntry) error {
	result, err := sqlx.NamedExecContext(ctx, r.db, insertInventoryCardQuery, entry)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	entry.ID = int(id)
	return nil
}

// LastEntry returns the most recently inserted row for the product, which
// carries the current running balance.
func (r *InventoryRepository) LastEntry(ctx context.Context, productName string) (*models.InventoryCardEntry, error) {
	var entry models.InventoryCardEntry
	query := `SELECT * FROM inventory_cards WHERE product_name = ? ORDER BY id DESC LIMIT 1`
	err := r.db.GetContext(ctx, &entry, query, productName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *InventoryRepository) FindByID(ctx context.Context, id int) (*models.InventoryCardEntry, error) {
	var entry models.InventoryCardEntry
	query := "SELECT * FROM inventory_cards WHERE id = ? LIMIT 1"
	err := r.db.GetContext(ctx, &entry, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindAllChronological orders by date then insertion id — the replay
// order of the card recalculation.
func (r *InventoryRepository) FindAllChronological(ctx context.Context, productName string) ([]models.InventoryCardEntry, error) {
	var entries []models.InventoryCardEntry
	query := `SELECT * FROM inventory_cards WHERE product_name = ? ORDER BY entry_date, id`
	if err := r.db.SelectContext(ctx, &entries, query, productName); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *InventoryRepository) Update(ctx context.Context, entry *models.InventoryCardEntry) error {
	query := `UPDATE inventory_cards SET entry_date = :entry_date, description = :description,
	          purchase_quantity = :purchase_quantity, purchase_unit_price = :purchase_unit_price,
	          purchase_amount = :purchase_amount,
	          sales_quantity = :sales_quantity, sales_unit_price = :sales_unit_price,
	          sales_amount = :sales_amount,
	          balance_quantity = :balance_quantity, balance_unit_price = :balance_unit_price,
	          balance_amount = :balance_amount
	          WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, r.db, query, entry)
	return err
}

// UpdateBalances rewrites the balance columns of every given row in one
// transaction, as the final step of a card replay.
func (r *InventoryRepository) UpdateBalances(ctx context.Context, entries []models.InventoryCardEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE inventory_cards SET balance_quantity = :balance_quantity,
	          balance_unit_price = :balance_unit_price, balance_amount = :balance_amount
	          WHERE id = :id`
	for i := range entries {
		if _, err := sqlx.NamedExecContext(ctx, tx, query, &entries[i]); err != nil {
			return fmt.Errorf("failed to rewrite card row %d: %w", entries[i].ID, err)
		}
	}

	return tx.Commit()
}

func (r *InventoryRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM inventory_cards WHERE id = ?", id)
	return err
}

func (r *InventoryRepository) DeleteByRefCode(ctx context.Context, refCode string) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM inventory_cards WHERE ref_code = ?", refCode)
	if err != nil {
		return 0, err
	}
	deleted, _ := result.RowsAffected()
	return int(deleted), nil
}
