package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
)

const insertSaleQuery = `
	INSERT INTO sale_transactions (transaction_code, sale_date, items, total_amount, cashier_username)
	VALUES (:transaction_code, :sale_date, :items, :total_amount, :cashier_username)`

type SaleRepository struct {
	db *sqlx.DB
}

func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func marshalItems(sale *models.SaleTransaction) error {
	raw, err := json.Marshal(sale.Items)
	if err != nil {
		return fmt.Errorf("failed to serialize sale items: %w", err)
	}
	sale.ItemsJSON = string(raw)
	return nil
}

func unmarshalItems(sale *models.SaleTransaction) error {
	if sale.ItemsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(sale.ItemsJSON), &sale.Items); err != nil {
		return fmt.Errorf("failed to parse sale items: %w", err)
	}
	return nil
}

func (r *SaleRepository) Insert(ctx context.Context, sale *models.SaleTransaction) error {
	if err := marshalItems(sale); err != nil {
		return err
	}
	_, err := sqlx.NamedExecContext(ctx, r.db, insertSaleQuery, sale)
	return err
}

// CountByDate returns how many tickets exist for the calendar day, which
// drives the daily transaction-code sequence.
func (r *SaleRepository) CountByDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM sale_transactions WHERE DATE(sale_date) = ?"
	if err := r.db.GetContext(ctx, &count, query, date.Format("2006-01-02")); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SaleRepository) FindByCode(ctx context.Context, code string) (*models.SaleTransaction, error) {
	var sale models.SaleTransaction
	query := "SELECT * FROM sale_transactions WHERE transaction_code = ? LIMIT 1"
	err := r.db.GetContext(ctx, &sale, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalItems(&sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *SaleRepository) FindAll(ctx context.Context, limit, offset int) ([]models.SaleTransaction, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sale_transactions"); err != nil {
		return nil, 0, err
	}

	var sales []models.SaleTransaction
	query := "SELECT * FROM sale_transactions ORDER BY sale_date DESC, transaction_code DESC LIMIT ? OFFSET ?"
	if err := r.db.SelectContext(ctx, &sales, query, limit, offset); err != nil {
		return nil, 0, err
	}
	for i := range sales {
		if err := unmarshalItems(&sales[i]); err != nil {
			return nil, 0, err
		}
	}
	return sales, total, nil
}

func (r *SaleRepository) Delete(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sale_transactions WHERE transaction_code = ?", code)
	return err
}
