package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pembukuan-web/internal/models"
)

// PostingRepository wraps the multi-table write sequences that must be
// all-or-nothing: a sale's ticket, journal rows and inventory card rows,
// and a depreciation run's journal rows plus the asset update.
type PostingRepository struct {
	db *sqlx.DB
}

func NewPostingRepository(db *sqlx.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

// PostSale writes the ticket, its journal rows and its inventory card
// rows in one transaction.
func (r *PostingRepository) PostSale(ctx context.Context, sale *models.SaleTransaction, entries []models.JournalEntry, cards []models.InventoryCardEntry) error {
	if err := marshalItems(sale); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := sqlx.NamedExecContext(ctx, tx, insertSaleQuery, sale); err != nil {
		return fmt.Errorf("failed to insert sale ticket: %w", err)
	}
	for i := range entries {
		result, err := sqlx.NamedExecContext(ctx, tx, insertJournalEntryQuery, &entries[i])
		if err != nil {
			return fmt.Errorf("failed to insert journal row %d: %w", i+1, err)
		}
		id, _ := result.LastInsertId()
		entries[i].ID = int(id)
	}
	for i := range cards {
		result, err := sqlx.NamedExecContext(ctx, tx, insertInventoryCardQuery, &cards[i])
		if err != nil {
			return fmt.Errorf("failed to insert inventory card row %d: %w", i+1, err)
		}
		id, _ := result.LastInsertId()
		cards[i].ID = int(id)
	}

	return tx.Commit()
}

// PostDepreciation writes the adjusting entries and the updated asset in
// one transaction.
func (r *PostingRepository) PostDepreciation(ctx context.Context, entries []models.JournalEntry, asset *models.Asset) error {
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
	if _, err := sqlx.NamedExecContext(ctx, tx, updateAssetQuery, asset); err != nil {
		return fmt.Errorf("failed to update asset %d: %w", asset.ID, err)
	}

	return tx.Commit()
}
