package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
)

const updateAssetQuery = `
	UPDATE assets SET asset_name = :asset_name, asset_code = :asset_code,
	       cost = :cost, salvage_value = :salvage_value, useful_life = :useful_life,
	       depreciation_method = :depreciation_method, purchase_date = :purchase_date,
	       accumulated_depreciation = :accumulated_depreciation, book_value = :book_value
	WHERE id = :id`

type AssetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Insert(ctx context.Context, asset *models.Asset) error {
	query := `INSERT INTO assets (asset_name, asset_code, cost, salvage_value, useful_life,
	          depreciation_method, purchase_date, accumulated_depreciation, book_value)
	          VALUES (:asset_name, :asset_code, :cost, :salvage_value, :useful_life,
	          :depreciation_method, :purchase_date, :accumulated_depreciation, :book_value)`
	result, err := sqlx.NamedExecContext(ctx, r.db, query, asset)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	asset.ID = int(id)
	return nil
}

func (r *AssetRepository) FindByID(ctx context.Context, id int) (*models.Asset, error) {
	var asset models.Asset
	query := "SELECT * FROM assets WHERE id = ? LIMIT 1"
	err := r.db.GetContext(ctx, &asset, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *AssetRepository) FindAll(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	query := "SELECT * FROM assets ORDER BY purchase_date, id"
	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *AssetRepository) Update(ctx context.Context, asset *models.Asset) error {
	_, err := sqlx.NamedExecContext(ctx, r.db, updateAssetQuery, asset)
	return err
}

func (r *AssetRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	return err
}
