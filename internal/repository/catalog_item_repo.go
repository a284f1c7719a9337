package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/pkg/database"
	"go.uber.org/zap"
)

// CatalogItemRepository persists the stored items used to seed
// document line items
type CatalogItemRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCatalogItemRepository creates a new catalog item repository
func NewCatalogItemRepository(db *database.DB, logger *zap.Logger) *CatalogItemRepository {
	return &CatalogItemRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a catalog item
func (r *CatalogItemRepository) Create(ctx context.Context, item *entity.CatalogItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO catalog_items (
			company_id, item_name, description, unit, unit_price, tax_rate,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		item.CompanyID,
		item.ItemName,
		item.Description,
		item.Unit,
		decToDB(item.UnitPrice),
		decToDB(item.TaxRate),
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create catalog item", zap.Error(err))
		return fmt.Errorf("failed to create catalog item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

// GetByID retrieves a catalog item scoped to the tenant, nil if absent
func (r *CatalogItemRepository) GetByID(ctx context.Context, id, companyID int64) (*entity.CatalogItem, error) {
	query := selectCatalogItem + " WHERE id = ? AND company_id = ?"

	item, err := scanCatalogItem(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get catalog item", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}
	return item, nil
}

// List retrieves catalog items for one tenant with optional search
func (r *CatalogItemRepository) List(ctx context.Context, q ListQuery) ([]entity.CatalogItem, error) {
	query := selectCatalogItem + " WHERE company_id = ?"
	args := []any{q.CompanyID}

	if q.Search != "" {
		query += " AND lower(item_name) LIKE ?"
		args = append(args, "%"+q.Search+"%")
	}
	query += " ORDER BY item_name COLLATE NOCASE"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list catalog items", zap.Error(err))
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	defer rows.Close()

	var items []entity.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Update replaces a catalog item's fields
func (r *CatalogItemRepository) Update(ctx context.Context, item *entity.CatalogItem) error {
	item.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE catalog_items SET
			item_name = ?, description = ?, unit = ?, unit_price = ?, tax_rate = ?, updated_at = ?
		WHERE id = ? AND company_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		item.ItemName,
		item.Description,
		item.Unit,
		decToDB(item.UnitPrice),
		decToDB(item.TaxRate),
		item.UpdatedAt,
		item.ID,
		item.CompanyID,
	)
	if err != nil {
		r.logger.Error("Failed to update catalog item", zap.Int64("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to update catalog item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a catalog item scoped to the tenant
func (r *CatalogItemRepository) Delete(ctx context.Context, id, companyID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM catalog_items WHERE id = ? AND company_id = ?", id, companyID)
	if err != nil {
		r.logger.Error("Failed to delete catalog item", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete catalog item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const selectCatalogItem = `
	SELECT id, company_id, item_name, description, unit, unit_price, tax_rate,
		created_at, updated_at
	FROM catalog_items`

func scanCatalogItem(row rowScanner) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	var unitPrice, taxRate string

	err := row.Scan(
		&item.ID,
		&item.CompanyID,
		&item.ItemName,
		&item.Description,
		&item.Unit,
		&unitPrice,
		&taxRate,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.UnitPrice = decFromDB(unitPrice)
	item.TaxRate = decFromDB(taxRate)
	return &item, nil
}
