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

// DocumentRepository persists estimates, invoices, proposals and
// orders. All four kinds share one table discriminated by the kind
// column; line items live in document_items keyed by position.
type DocumentRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a document and its items in one transaction
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		query := `
			INSERT INTO documents (
				company_id, kind, number, client_id, project_id, status, currency,
				sub_total, discount, discount_type, discount_amount, tax_amount, total,
				note, terms, description, valid_till, due_date, created_by,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query,
			doc.CompanyID,
			doc.Kind,
			doc.Number,
			doc.ClientID,
			doc.ProjectID,
			doc.Status,
			doc.Currency,
			decToDB(doc.SubTotal),
			decToDB(doc.Discount),
			doc.DiscountType,
			decToDB(doc.DiscountAmount),
			decToDB(doc.TaxAmount),
			decToDB(doc.Total),
			doc.Note,
			doc.Terms,
			doc.Description,
			timeToDB(doc.ValidTill),
			timeToDB(doc.DueDate),
			doc.CreatedBy,
			doc.CreatedAt,
			doc.UpdatedAt,
		)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		doc.ID = id

		return r.insertItems(ctx, tx, doc.ID, doc.Items)
	})
	if err != nil {
		r.logger.Error("Failed to create document",
			zap.String("kind", string(doc.Kind)),
			zap.Error(err))
		return fmt.Errorf("failed to create %s: %w", doc.Kind, err)
	}
	return nil
}

// GetByID retrieves a full document including items, scoped to the
// tenant. Returns nil when no matching record exists.
func (r *DocumentRepository) GetByID(ctx context.Context, id, companyID int64) (*entity.Document, error) {
	query := `
		SELECT id, company_id, kind, number, client_id, project_id, status, currency,
			sub_total, discount, discount_type, discount_amount, tax_amount, total,
			note, terms, description, valid_till, due_date, created_by,
			created_at, updated_at
		FROM documents
		WHERE id = ? AND company_id = ?
	`

	doc, err := r.scanDocument(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get document", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	items, err := r.loadItems(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Items = items
	return doc, nil
}

// List retrieves document summaries (no items) for one kind and
// tenant, applying the server-side filters
func (r *DocumentRepository) List(ctx context.Context, kind entity.DocumentKind, q ListQuery) ([]entity.Document, error) {
	query := `
		SELECT id, company_id, kind, number, client_id, project_id, status, currency,
			sub_total, discount, discount_type, discount_amount, tax_amount, total,
			note, terms, description, valid_till, due_date, created_by,
			created_at, updated_at
		FROM documents
		WHERE company_id = ? AND kind = ?
	`
	args := []any{q.CompanyID, kind}

	if q.Status != "" {
		query += " AND lower(status) = lower(?)"
		args = append(args, q.Status)
	}
	if q.Search != "" {
		query += " AND (lower(number) LIKE ? OR lower(description) LIKE ?)"
		like := "%" + q.Search + "%"
		args = append(args, like, like)
	}
	if q.DateFrom != nil {
		query += " AND created_at >= ?"
		args = append(args, q.DateFrom.UTC())
	}
	if q.DateTo != nil {
		query += " AND created_at <= ?"
		args = append(args, q.DateTo.UTC())
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list documents",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []entity.Document
	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// Update replaces the document and its items wholesale
func (r *DocumentRepository) Update(ctx context.Context, doc *entity.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		query := `
			UPDATE documents SET
				number = ?, client_id = ?, project_id = ?, status = ?, currency = ?,
				sub_total = ?, discount = ?, discount_type = ?, discount_amount = ?,
				tax_amount = ?, total = ?, note = ?, terms = ?, description = ?,
				valid_till = ?, due_date = ?, updated_at = ?
			WHERE id = ? AND company_id = ?
		`
		result, err := tx.ExecContext(ctx, query,
			doc.Number,
			doc.ClientID,
			doc.ProjectID,
			doc.Status,
			doc.Currency,
			decToDB(doc.SubTotal),
			decToDB(doc.Discount),
			doc.DiscountType,
			decToDB(doc.DiscountAmount),
			decToDB(doc.TaxAmount),
			decToDB(doc.Total),
			doc.Note,
			doc.Terms,
			doc.Description,
			timeToDB(doc.ValidTill),
			timeToDB(doc.DueDate),
			doc.UpdatedAt,
			doc.ID,
			doc.CompanyID,
		)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}

		// Items have positional identity only, so replace them as a block
		if _, err := tx.ExecContext(ctx, "DELETE FROM document_items WHERE document_id = ?", doc.ID); err != nil {
			return err
		}
		return r.insertItems(ctx, tx, doc.ID, doc.Items)
	})
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		r.logger.Error("Failed to update document", zap.Int64("id", doc.ID), zap.Error(err))
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

// Delete removes a document and its items, scoped to the tenant.
// Returns false when no matching record exists.
func (r *DocumentRepository) Delete(ctx context.Context, id, companyID int64) (bool, error) {
	var deleted bool
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"DELETE FROM documents WHERE id = ? AND company_id = ?", id, companyID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		deleted = true
		_, err = tx.ExecContext(ctx, "DELETE FROM document_items WHERE document_id = ?", id)
		return err
	})
	if err != nil {
		r.logger.Error("Failed to delete document", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return deleted, nil
}

func (r *DocumentRepository) insertItems(ctx context.Context, tx *sql.Tx, docID int64, items []entity.LineItem) error {
	query := `
		INSERT INTO document_items (
			document_id, position, item_name, description, quantity, unit,
			unit_price, tax_rate, amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, it := range items {
		_, err := tx.ExecContext(ctx, query,
			docID,
			i,
			it.ItemName,
			it.Description,
			decToDB(it.Quantity),
			it.Unit,
			decToDB(it.UnitPrice),
			decToDB(it.TaxRate),
			decToDB(it.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %d: %w", i, err)
		}
	}
	return nil
}

func (r *DocumentRepository) loadItems(ctx context.Context, docID int64) ([]entity.LineItem, error) {
	query := `
		SELECT item_name, description, quantity, unit, unit_price, tax_rate, amount
		FROM document_items
		WHERE document_id = ?
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	defer rows.Close()

	var items []entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		var quantity, unitPrice, taxRate, amount string
		if err := rows.Scan(&it.ItemName, &it.Description, &quantity, &it.Unit, &unitPrice, &taxRate, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		it.Quantity = decFromDB(quantity)
		it.UnitPrice = decFromDB(unitPrice)
		it.TaxRate = decFromDB(taxRate)
		it.Amount = decFromDB(amount)
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *DocumentRepository) scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var subTotal, discount, discountAmount, taxAmount, total string
	var validTill, dueDate sql.NullTime

	err := row.Scan(
		&doc.ID,
		&doc.CompanyID,
		&doc.Kind,
		&doc.Number,
		&doc.ClientID,
		&doc.ProjectID,
		&doc.Status,
		&doc.Currency,
		&subTotal,
		&discount,
		&doc.DiscountType,
		&discountAmount,
		&taxAmount,
		&total,
		&doc.Note,
		&doc.Terms,
		&doc.Description,
		&validTill,
		&dueDate,
		&doc.CreatedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.SubTotal = decFromDB(subTotal)
	doc.Discount = decFromDB(discount)
	doc.DiscountAmount = decFromDB(discountAmount)
	doc.TaxAmount = decFromDB(taxAmount)
	doc.Total = decFromDB(total)
	if validTill.Valid {
		doc.ValidTill = &validTill.Time
	}
	if dueDate.Valid {
		doc.DueDate = &dueDate.Time
	}
	return &doc, nil
}
