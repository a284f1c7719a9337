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

// ClientRepository persists customer records
type ClientRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *database.DB, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a client
func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `
		INSERT INTO clients (
			company_id, name, company_name, email, phone, address, currency,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		client.CompanyID,
		client.Name,
		client.CompanyName,
		client.Email,
		client.Phone,
		client.Address,
		client.Currency,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create client", zap.Error(err))
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	client.ID = id
	return nil
}

// GetByID retrieves a client scoped to the tenant, nil if absent
func (r *ClientRepository) GetByID(ctx context.Context, id, companyID int64) (*entity.Client, error) {
	query := selectClient + " WHERE id = ? AND company_id = ?"

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get client", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// List retrieves clients for one tenant with optional search
func (r *ClientRepository) List(ctx context.Context, q ListQuery) ([]entity.Client, error) {
	query := selectClient + " WHERE company_id = ?"
	args := []any{q.CompanyID}

	if q.Search != "" {
		query += " AND (lower(name) LIKE ? OR lower(company_name) LIKE ? OR lower(email) LIKE ?)"
		like := "%" + q.Search + "%"
		args = append(args, like, like, like)
	}
	query += " ORDER BY name COLLATE NOCASE"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []entity.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *client)
	}
	return clients, rows.Err()
}

// Update replaces a client's fields
func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	client.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE clients SET
			name = ?, company_name = ?, email = ?, phone = ?, address = ?,
			currency = ?, updated_at = ?
		WHERE id = ? AND company_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.CompanyName,
		client.Email,
		client.Phone,
		client.Address,
		client.Currency,
		client.UpdatedAt,
		client.ID,
		client.CompanyID,
	)
	if err != nil {
		r.logger.Error("Failed to update client", zap.Int64("id", client.ID), zap.Error(err))
		return fmt.Errorf("failed to update client: %w", err)
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

// Delete removes a client scoped to the tenant
func (r *ClientRepository) Delete(ctx context.Context, id, companyID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM clients WHERE id = ? AND company_id = ?", id, companyID)
	if err != nil {
		r.logger.Error("Failed to delete client", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete client: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const selectClient = `
	SELECT id, company_id, name, company_name, email, phone, address, currency,
		created_at, updated_at
	FROM clients`

func scanClient(row rowScanner) (*entity.Client, error) {
	var client entity.Client
	err := row.Scan(
		&client.ID,
		&client.CompanyID,
		&client.Name,
		&client.CompanyName,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.Currency,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &client, nil
}
