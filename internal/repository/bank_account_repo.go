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

// BankAccountRepository persists bank accounts
type BankAccountRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewBankAccountRepository creates a new bank account repository
func NewBankAccountRepository(db *database.DB, logger *zap.Logger) *BankAccountRepository {
	return &BankAccountRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a bank account
func (r *BankAccountRepository) Create(ctx context.Context, acc *entity.BankAccount) error {
	now := time.Now().UTC()
	acc.CreatedAt = now
	acc.UpdatedAt = now

	query := `
		INSERT INTO bank_accounts (
			company_id, account_name, account_number, bank_name, account_type,
			currency, opening_balance, current_balance, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		acc.CompanyID,
		acc.AccountName,
		acc.AccountNumber,
		acc.BankName,
		acc.AccountType,
		acc.Currency,
		decToDB(acc.OpeningBalance),
		decToDB(acc.CurrentBalance),
		acc.Status,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create bank account", zap.Error(err))
		return fmt.Errorf("failed to create bank account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	acc.ID = id
	return nil
}

// GetByID retrieves a bank account scoped to the tenant, nil if absent
func (r *BankAccountRepository) GetByID(ctx context.Context, id, companyID int64) (*entity.BankAccount, error) {
	query := selectBankAccount + " WHERE id = ? AND company_id = ?"

	acc, err := scanBankAccount(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get bank account", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return acc, nil
}

// List retrieves bank accounts for one tenant with optional filters
func (r *BankAccountRepository) List(ctx context.Context, q ListQuery) ([]entity.BankAccount, error) {
	query := selectBankAccount + " WHERE company_id = ?"
	args := []any{q.CompanyID}

	if q.Status != "" {
		query += " AND lower(status) = lower(?)"
		args = append(args, q.Status)
	}
	if q.Search != "" {
		query += " AND (lower(account_name) LIKE ? OR lower(bank_name) LIKE ? OR account_number LIKE ?)"
		like := "%" + q.Search + "%"
		args = append(args, like, like, like)
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list bank accounts", zap.Error(err))
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []entity.BankAccount
	for rows.Next() {
		acc, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// Update replaces a bank account's fields
func (r *BankAccountRepository) Update(ctx context.Context, acc *entity.BankAccount) error {
	acc.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE bank_accounts SET
			account_name = ?, account_number = ?, bank_name = ?, account_type = ?,
			currency = ?, opening_balance = ?, current_balance = ?, status = ?, updated_at = ?
		WHERE id = ? AND company_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		acc.AccountName,
		acc.AccountNumber,
		acc.BankName,
		acc.AccountType,
		acc.Currency,
		decToDB(acc.OpeningBalance),
		decToDB(acc.CurrentBalance),
		acc.Status,
		acc.UpdatedAt,
		acc.ID,
		acc.CompanyID,
	)
	if err != nil {
		r.logger.Error("Failed to update bank account", zap.Int64("id", acc.ID), zap.Error(err))
		return fmt.Errorf("failed to update bank account: %w", err)
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

// Delete removes a bank account scoped to the tenant
func (r *BankAccountRepository) Delete(ctx context.Context, id, companyID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM bank_accounts WHERE id = ? AND company_id = ?", id, companyID)
	if err != nil {
		r.logger.Error("Failed to delete bank account", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete bank account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const selectBankAccount = `
	SELECT id, company_id, account_name, account_number, bank_name, account_type,
		currency, opening_balance, current_balance, status, created_at, updated_at
	FROM bank_accounts`

func scanBankAccount(row rowScanner) (*entity.BankAccount, error) {
	var acc entity.BankAccount
	var opening, current string

	err := row.Scan(
		&acc.ID,
		&acc.CompanyID,
		&acc.AccountName,
		&acc.AccountNumber,
		&acc.BankName,
		&acc.AccountType,
		&acc.Currency,
		&opening,
		&current,
		&acc.Status,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	acc.OpeningBalance = decFromDB(opening)
	acc.CurrentBalance = decFromDB(current)
	return &acc, nil
}
