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

// PackageRepository persists subscription packages. Packages are not
// tenant-scoped themselves; the package_companies join records which
// companies each one is assigned to.
type PackageRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *database.DB, logger *zap.Logger) *PackageRepository {
	return &PackageRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a package and its company assignments
func (r *PackageRepository) Create(ctx context.Context, pkg *entity.Package) error {
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	features, err := sliceToDB(pkg.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}

	err = r.db.WithTransaction(func(tx *sql.Tx) error {
		query := `
			INSERT INTO packages (
				package_name, price, billing_cycle, features, status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query,
			pkg.PackageName,
			decToDB(pkg.Price),
			pkg.BillingCycle,
			features,
			pkg.Status,
			pkg.CreatedAt,
			pkg.UpdatedAt,
		)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		pkg.ID = id
		return r.replaceAssignments(ctx, tx, pkg.ID, pkg.AssignedCompanies)
	})
	if err != nil {
		r.logger.Error("Failed to create package", zap.Error(err))
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

// GetByID retrieves a package with its assignments, nil if absent
func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*entity.Package, error) {
	query := selectPackage + " WHERE id = ?"

	pkg, err := scanPackage(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get package", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	pkg.AssignedCompanies, err = r.loadAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// List retrieves packages with optional search and status filters
func (r *PackageRepository) List(ctx context.Context, q ListQuery) ([]entity.Package, error) {
	query := selectPackage + " WHERE 1=1"
	var args []any

	if q.Status != "" {
		query += " AND lower(status) = lower(?)"
		args = append(args, q.Status)
	}
	if q.Search != "" {
		query += " AND lower(package_name) LIKE ?"
		args = append(args, "%"+q.Search+"%")
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list packages", zap.Error(err))
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	var packages []entity.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, *pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range packages {
		packages[i].AssignedCompanies, err = r.loadAssignments(ctx, packages[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return packages, nil
}

// Update replaces a package and its assignments wholesale
func (r *PackageRepository) Update(ctx context.Context, pkg *entity.Package) error {
	pkg.UpdatedAt = time.Now().UTC()

	features, err := sliceToDB(pkg.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}

	err = r.db.WithTransaction(func(tx *sql.Tx) error {
		query := `
			UPDATE packages SET
				package_name = ?, price = ?, billing_cycle = ?, features = ?,
				status = ?, updated_at = ?
			WHERE id = ?
		`
		result, err := tx.ExecContext(ctx, query,
			pkg.PackageName,
			decToDB(pkg.Price),
			pkg.BillingCycle,
			features,
			pkg.Status,
			pkg.UpdatedAt,
			pkg.ID,
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
		return r.replaceAssignments(ctx, tx, pkg.ID, pkg.AssignedCompanies)
	})
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		r.logger.Error("Failed to update package", zap.Int64("id", pkg.ID), zap.Error(err))
		return fmt.Errorf("failed to update package: %w", err)
	}
	return nil
}

// Delete removes a package and its assignments
func (r *PackageRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM packages WHERE id = ?", id)
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
		_, err = tx.ExecContext(ctx, "DELETE FROM package_companies WHERE package_id = ?", id)
		return err
	})
	if err != nil {
		r.logger.Error("Failed to delete package", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete package: %w", err)
	}
	return deleted, nil
}

func (r *PackageRepository) replaceAssignments(ctx context.Context, tx *sql.Tx, pkgID int64, companies []int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM package_companies WHERE package_id = ?", pkgID); err != nil {
		return err
	}
	for _, companyID := range companies {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO package_companies (package_id, company_id) VALUES (?, ?)", pkgID, companyID)
		if err != nil {
			return fmt.Errorf("failed to assign company %d: %w", companyID, err)
		}
	}
	return nil
}

func (r *PackageRepository) loadAssignments(ctx context.Context, pkgID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT company_id FROM package_companies WHERE package_id = ? ORDER BY company_id", pkgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	defer rows.Close()

	var companies []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		companies = append(companies, id)
	}
	return companies, rows.Err()
}

const selectPackage = `
	SELECT id, package_name, price, billing_cycle, features, status, created_at, updated_at
	FROM packages`

func scanPackage(row rowScanner) (*entity.Package, error) {
	var pkg entity.Package
	var price, features string

	err := row.Scan(
		&pkg.ID,
		&pkg.PackageName,
		&price,
		&pkg.BillingCycle,
		&features,
		&pkg.Status,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	pkg.Price = decFromDB(price)
	pkg.Features = sliceFromDB[string](features)
	return &pkg, nil
}
