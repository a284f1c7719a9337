package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
)

func samplePackage() *entity.Package {
	return &entity.Package{
		PackageName:       "Pro",
		Price:             decimal.NewFromInt(49),
		BillingCycle:      entity.CycleMonthly,
		Features:          []string{"unlimited invoices", "priority support"},
		Status:            entity.StatusActive,
		AssignedCompanies: []int64{2, 1},
	}
}

func TestPackageRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPackageRepository(db, zap.NewNop())
	ctx := context.Background()

	pkg := samplePackage()
	require.NoError(t, repo.Create(ctx, pkg))
	require.NotZero(t, pkg.ID)

	got, err := repo.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Pro", got.PackageName)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(49)))
	assert.Equal(t, []string{"unlimited invoices", "priority support"}, got.Features)
	assert.Equal(t, []int64{1, 2}, got.AssignedCompanies, "assignments come back sorted")
}

func TestPackageUpdateReplacesAssignments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPackageRepository(db, zap.NewNop())
	ctx := context.Background()

	pkg := samplePackage()
	require.NoError(t, repo.Create(ctx, pkg))

	pkg.Status = entity.StatusInactive
	pkg.AssignedCompanies = []int64{3}
	require.NoError(t, repo.Update(ctx, pkg))

	got, err := repo.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, entity.StatusInactive, got.Status)
	assert.Equal(t, []int64{3}, got.AssignedCompanies)
}

func TestPackageUpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPackageRepository(db, zap.NewNop())

	pkg := samplePackage()
	pkg.ID = 999
	err := repo.Update(context.Background(), pkg)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPackageListStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPackageRepository(db, zap.NewNop())
	ctx := context.Background()

	active := samplePackage()
	require.NoError(t, repo.Create(ctx, active))

	inactive := samplePackage()
	inactive.PackageName = "Legacy"
	inactive.Status = entity.StatusInactive
	require.NoError(t, repo.Create(ctx, inactive))

	got, err := repo.List(ctx, ListQuery{Status: "ACTIVE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pro", got[0].PackageName)
}

func TestPackageDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPackageRepository(db, zap.NewNop())
	ctx := context.Background()

	pkg := samplePackage()
	require.NoError(t, repo.Create(ctx, pkg))

	deleted, err := repo.Delete(ctx, pkg.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, pkg.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
