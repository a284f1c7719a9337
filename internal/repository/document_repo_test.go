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
	"github.com/crmdesk/crmdesk/pkg/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.NewInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.RunMigrations("../../migrations"))
	return db
}

func sampleDocument(companyID int64) *entity.Document {
	return &entity.Document{
		CompanyID:    companyID,
		Kind:         entity.KindEstimate,
		Number:       "EST-001",
		ClientID:     1,
		Status:       entity.StatusDraft,
		Currency:     "USD",
		DiscountType: entity.DiscountPercent,
		Items: []entity.LineItem{
			{ItemName: "Design", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500), Amount: decimal.NewFromInt(500)},
			{ItemName: "Hosting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(20), Amount: decimal.NewFromInt(40)},
		},
		SubTotal: decimal.NewFromInt(540),
		Total:    decimal.NewFromInt(540),
	}
}

func TestDocumentCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	ctx := context.Background()

	doc := sampleDocument(1)
	require.NoError(t, repo.Create(ctx, doc))
	require.NotZero(t, doc.ID)

	got, err := repo.GetByID(ctx, doc.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "EST-001", got.Number)
	assert.Equal(t, entity.KindEstimate, got.Kind)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(540)), "total %s", got.Total)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "Design", got.Items[0].ItemName, "items keep their position")
	assert.Equal(t, "Hosting", got.Items[1].ItemName)
	assert.True(t, got.Items[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestDocumentGetScopedToTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	ctx := context.Background()

	doc := sampleDocument(1)
	require.NoError(t, repo.Create(ctx, doc))

	got, err := repo.GetByID(ctx, doc.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, got, "another tenant's document must read as absent")
}

func TestDocumentListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	ctx := context.Background()

	draft := sampleDocument(1)
	require.NoError(t, repo.Create(ctx, draft))

	sent := sampleDocument(1)
	sent.Number = "EST-002"
	sent.Status = entity.StatusSent
	require.NoError(t, repo.Create(ctx, sent))

	other := sampleDocument(2)
	require.NoError(t, repo.Create(ctx, other))

	invoice := sampleDocument(1)
	invoice.Kind = entity.KindInvoice
	invoice.Number = "INV-001"
	require.NoError(t, repo.Create(ctx, invoice))

	// Tenant and kind scoping
	docs, err := repo.List(ctx, entity.KindEstimate, ListQuery{CompanyID: 1})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "EST-002", docs[0].Number, "newest first")

	// Status filter ignores stored casing
	docs, err = repo.List(ctx, entity.KindEstimate, ListQuery{CompanyID: 1, Status: "sent"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "EST-002", docs[0].Number)

	// Search matches the document number
	docs, err = repo.List(ctx, entity.KindEstimate, ListQuery{CompanyID: 1, Search: "est-001"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "EST-001", docs[0].Number)

	// Summaries carry no items
	assert.Empty(t, docs[0].Items)
}

func TestDocumentUpdateReplacesItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	ctx := context.Background()

	doc := sampleDocument(1)
	require.NoError(t, repo.Create(ctx, doc))

	doc.Status = entity.StatusSent
	doc.Items = []entity.LineItem{
		{ItemName: "Only one now", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(99), Amount: decimal.NewFromInt(99)},
	}
	require.NoError(t, repo.Update(ctx, doc))

	got, err := repo.GetByID(ctx, doc.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, entity.StatusSent, got.Status)
	require.Len(t, got.Items, 1, "old items must not survive a full replace")
	assert.Equal(t, "Only one now", got.Items[0].ItemName)
}

func TestDocumentUpdateWrongTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	ctx := context.Background()

	doc := sampleDocument(1)
	require.NoError(t, repo.Create(ctx, doc))

	doc.CompanyID = 2
	err := repo.Update(ctx, doc)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDocumentDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	ctx := context.Background()

	doc := sampleDocument(1)
	require.NoError(t, repo.Create(ctx, doc))

	deleted, err := repo.Delete(ctx, doc.ID, 2)
	require.NoError(t, err)
	assert.False(t, deleted, "delete is tenant-scoped")

	deleted, err = repo.Delete(ctx, doc.ID, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := repo.GetByID(ctx, doc.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
