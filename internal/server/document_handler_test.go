package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/pkg/database"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	db, err := database.NewInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.RunMigrations("../../migrations"))

	return NewRouter(db, logger)
}

type documentEnvelope struct {
	Success bool            `json:"success"`
	Data    entity.Document `json:"data"`
	Error   string          `json:"error"`
}

type documentListEnvelope struct {
	Success bool              `json:"success"`
	Data    []entity.Document `json:"data"`
	Error   string            `json:"error"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createEstimate(t *testing.T, router *gin.Engine) entity.Document {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/estimates", map[string]any{
		"company_id": 1,
		"number":     "EST-001",
		"client_id":  2,
		"discount":   10,
		"discount_type": "%",
		"items": []map[string]any{
			// Stale derived amount must be ignored and recomputed
			{"item_name": "Design", "quantity": 1, "unit_price": 500, "amount": 999},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env documentEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)
	return env.Data
}

func TestListRejectsMissingCompanyID(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{
		"/api/v1/estimates",
		"/api/v1/estimates?company_id=0",
		"/api/v1/estimates?company_id=abc",
	} {
		w := doJSON(t, router, http.MethodGet, path, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)

		var env documentListEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Success)
		assert.Equal(t, "invalid company_id", env.Error)
	}
}

func TestCreateEstimateComputesDerivedFields(t *testing.T) {
	router := setupRouter(t)

	doc := createEstimate(t, router)

	require.NotZero(t, doc.ID)
	require.Len(t, doc.Items, 1)
	assert.True(t, doc.Items[0].Amount.Equal(decimal.NewFromInt(500)),
		"amount %s", doc.Items[0].Amount)
	assert.True(t, doc.SubTotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, doc.DiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, doc.Total.Equal(decimal.NewFromInt(450)), "total %s", doc.Total)
	assert.Equal(t, entity.StatusDraft, doc.Status, "status defaults to draft")
}

func TestCreatedRecordAppearsInList(t *testing.T) {
	router := setupRouter(t)
	created := createEstimate(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/estimates?company_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env documentListEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)
	require.Len(t, env.Data, 1)
	assert.Equal(t, created.ID, env.Data[0].ID)
	assert.Equal(t, "EST-001", env.Data[0].Number)

	// Another tenant sees nothing
	w = doJSON(t, router, http.MethodGet, "/api/v1/estimates?company_id=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Empty(t, env.Data)
}

func TestCreateRequiresClient(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/estimates", map[string]any{
		"company_id": 1,
		"number":     "EST-002",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env documentEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "client_id is required", env.Error)
}

func TestUpdateReplacesWholeDocument(t *testing.T) {
	router := setupRouter(t)
	created := createEstimate(t, router)

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/estimates/%d", created.ID), map[string]any{
		"company_id": 1,
		"number":     "EST-001",
		"client_id":  2,
		"status":     "sent",
		"items": []map[string]any{
			{"item_name": "Design", "quantity": 2, "unit_price": 500},
			{"item_name": "Hosting", "quantity": 1, "unit_price": 20},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env documentEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)
	assert.Equal(t, entity.StatusSent, env.Data.Status, "status casing normalized on write")
	require.Len(t, env.Data.Items, 2)
	assert.True(t, env.Data.Total.Equal(decimal.NewFromInt(1020)), "total %s", env.Data.Total)

	// The stored record matches what the update returned
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/estimates/%d?company_id=1", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 2)
	assert.Equal(t, "Hosting", env.Data.Items[1].ItemName)
}

func TestUpdateMissingRecord(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/estimates/999", map[string]any{
		"company_id": 1,
		"client_id":  2,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteScopedToTenant(t *testing.T) {
	router := setupRouter(t)
	created := createEstimate(t, router)

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/estimates/%d?company_id=2", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/estimates/%d?company_id=1", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/estimates/%d?company_id=1", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKindsAreSeparateCollections(t *testing.T) {
	router := setupRouter(t)
	createEstimate(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/invoices?company_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env documentListEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Empty(t, env.Data, "an estimate must not surface under /invoices")
}
