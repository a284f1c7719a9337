package restclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/crmdesk/internal/listctl"
)

type widget struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, nil)
}

func TestListUnwrapsEnvelope(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("company_id"))
		assert.Equal(t, "web", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Website"}]}`))
	})
	col := NewCollection[widget](client, "/widgets")

	got, err := col.List(context.Background(), listctl.Query{CompanyID: 3, Search: "web"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Website", got[0].Name)
}

// success:false is a failure even with HTTP 200
func TestFalseSuccessFlagIsFailure(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":false,"error":"record not found"}`))
	})
	col := NewCollection[widget](client, "/widgets")

	_, err := col.Get(context.Background(), 1, 3)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "record not found", apiErr.Message)
}

// A body with no success flag at all is treated the same as false
func TestMissingSuccessFlagIsFailure(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"gateway error"}`))
	})
	col := NewCollection[widget](client, "/widgets")

	_, err := col.Get(context.Background(), 1, 3)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "502", "fallback message carries the status code")
}

func TestNonJSONBodyIsTransportError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>proxy error</html>`))
	})
	col := NewCollection[widget](client, "/widgets")

	_, err := col.Get(context.Background(), 1, 3)

	var tErr *TransportError
	assert.ErrorAs(t, err, &tErr)
}

func TestConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening any more
	client := New(srv.URL, time.Second, nil)
	col := NewCollection[widget](client, "/widgets")

	_, err := col.Get(context.Background(), 1, 3)

	var tErr *TransportError
	assert.ErrorAs(t, err, &tErr)
}

func TestListRejectsInvalidTenantWithoutRequest(t *testing.T) {
	requested := false
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requested = true
	})
	col := NewCollection[widget](client, "/widgets")

	_, err := col.List(context.Background(), listctl.Query{CompanyID: 0})

	assert.ErrorIs(t, err, ErrInvalidTenant)
	assert.False(t, requested)
}

func TestCreatePostsAndUpdatePuts(t *testing.T) {
	var methods []string
	var paths []string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		paths = append(paths, r.URL.Path)

		var body widget
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		body.ID = 10
		resp, _ := json.Marshal(map[string]any{"success": true, "data": body})
		w.Write(resp)
	})
	col := NewCollection[widget](client, "/widgets")

	created, err := col.Create(context.Background(), widget{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)

	_, err = col.Update(context.Background(), 10, created)
	require.NoError(t, err)

	assert.Equal(t, []string{http.MethodPost, http.MethodPut}, methods)
	assert.Equal(t, []string{"/widgets", "/widgets/10"}, paths)
}

func TestDeleteScopedByTenant(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/widgets/4", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("company_id"))
		w.Write([]byte(`{"success":true}`))
	})
	col := NewCollection[widget](client, "/widgets")

	require.NoError(t, col.Delete(context.Background(), 4, 2))
	assert.ErrorIs(t, col.Delete(context.Background(), 4, 0), ErrInvalidTenant)
}

func TestFormBackendRoutesThroughCollection(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Equal(t, "/widgets/8", r.URL.Path)
			w.Write([]byte(`{"success":true,"data":{"id":8,"name":"loaded"}}`))
		case r.Method == http.MethodPut:
			w.Write([]byte(`{"success":true,"data":{"id":8,"name":"saved"}}`))
		}
	})
	backend := NewCollection[widget](client, "/widgets").FormBackend(2)

	loaded, err := backend.Load(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "loaded", loaded.Name)

	saved, err := backend.Update(context.Background(), 8, loaded)
	require.NoError(t, err)
	assert.Equal(t, "saved", saved.Name)
}
