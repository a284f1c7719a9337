package restclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crmdesk/crmdesk/internal/formctl"
	"github.com/crmdesk/crmdesk/internal/listctl"
)

// Collection is the typed client for one entity collection, e.g.
// /estimates or /bank-accounts
type Collection[T any] struct {
	client *Client
	path   string
}

// NewCollection creates a typed collection client. path is the
// collection segment including the leading slash.
func NewCollection[T any](client *Client, path string) *Collection[T] {
	return &Collection[T]{client: client, path: path}
}

// List fetches records matching the query. An invalid company id
// short-circuits before any network call.
func (col *Collection[T]) List(ctx context.Context, q listctl.Query) ([]T, error) {
	if q.CompanyID <= 0 {
		return nil, ErrInvalidTenant
	}

	params := tenantQuery(q.CompanyID)
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.DateFrom != nil {
		params.Set("date_from", q.DateFrom.Format("2006-01-02"))
	}
	if q.DateTo != nil {
		params.Set("date_to", q.DateTo.Format("2006-01-02"))
	}

	var records []T
	if err := col.client.do(ctx, http.MethodGet, col.path, params, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get fetches one full record by id
func (col *Collection[T]) Get(ctx context.Context, id, companyID int64) (T, error) {
	var record T
	if companyID <= 0 {
		return record, ErrInvalidTenant
	}
	path := fmt.Sprintf("%s/%d", col.path, id)
	if err := col.client.do(ctx, http.MethodGet, path, tenantQuery(companyID), nil, &record); err != nil {
		return record, err
	}
	return record, nil
}

// Create posts a new record and returns the stored version
func (col *Collection[T]) Create(ctx context.Context, record T) (T, error) {
	var saved T
	if err := col.client.do(ctx, http.MethodPost, col.path, nil, record, &saved); err != nil {
		return saved, err
	}
	return saved, nil
}

// Update replaces a record wholesale, items included
func (col *Collection[T]) Update(ctx context.Context, id int64, record T) (T, error) {
	var saved T
	path := fmt.Sprintf("%s/%d", col.path, id)
	if err := col.client.do(ctx, http.MethodPut, path, nil, record, &saved); err != nil {
		return saved, err
	}
	return saved, nil
}

// Delete removes a record. The company id scopes the delete; another
// tenant's record is reported as not found.
func (col *Collection[T]) Delete(ctx context.Context, id, companyID int64) error {
	if companyID <= 0 {
		return ErrInvalidTenant
	}
	path := fmt.Sprintf("%s/%d", col.path, id)
	return col.client.do(ctx, http.MethodDelete, path, tenantQuery(companyID), nil, nil)
}

// Fetcher adapts the collection to a list controller fetcher
func (col *Collection[T]) Fetcher() listctl.Fetcher[T] {
	return listctl.FetcherFunc[T](func(ctx context.Context, q listctl.Query) ([]T, error) {
		return col.List(ctx, q)
	})
}

// FormBackend adapts the collection to a form controller backend
// scoped to one tenant
func (col *Collection[T]) FormBackend(companyID int64) formctl.Backend[T] {
	return &collectionBackend[T]{col: col, companyID: companyID}
}

type collectionBackend[T any] struct {
	col       *Collection[T]
	companyID int64
}

func (b *collectionBackend[T]) Load(ctx context.Context, id int64) (T, error) {
	return b.col.Get(ctx, id, b.companyID)
}

func (b *collectionBackend[T]) Create(ctx context.Context, record T) (T, error) {
	return b.col.Create(ctx, record)
}

func (b *collectionBackend[T]) Update(ctx context.Context, id int64, record T) (T, error) {
	return b.col.Update(ctx, id, record)
}
