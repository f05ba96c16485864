package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// Collection paths of the backend
const (
	PathInventory    = "inventory"
	PathSuppliers    = "suppliers"
	PathTransactions = "transactions"
)

// Resource is the REST client of one backend collection
type Resource[T any, D any] struct {
	client *Client
	path   string
}

// Statically assert that the resources implement their ports
var (
	_ ports.InventoryAPI   = (*Resource[domain.InventoryItem, domain.InventoryDraft])(nil)
	_ ports.SupplierAPI    = (*Resource[domain.Supplier, domain.SupplierDraft])(nil)
	_ ports.TransactionAPI = (*Resource[domain.Transaction, domain.TransactionDraft])(nil)
)

// NewResource creates a client for the collection at path
func NewResource[T any, D any](client *Client, path string) *Resource[T, D] {
	return &Resource[T, D]{client: client, path: path}
}

// NewInventoryAPI returns the /inventory client
func NewInventoryAPI(client *Client) *Resource[domain.InventoryItem, domain.InventoryDraft] {
	return NewResource[domain.InventoryItem, domain.InventoryDraft](client, PathInventory)
}

// NewSupplierAPI returns the /suppliers client
func NewSupplierAPI(client *Client) *Resource[domain.Supplier, domain.SupplierDraft] {
	return NewResource[domain.Supplier, domain.SupplierDraft](client, PathSuppliers)
}

// NewTransactionAPI returns the /transactions client
func NewTransactionAPI(client *Client) *Resource[domain.Transaction, domain.TransactionDraft] {
	return NewResource[domain.Transaction, domain.TransactionDraft](client, PathTransactions)
}

// List fetches the whole collection
func (r *Resource[T, D]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get fetches a single entity
func (r *Resource[T, D]) Get(ctx context.Context, id string) (T, error) {
	var out T
	target, err := r.itemPath(id)
	if err != nil {
		return out, err
	}
	err = r.client.Do(ctx, http.MethodGet, target, nil, &out)
	return out, err
}

// Create posts a draft and returns the entity with server-assigned fields
func (r *Resource[T, D]) Create(ctx context.Context, draft D) (T, error) {
	var out T
	err := r.client.Do(ctx, http.MethodPost, r.path, draft, &out)
	return out, err
}

// Update replaces the entity with the draft fields and returns the server's echo
func (r *Resource[T, D]) Update(ctx context.Context, id string, draft D) (T, error) {
	var out T
	target, err := r.itemPath(id)
	if err != nil {
		return out, err
	}
	body, err := withID(id, draft)
	if err != nil {
		return out, err
	}
	err = r.client.Do(ctx, http.MethodPut, target, body, &out)
	return out, err
}

// Delete removes the entity; any response body is ignored
func (r *Resource[T, D]) Delete(ctx context.Context, id string) error {
	target, err := r.itemPath(id)
	if err != nil {
		return err
	}
	return r.client.Do(ctx, http.MethodDelete, target, nil, nil)
}

// itemPath escapes id as one path segment. Dot segments are rejected because
// the joined URL would be cleaned to the collection or the base URL.
func (r *Resource[T, D]) itemPath(id string) (string, error) {
	switch id {
	case "", ".", "..":
		verr := &domain.ValidationError{}
		verr.Add("id", "is not a valid record id")
		return "", verr
	}
	return r.path + "/" + url.PathEscape(id), nil
}

// withID renders the draft as a full record carrying its id
func withID(id string, draft any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	idJSON, _ := json.Marshal(id)
	fields["id"] = idJSON
	return fields, nil
}
