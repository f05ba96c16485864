package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// resource describes how one collection turns drafts into records
type resource[T any, D any] struct {
	table    *table[T]
	validate func(*D) error
	// build makes the stored record; prev is nil on create
	build func(id string, d D, prev *T, now time.Time) T
	// conflict reports a record that the new one may not coexist with
	conflict func(d D) func(T) bool
	now      func() time.Time
}

func mountResource[T any, D any](r chi.Router, path string, rs *resource[T, D]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", rs.list)
		r.Post("/", rs.create)
		r.Get("/{id}", rs.get)
		r.Put("/{id}", rs.update)
		r.Delete("/{id}", rs.delete)
	})
}

func (rs *resource[T, D]) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rs.table.list())
}

func (rs *resource[T, D]) get(w http.ResponseWriter, r *http.Request) {
	row, ok := rs.table.get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (rs *resource[T, D]) create(w http.ResponseWriter, r *http.Request) {
	draft, ok := rs.decode(w, r)
	if !ok {
		return
	}

	id := uuid.NewString()
	row := rs.build(id, draft, nil, rs.now().UTC())
	if !rs.table.putUnless(id, row, rs.conflictFor(draft)) {
		writeJSON(w, http.StatusConflict, errorResponse{Message: "a record with the same key already exists"})
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (rs *resource[T, D]) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prev, ok := rs.table.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
		return
	}

	draft, ok := rs.decode(w, r)
	if !ok {
		return
	}

	row := rs.build(id, draft, &prev, rs.now().UTC())
	if !rs.table.putUnless(id, row, rs.conflictFor(draft)) {
		writeJSON(w, http.StatusConflict, errorResponse{Message: "a record with the same key already exists"})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (rs *resource[T, D]) delete(w http.ResponseWriter, r *http.Request) {
	if !rs.table.remove(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rs *resource[T, D]) decode(w http.ResponseWriter, r *http.Request) (D, bool) {
	var draft D
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body"})
		return draft, false
	}
	if rs.validate != nil {
		if err := rs.validate(&draft); err != nil {
			writeValidation(w, err)
			return draft, false
		}
	}
	return draft, true
}

func (rs *resource[T, D]) conflictFor(d D) func(T) bool {
	if rs.conflict == nil {
		return nil
	}
	return rs.conflict(d)
}

func (s *Server) inventoryResource() *resource[domain.InventoryItem, domain.InventoryDraft] {
	return &resource[domain.InventoryItem, domain.InventoryDraft]{
		table: s.inventory,
		now:   s.opts.Now,
		validate: func(d *domain.InventoryDraft) error {
			return d.Validate(s.opts.Threshold)
		},
		build: func(id string, d domain.InventoryDraft, _ *domain.InventoryItem, now time.Time) domain.InventoryItem {
			return d.ToItem(id, now)
		},
		conflict: func(d domain.InventoryDraft) func(domain.InventoryItem) bool {
			return func(other domain.InventoryItem) bool {
				return strings.EqualFold(other.SKU, d.SKU)
			}
		},
	}
}

func (s *Server) supplierResource() *resource[domain.Supplier, domain.SupplierDraft] {
	return &resource[domain.Supplier, domain.SupplierDraft]{
		table:    s.suppliers,
		now:      s.opts.Now,
		validate: (*domain.SupplierDraft).Validate,
		build: func(id string, d domain.SupplierDraft, prev *domain.Supplier, now time.Time) domain.Supplier {
			sup := d.ToSupplier(id, now)
			if prev != nil {
				sup.CreatedAt = prev.CreatedAt
			}
			return sup
		},
		conflict: func(d domain.SupplierDraft) func(domain.Supplier) bool {
			return func(other domain.Supplier) bool {
				return strings.EqualFold(other.Email, d.Email)
			}
		},
	}
}

func (s *Server) transactionResource() *resource[domain.Transaction, domain.TransactionDraft] {
	return &resource[domain.Transaction, domain.TransactionDraft]{
		table:    s.transactions,
		now:      s.opts.Now,
		validate: (*domain.TransactionDraft).Validate,
		build: func(id string, d domain.TransactionDraft, prev *domain.Transaction, now time.Time) domain.Transaction {
			tx := d.ToTransaction(id, now)
			if prev != nil {
				tx.CreatedAt = prev.CreatedAt
			}
			return tx
		},
	}
}
