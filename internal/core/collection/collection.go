package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/ammerola/stockroom/internal/core/ports"
)

// ErrClosed is returned by operations on a closed view-model
var ErrClosed = errors.New("collection view closed")

// ProvisionalPrefix marks client-side ids of records awaiting server confirmation
const ProvisionalPrefix = "tmp-"

// Config wires a view-model to its backend resource and entity schema
type Config[T any, D any] struct {
	Name        string
	API         ports.ResourceAPI[T, D]
	Schema      Schema[T]
	Validate    func(*D) error
	Provisional func(id string, draft D, now time.Time) T
	Language    language.Tag
	Filters     FilterConfig
	Logger      *slog.Logger
	Now         func() time.Time
}

// Collection is the list view-model of one entity type. It is safe for concurrent use.
//
// Mutations are applied optimistically and rolled back when the backend rejects them.
// A fetch that started before a mutation was applied does not overwrite it.
type Collection[T any, D any] struct {
	name        string
	api         ports.ResourceAPI[T, D]
	schema      Schema[T]
	validate    func(*D) error
	provisional func(id string, draft D, now time.Time) T
	lang        language.Tag
	now         func() time.Time
	logger      *slog.Logger
	fetches     singleflight.Group

	mu         sync.RWMutex
	items      []T
	filters    FilterConfig
	pending    int
	err        error
	generation uint64
	closed     bool
}

// New creates a view-model with no items loaded
func New[T any, D any](cfg Config[T, D]) *Collection[T, D] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	validate := cfg.Validate
	if validate == nil {
		validate = func(*D) error { return nil }
	}
	lang := cfg.Language
	if lang == language.Und {
		lang = language.English
	}

	return &Collection[T, D]{
		name:        cfg.Name,
		api:         cfg.API,
		schema:      cfg.Schema,
		validate:    validate,
		provisional: cfg.Provisional,
		lang:        lang,
		now:         now,
		filters:     cfg.Filters.clone(),
		logger:      logger.With(slog.String("collection", cfg.Name)),
	}
}

// Items returns a copy of the records in fetch order
func (c *Collection[T, D]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Visible returns the filtered and sorted projection of the current records
func (c *Collection[T, D]) Visible() []T {
	c.mu.RLock()
	items := c.items
	filters := c.filters
	c.mu.RUnlock()

	// items is only ever replaced, never written in place, while readers hold it
	return Project(items, c.schema, filters, c.lang)
}

// Filters returns a copy of the active filter configuration
func (c *Collection[T, D]) Filters() FilterConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters.clone()
}

// Loading reports whether a fetch or mutation is in flight
func (c *Collection[T, D]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending > 0
}

// Err returns the error of the most recent operation, if it failed
func (c *Collection[T, D]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// UpdateFilters merges patch into the filter configuration.
// Unknown categorical or sort keys are rejected and leave the configuration unchanged.
func (c *Collection[T, D]) UpdateFilters(patch FilterPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := c.filters.merge(patch)
	if err := c.schema.check(merged); err != nil {
		return err
	}
	c.filters = merged
	return nil
}

// Close marks the view-model unmounted. Responses arriving afterwards are dropped.
func (c *Collection[T, D]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// FetchAll reloads the collection. On failure the previous records stay available.
// Concurrent calls made between the same mutations share one request.
func (c *Collection[T, D]) FetchAll(ctx context.Context) error {
	gen, err := c.begin()
	if err != nil {
		return err
	}

	// a caller that follows a mutation never joins a request issued before it
	key := "list:" + strconv.FormatUint(gen, 10)
	ch := c.fetches.DoChan(key, func() (any, error) {
		c.mu.RLock()
		started := c.generation
		c.mu.RUnlock()

		items, err := c.api.List(context.WithoutCancel(ctx))
		return listing[T]{items: items, generation: started}, err
	})

	var (
		result listing[T]
		shared bool
	)
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-ch:
		err = res.Err
		shared = res.Shared
		if err == nil {
			result, _ = res.Val.(listing[T])
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	if c.closed {
		c.logger.DebugContext(ctx, "dropping fetch result for closed view")
		return ErrClosed
	}
	if err != nil {
		c.err = fmt.Errorf("fetch %s: %w", c.name, err)
		c.logger.WarnContext(ctx, "fetch failed, keeping previous items",
			slog.Int("kept", len(c.items)),
			slog.String("error", err.Error()))
		return c.err
	}
	if c.generation != result.generation {
		c.logger.DebugContext(ctx, "discarding fetch that predates a local mutation")
		return nil
	}

	c.items = slices.Clone(result.items)
	c.err = nil
	c.logger.DebugContext(ctx, "collection fetched",
		slog.Int("count", len(result.items)),
		slog.Bool("shared", shared))
	return nil
}

// listing is one list response and the generation it was requested at
type listing[T any] struct {
	items      []T
	generation uint64
}

// Get fetches a single record without changing the list
func (c *Collection[T, D]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if _, err := c.begin(); err != nil {
		return zero, err
	}

	item, err := c.api.Get(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--
	if err != nil {
		c.err = fmt.Errorf("get %s %s: %w", c.name, id, err)
		return zero, c.err
	}
	return item, nil
}

// Create validates draft, inserts a provisional record and replaces it with the
// server's entity. The provisional record is removed if the backend rejects it.
func (c *Collection[T, D]) Create(ctx context.Context, draft D) (T, error) {
	var zero T
	if err := c.checkDraft(&draft); err != nil {
		return zero, err
	}

	tempID := ProvisionalPrefix + uuid.NewString()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	c.err = nil
	c.pending++
	if c.provisional != nil {
		c.items = append(slices.Clone(c.items), c.provisional(tempID, draft, c.now()))
		c.generation++
	}
	c.mu.Unlock()

	created, err := c.api.Create(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	items := slices.Clone(c.items)
	if idx := c.indexIn(items, tempID); idx >= 0 {
		items = slices.Delete(items, idx, idx+1)
	}
	if err != nil {
		if !c.closed {
			c.items = items
			c.generation++
			c.err = fmt.Errorf("create %s: %w", c.name, err)
		}
		c.logger.WarnContext(ctx, "create rejected, provisional record removed",
			slog.String("error", err.Error()))
		return zero, fmt.Errorf("create %s: %w", c.name, err)
	}
	if c.closed {
		return created, nil
	}

	id := c.schema.ID(created)
	if idx := c.indexIn(items, id); idx >= 0 {
		items[idx] = created
	} else {
		items = append(items, created)
	}
	c.items = items
	c.generation++

	c.logger.InfoContext(ctx, "record created", slog.String("id", id))
	return created, nil
}

// Update validates draft, replaces the record locally and then with the server's echo.
// The previous record is restored at its position if the backend rejects the update.
func (c *Collection[T, D]) Update(ctx context.Context, id string, draft D) (T, error) {
	var zero T
	if err := c.checkDraft(&draft); err != nil {
		return zero, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	c.err = nil
	c.pending++
	var previous T
	position := c.indexIn(c.items, id)
	if position >= 0 {
		previous = c.items[position]
		if c.provisional != nil {
			items := slices.Clone(c.items)
			items[position] = c.provisional(id, draft, c.now())
			c.items = items
		}
		c.generation++
	}
	c.mu.Unlock()

	updated, err := c.api.Update(ctx, id, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	if err != nil {
		wrapped := fmt.Errorf("update %s %s: %w", c.name, id, err)
		if c.closed {
			return zero, wrapped
		}
		if position >= 0 {
			items := slices.Clone(c.items)
			if idx := c.indexIn(items, id); idx >= 0 {
				items[idx] = previous
			} else {
				items = slices.Insert(items, min(position, len(items)), previous)
			}
			c.items = items
			c.generation++
		}
		c.err = wrapped
		c.logger.WarnContext(ctx, "update rejected, previous record restored",
			slog.String("id", id),
			slog.String("error", err.Error()))
		return zero, wrapped
	}
	if c.closed {
		return updated, nil
	}

	items := slices.Clone(c.items)
	if idx := c.indexIn(items, id); idx >= 0 {
		items[idx] = updated
	} else {
		items = append(items, updated)
	}
	c.items = items
	c.generation++

	c.logger.InfoContext(ctx, "record updated", slog.String("id", id))
	return updated, nil
}

// Delete removes the record locally and on the backend.
// The record is re-inserted at its original index if the backend rejects the delete.
func (c *Collection[T, D]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.err = nil
	c.pending++
	var removed T
	position := c.indexIn(c.items, id)
	if position >= 0 {
		removed = c.items[position]
		c.items = slices.Delete(slices.Clone(c.items), position, position+1)
		c.generation++
	}
	c.mu.Unlock()

	err := c.api.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	if err != nil {
		wrapped := fmt.Errorf("delete %s %s: %w", c.name, id, err)
		if c.closed {
			return wrapped
		}
		if position >= 0 && c.indexIn(c.items, id) < 0 {
			c.items = slices.Insert(slices.Clone(c.items), min(position, len(c.items)), removed)
			c.generation++
		}
		c.err = wrapped
		c.logger.WarnContext(ctx, "delete rejected, record restored",
			slog.String("id", id),
			slog.String("error", err.Error()))
		return wrapped
	}
	if c.closed {
		return nil
	}

	if idx := c.indexIn(c.items, id); idx >= 0 {
		c.items = slices.DeleteFunc(slices.Clone(c.items), func(item T) bool {
			return c.schema.ID(item) == id
		})
		c.generation++
	}

	c.logger.InfoContext(ctx, "record deleted", slog.String("id", id))
	return nil
}

func (c *Collection[T, D]) begin() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	c.err = nil
	c.pending++
	return c.generation, nil
}

func (c *Collection[T, D]) checkDraft(draft *D) error {
	err := c.validate(draft)
	if err == nil {
		return nil
	}
	c.mu.Lock()
	if !c.closed {
		c.err = err
	}
	c.mu.Unlock()
	return err
}

func (c *Collection[T, D]) indexIn(items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool {
		return c.schema.ID(item) == id
	})
}
