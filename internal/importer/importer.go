// Package importer reads inventory drafts from spreadsheets and PDF delivery notes.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .pdf
	ErrUnsupportedFormat = errors.New("unsupported import format")
	// ErrTooLarge is returned when a file exceeds the configured size limit
	ErrTooLarge = errors.New("import file too large")
)

// RowError is a source row that did not produce a valid draft
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Result holds the drafts read from one file
type Result struct {
	Source string
	Drafts []domain.InventoryDraft
	Errors []RowError
}

// Creator is the part of the inventory view-model the importer writes through
type Creator interface {
	Create(ctx context.Context, draft domain.InventoryDraft) (domain.InventoryItem, error)
}

// Summary reports the outcome of applying drafts to the backend
type Summary struct {
	Created int
	Failed  []RowError
}

// Importer parses import files and pushes the drafts through a Creator
type Importer struct {
	maxXLSX   int64
	maxPDF    int64
	threshold int
	logger    *slog.Logger
}

// New creates an importer. Size limits are in megabytes; zero disables the limit.
func New(maxXLSXMB, maxPDFMB, threshold int, logger *slog.Logger) *Importer {
	if threshold <= 0 {
		threshold = domain.DefaultLowStockThreshold
	}
	return &Importer{
		maxXLSX:   int64(maxXLSXMB) << 20,
		maxPDF:    int64(maxPDFMB) << 20,
		threshold: threshold,
		logger:    logger.With(slog.String("component", "importer")),
	}
}

// WithThreshold returns a copy deriving stock status with threshold
func (i *Importer) WithThreshold(threshold int) *Importer {
	cp := *i
	if threshold > 0 {
		cp.threshold = threshold
	}
	return &cp
}

// ReadFile parses path according to its extension
func (i *Importer) ReadFile(ctx context.Context, path string) (Result, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var limit int64
	switch ext {
	case ".xlsx":
		limit = i.maxXLSX
	case ".pdf":
		limit = i.maxPDF
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat import file: %w", err)
	}
	if limit > 0 && info.Size() > limit {
		return Result{}, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, info.Size(), limit)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read import file: %w", err)
	}

	var res Result
	if ext == ".xlsx" {
		res, err = ParseXLSX(data, i.threshold)
	} else {
		res, err = ParsePDF(data, i.threshold)
	}
	if err != nil {
		return Result{}, err
	}
	res.Source = path

	i.logger.InfoContext(ctx, "import file parsed",
		slog.String("source", path),
		slog.Int("drafts", len(res.Drafts)),
		slog.Int("rejected", len(res.Errors)))

	return res, nil
}

// Apply creates every draft through c. Rows rejected by the backend are
// collected; an authentication failure stops the run.
func (i *Importer) Apply(ctx context.Context, c Creator, drafts []domain.InventoryDraft) (Summary, error) {
	var sum Summary
	for n, draft := range drafts {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if _, err := c.Create(ctx, draft); err != nil {
			if errors.Is(err, ports.ErrUnauthorized) {
				return sum, err
			}
			i.logger.WarnContext(ctx, "import row rejected",
				slog.String("sku", draft.SKU),
				slog.String("error", err.Error()))
			sum.Failed = append(sum.Failed, RowError{Row: n + 1, Err: err})
			continue
		}
		sum.Created++
	}

	i.logger.InfoContext(ctx, "import applied",
		slog.Int("created", sum.Created),
		slog.Int("failed", len(sum.Failed)))

	return sum, nil
}
