package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockroom/internal/core/ports"
)

// ContentTypeXLSX is the media type of generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrNoDestination is returned when neither a path nor a storage backend is set
var ErrNoDestination = errors.New("export needs an output path or a storage backend")

// WriteXLSX writes the table as a single-sheet workbook
func WriteXLSX(w io.Writer, t Table) error {
	file := xlsx.NewFile()

	name := t.Sheet
	if name == "" {
		name = "Sheet1"
	}
	sheet, err := file.AddSheet(name)
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range t.Headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, row := range t.Rows {
		dataRow := sheet.AddRow()
		for _, v := range row {
			cell := dataRow.AddCell()
			switch val := v.(type) {
			case int:
				cell.SetInt(val)
			case decimal.Decimal:
				f, _ := val.Float64()
				cell.SetFloatWithFormat(f, "0.00")
			default:
				cell.Value = cellText(v)
			}
		}
	}

	for i := range t.Headers {
		sheet.SetColWidth(i+1, i+1, 18)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Request describes one export run
type Request struct {
	// Name is the file stem, e.g. "inventory"
	Name  string
	Table Table
	// Path writes the workbook locally when set
	Path string
}

// Result reports where the workbook ended up
type Result struct {
	Rows int
	Path string
	Key  string
	URL  string
}

// Exporter writes workbooks to disk and, when configured, to object storage
type Exporter struct {
	storage    ports.ObjectStorage
	presignTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewExporter creates an exporter; storage may be nil
func NewExporter(storage ports.ObjectStorage, presignTTL time.Duration, logger *slog.Logger) *Exporter {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &Exporter{
		storage:    storage,
		presignTTL: presignTTL,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "exporter")),
	}
}

// Export renders the workbook and delivers it to every configured destination
func (e *Exporter) Export(ctx context.Context, req Request) (Result, error) {
	if req.Path == "" && e.storage == nil {
		return Result{}, ErrNoDestination
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, req.Table); err != nil {
		return Result{}, err
	}
	res := Result{Rows: req.Table.Len()}

	if req.Path != "" {
		if err := os.MkdirAll(filepath.Dir(req.Path), 0o755); err != nil {
			return res, fmt.Errorf("failed to create export directory: %w", err)
		}
		if err := os.WriteFile(req.Path, buf.Bytes(), 0o644); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", req.Path, err)
		}
		res.Path = req.Path
	}

	if e.storage != nil {
		key := e.objectKey(req.Name)
		if _, err := e.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), ContentTypeXLSX); err != nil {
			return res, fmt.Errorf("failed to upload export: %w", err)
		}
		url, err := e.storage.GetPresignedURL(ctx, key, e.presignTTL)
		if err != nil {
			return res, fmt.Errorf("failed to presign export: %w", err)
		}
		res.Key = key
		res.URL = url
	}

	e.logger.InfoContext(ctx, "export completed",
		slog.String("name", req.Name),
		slog.Int("rows", res.Rows),
		slog.String("path", res.Path),
		slog.String("key", res.Key))

	return res, nil
}

func (e *Exporter) objectKey(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = "export"
	}
	return fmt.Sprintf("exports/%s-%s.xlsx", name, e.now().UTC().Format("20060102-150405"))
}
