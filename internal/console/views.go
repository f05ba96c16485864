package console

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ammerola/stockroom/internal/core/collection"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/export"
	"github.com/ammerola/stockroom/internal/i18n"
)

// listFlags are the search, categorical and sort flags shared by list and export
type listFlags struct {
	fs         *flag.FlagSet
	search     *string
	sortBy     *string
	order      *string
	categories map[string]*string
}

func newListFlags(fs *flag.FlagSet, categories ...string) *listFlags {
	lf := &listFlags{
		fs:         fs,
		search:     fs.String("search", "", "case-insensitive text search"),
		sortBy:     fs.String("sort", "", "sort field"),
		order:      fs.String("order", "", "sort order, asc or desc"),
		categories: make(map[string]*string, len(categories)),
	}
	for _, key := range categories {
		lf.categories[key] = fs.String(key, "", "only records whose "+key+" equals this value")
	}
	return lf
}

// patch builds a filter patch from the flags that were set
func (lf *listFlags) patch() collection.FilterPatch {
	set := visited(lf.fs)
	var p collection.FilterPatch
	if set["search"] {
		p.Search = lf.search
	}
	if set["sort"] {
		p.SortBy = lf.sortBy
	}
	if set["order"] {
		p.SortOrder = collection.Ptr(domain.SortOrder(*lf.order))
	}
	for key, value := range lf.categories {
		if set[key] {
			if p.Categories == nil {
				p.Categories = make(map[string]string)
			}
			p.Categories[key] = *value
		}
	}
	return p
}

type filterable interface {
	UpdateFilters(patch collection.FilterPatch) error
	FetchAll(ctx context.Context) error
}

// load applies the list flags to a view-model and fetches it
func (c *Console) load(ctx context.Context, view filterable, lf *listFlags) error {
	if err := view.UpdateFilters(lf.patch()); err != nil {
		return usagef("%s", c.l.Describe(err))
	}
	return view.FetchAll(ctx)
}

// exportTable writes t as a workbook to out, the configured storage, or
// a timestamped file in the export directory
func (c *Console) exportTable(ctx context.Context, name, out string, t export.Table) error {
	if out == "" && c.opts.Storage == nil {
		dir := c.opts.ExportDir
		if dir == "" {
			dir = "."
		}
		out = filepath.Join(dir, fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102-150405")))
	}

	exporter := export.NewExporter(c.opts.Storage, c.opts.PresignTTL, c.opts.Logger)
	res, err := exporter.Export(ctx, export.Request{Name: name, Table: t, Path: out})
	if err != nil {
		return err
	}

	dest := res.Path
	if dest == "" {
		dest = res.URL
	}
	c.printf(i18n.MsgExported, res.Rows, dest)
	if res.Path != "" && res.URL != "" {
		fmt.Fprintln(c.out, res.URL)
	}
	return nil
}
