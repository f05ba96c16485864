package console

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/export"
	"github.com/ammerola/stockroom/internal/i18n"
	"github.com/ammerola/stockroom/internal/importer"
)

type itemFlags struct {
	name, sku, category, supplier, unit  *string
	status, location, description, price *string
	quantity, minStock                   *int
}

func newItemFlags(fs *flag.FlagSet) *itemFlags {
	return &itemFlags{
		name:        fs.String("name", "", "item name"),
		sku:         fs.String("sku", "", "stock keeping unit"),
		category:    fs.String("category", "", "category"),
		supplier:    fs.String("supplier", "", "supplier name"),
		unit:        fs.String("unit", "", "unit of measure, e.g. pcs"),
		status:      fs.String("status", "", "in-stock, low-stock or out-of-stock (derived when omitted)"),
		location:    fs.String("location", "", "storage location"),
		description: fs.String("description", "", "free text description"),
		price:       fs.String("price", "", "unit price"),
		quantity:    fs.Int("quantity", 0, "units on hand"),
		minStock:    fs.Int("min-stock", 0, "item low-stock threshold"),
	}
}

// apply copies the flags that were set onto d
func (f *itemFlags) apply(set map[string]bool, d *domain.InventoryDraft) error {
	strs := map[string]struct {
		src *string
		dst *string
	}{
		"name":        {f.name, &d.Name},
		"sku":         {f.sku, &d.SKU},
		"category":    {f.category, &d.Category},
		"supplier":    {f.supplier, &d.Supplier},
		"unit":        {f.unit, &d.Unit},
		"location":    {f.location, &d.Location},
		"description": {f.description, &d.Description},
	}
	for name, field := range strs {
		if set[name] {
			*field.dst = *field.src
		}
	}
	if set["status"] {
		d.Status = domain.StockStatus(*f.status)
	}
	if set["quantity"] {
		d.Quantity = *f.quantity
	}
	if set["min-stock"] {
		d.MinStock = *f.minStock
	}
	if set["price"] {
		price, err := decimal.NewFromString(*f.price)
		if err != nil {
			return domain.NewValidationError("price", "must be a number")
		}
		d.Price = price
	}
	return nil
}

func (c *Console) inventoryService() *services.InventoryService {
	return services.NewInventoryService(api.NewInventoryAPI(c.opts.Client), c.viewOptions(), c.opts.Logger)
}

func inventoryListFlags(fs *flag.FlagSet) *listFlags {
	return newListFlags(fs, services.InventoryFilterCategory, services.InventoryFilterSupplier, services.InventoryFilterStatus)
}

func (c *Console) inventoryList(ctx context.Context, args []string) error {
	fs := c.flagSet("inventory list")
	lf := inventoryListFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	inv := c.inventoryService()
	defer inv.Close()
	if err := c.load(ctx, inv, lf); err != nil {
		return err
	}
	return c.renderTable(export.InventoryTable(c.l, inv.Visible(), c.settings.DateFormat), len(inv.Items()))
}

func (c *Console) inventoryShow(ctx context.Context, args []string) error {
	rest, err := parse(c.flagSet("inventory show"), args)
	if err != nil {
		return err
	}
	if err := exactArgs(rest, 1, "an item ID"); err != nil {
		return err
	}

	inv := c.inventoryService()
	defer inv.Close()
	item, err := inv.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	return c.renderRecord(export.InventoryTable(c.l, []domain.InventoryItem{item}, c.settings.DateFormat))
}

func (c *Console) inventoryCreate(ctx context.Context, args []string) error {
	fs := c.flagSet("inventory create")
	f := newItemFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var draft domain.InventoryDraft
	if err := f.apply(visited(fs), &draft); err != nil {
		return err
	}

	inv := c.inventoryService()
	defer inv.Close()
	item, err := inv.Create(ctx, draft)
	if err != nil {
		return err
	}
	c.invalidateDashboard(ctx)
	c.printf(i18n.MsgCreatedRec, fmt.Sprintf("%s (%s)", item.Name, item.ID))
	return nil
}

func (c *Console) inventoryUpdate(ctx context.Context, args []string) error {
	fs := c.flagSet("inventory update")
	f := newItemFlags(fs)
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(rest, 1, "an item ID"); err != nil {
		return err
	}

	inv := c.inventoryService()
	defer inv.Close()
	item, err := inv.Get(ctx, rest[0])
	if err != nil {
		return err
	}

	set := visited(fs)
	draft := item.Draft()
	if err := f.apply(set, &draft); err != nil {
		return err
	}
	if set["quantity"] && !set["status"] {
		draft.Status = ""
	}

	updated, err := inv.Update(ctx, item.ID, draft)
	if err != nil {
		return err
	}
	c.invalidateDashboard(ctx)
	c.printf(i18n.MsgUpdatedRec, fmt.Sprintf("%s (%s)", updated.Name, updated.ID))
	return nil
}

func (c *Console) inventoryDelete(ctx context.Context, args []string) error {
	fs := c.flagSet("inventory delete")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(rest, 1, "an item ID"); err != nil {
		return err
	}

	inv := c.inventoryService()
	defer inv.Close()
	item, err := inv.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	if !*yes && !c.confirm(item.Name) {
		c.printf(i18n.MsgCancelled)
		return nil
	}

	if err := inv.Delete(ctx, item.ID); err != nil {
		return err
	}
	c.invalidateDashboard(ctx)
	c.printf(i18n.MsgDeleted, item.Name)
	return nil
}

func (c *Console) inventoryExport(ctx context.Context, args []string) error {
	fs := c.flagSet("inventory export")
	lf := inventoryListFlags(fs)
	out := fs.String("out", "", "write the workbook to this path")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	inv := c.inventoryService()
	defer inv.Close()
	if err := c.load(ctx, inv, lf); err != nil {
		return err
	}
	return c.exportTable(ctx, "inventory", *out, export.InventoryTable(c.l, inv.Visible(), c.settings.DateFormat))
}

func (c *Console) inventoryImport(ctx context.Context, args []string) error {
	fs := c.flagSet("inventory import")
	dryRun := fs.Bool("dry-run", false, "show the parsed rows without creating them")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(rest, 1, "an .xlsx or .pdf file"); err != nil {
		return err
	}

	imp := c.opts.Importer
	if imp == nil {
		imp = importer.New(0, 0, c.settings.LowStockThreshold, c.opts.Logger)
	} else {
		imp = imp.WithThreshold(c.settings.LowStockThreshold)
	}
	res, err := imp.ReadFile(ctx, rest[0])
	if err != nil {
		return err
	}
	for _, rowErr := range res.Errors {
		fmt.Fprintln(c.errOut, rowErr.Error())
	}

	if *dryRun {
		now := time.Now()
		items := make([]domain.InventoryItem, 0, len(res.Drafts))
		for _, d := range res.Drafts {
			items = append(items, d.ToItem("", now))
		}
		return c.renderTable(export.InventoryTable(c.l, items, c.settings.DateFormat), len(items))
	}

	inv := c.inventoryService()
	defer inv.Close()
	summary, err := imp.Apply(ctx, inv, res.Drafts)
	if err != nil {
		return err
	}
	for _, rowErr := range summary.Failed {
		fmt.Fprintf(c.errOut, "%s: %s\n", res.Drafts[rowErr.Row-1].SKU, c.l.Describe(rowErr.Err))
	}
	if summary.Created > 0 {
		c.invalidateDashboard(ctx)
	}

	failed := len(summary.Failed) + len(res.Errors)
	c.printf(i18n.MsgImported, summary.Created, failed)
	if failed > 0 {
		return errSilent
	}
	return nil
}
