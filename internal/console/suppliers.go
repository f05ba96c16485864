package console

import (
	"context"
	"flag"
	"fmt"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/export"
	"github.com/ammerola/stockroom/internal/i18n"
)

type supplierFlags struct {
	name, contact, email, phone, address, taxNumber, status *string
}

func newSupplierFlags(fs *flag.FlagSet) *supplierFlags {
	return &supplierFlags{
		name:      fs.String("name", "", "supplier name"),
		contact:   fs.String("contact", "", "contact person"),
		email:     fs.String("email", "", "contact email"),
		phone:     fs.String("phone", "", "contact phone"),
		address:   fs.String("address", "", "postal address"),
		taxNumber: fs.String("tax-number", "", "tax registration number"),
		status:    fs.String("status", "", "active or inactive"),
	}
}

func (f *supplierFlags) apply(set map[string]bool, d *domain.SupplierDraft) {
	fields := map[string]struct {
		src *string
		dst *string
	}{
		"name":       {f.name, &d.Name},
		"contact":    {f.contact, &d.ContactPerson},
		"email":      {f.email, &d.Email},
		"phone":      {f.phone, &d.Phone},
		"address":    {f.address, &d.Address},
		"tax-number": {f.taxNumber, &d.TaxNumber},
	}
	for name, field := range fields {
		if set[name] {
			*field.dst = *field.src
		}
	}
	if set["status"] {
		d.Status = domain.SupplierStatus(*f.status)
	}
}

func (c *Console) supplierService() *services.SupplierService {
	return services.NewSupplierService(api.NewSupplierAPI(c.opts.Client), c.viewOptions(), c.opts.Logger)
}

func (c *Console) suppliersList(ctx context.Context, args []string) error {
	fs := c.flagSet("suppliers list")
	lf := newListFlags(fs, services.SupplierFilterStatus)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	sup := c.supplierService()
	defer sup.Close()
	if err := c.load(ctx, sup, lf); err != nil {
		return err
	}
	return c.renderTable(export.SupplierTable(c.l, sup.Visible(), c.settings.DateFormat), len(sup.Items()))
}

func (c *Console) suppliersShow(ctx context.Context, args []string) error {
	rest, err := parse(c.flagSet("suppliers show"), args)
	if err != nil {
		return err
	}
	if err := exactArgs(rest, 1, "a supplier ID"); err != nil {
		return err
	}

	sup := c.supplierService()
	defer sup.Close()
	s, err := sup.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	return c.renderRecord(export.SupplierTable(c.l, []domain.Supplier{s}, c.settings.DateFormat))
}

func (c *Console) suppliersCreate(ctx context.Context, args []string) error {
	fs := c.flagSet("suppliers create")
	f := newSupplierFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var draft domain.SupplierDraft
	f.apply(visited(fs), &draft)

	sup := c.supplierService()
	defer sup.Close()
	created, err := sup.Create(ctx, draft)
	if err != nil {
		return err
	}
	c.invalidateDashboard(ctx)
	c.printf(i18n.MsgCreatedRec, fmt.Sprintf("%s (%s)", created.Name, created.ID))
	return nil
}

func (c *Console) suppliersUpdate(ctx context.Context, args []string) error {
	fs := c.flagSet("suppliers update")
	f := newSupplierFlags(fs)
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(rest, 1, "a supplier ID"); err != nil {
		return err
	}

	sup := c.supplierService()
	defer sup.Close()
	current, err := sup.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	draft := current.Draft()
	f.apply(visited(fs), &draft)

	updated, err := sup.Update(ctx, current.ID, draft)
	if err != nil {
		return err
	}
	c.invalidateDashboard(ctx)
	c.printf(i18n.MsgUpdatedRec, fmt.Sprintf("%s (%s)", updated.Name, updated.ID))
	return nil
}

func (c *Console) suppliersDelete(ctx context.Context, args []string) error {
	fs := c.flagSet("suppliers delete")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(rest, 1, "a supplier ID"); err != nil {
		return err
	}

	sup := c.supplierService()
	defer sup.Close()
	current, err := sup.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	if !*yes && !c.confirm(current.Name) {
		c.printf(i18n.MsgCancelled)
		return nil
	}

	if err := sup.Delete(ctx, current.ID); err != nil {
		return err
	}
	c.invalidateDashboard(ctx)
	c.printf(i18n.MsgDeleted, current.Name)
	return nil
}

func (c *Console) suppliersExport(ctx context.Context, args []string) error {
	fs := c.flagSet("suppliers export")
	lf := newListFlags(fs, services.SupplierFilterStatus)
	out := fs.String("out", "", "write the workbook to this path")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	sup := c.supplierService()
	defer sup.Close()
	if err := c.load(ctx, sup, lf); err != nil {
		return err
	}
	return c.exportTable(ctx, "suppliers", *out, export.SupplierTable(c.l, sup.Visible(), c.settings.DateFormat))
}
