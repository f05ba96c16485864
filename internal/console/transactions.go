package console

import (
	"context"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/export"
	"github.com/ammerola/stockroom/internal/i18n"
)

func (c *Console) transactionService() *services.TransactionService {
	return services.NewTransactionService(api.NewTransactionAPI(c.opts.Client), c.viewOptions(), c.opts.Logger)
}

func (c *Console) transactionsList(ctx context.Context, args []string) error {
	fs := c.flagSet("transactions list")
	lf := newListFlags(fs, services.TransactionFilterType)
	itemID := fs.String("item", "", "only movements of this item ID")
	limit := fs.Int("limit", 0, "show at most this many records")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *limit < 0 {
		return usagef("--limit must not be negative")
	}

	txs := c.transactionService()
	defer txs.Close()
	if err := c.load(ctx, txs, lf); err != nil {
		return err
	}

	visible := txs.Visible()
	if *itemID != "" {
		kept := visible[:0]
		for _, tx := range visible {
			if tx.ItemID == *itemID {
				kept = append(kept, tx)
			}
		}
		visible = kept
	}
	if *limit > 0 && len(visible) > *limit {
		visible = visible[:*limit]
	}
	return c.renderTable(export.TransactionTable(c.l, visible, c.settings.DateFormat), len(txs.Items()))
}

func (c *Console) stockDispatch(ctx context.Context, args []string) error {
	return c.moveStock(ctx, "stock dispatch", domain.TransactionOutgoing, args)
}

func (c *Console) stockReceive(ctx context.Context, args []string) error {
	return c.moveStock(ctx, "stock receive", domain.TransactionIncoming, args)
}

func (c *Console) moveStock(ctx context.Context, name string, kind domain.TransactionType, args []string) error {
	fs := c.flagSet(name)
	quantity := fs.Int("quantity", 0, "units to move")
	note := fs.String("note", "", "note stored with the transaction")
	reference := fs.String("reference", "", "movement reference (generated when omitted)")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(rest, 1, "an item ID"); err != nil {
		return err
	}

	inv := c.inventoryService()
	defer inv.Close()
	txs := c.transactionService()
	defer txs.Close()
	stock := services.NewStockService(inv, txs, c.opts.Reporter, c.opts.Logger)

	m := services.Movement{
		ItemID:    rest[0],
		Quantity:  *quantity,
		Note:      *note,
		Reference: *reference,
		CreatedBy: c.userEmail(),
	}
	var res services.MovementResult
	if kind == domain.TransactionOutgoing {
		res, err = stock.Dispatch(ctx, m)
	} else {
		res, err = stock.Receive(ctx, m)
	}
	if res.Item.ID != "" {
		c.invalidateDashboard(ctx)
	}
	if err != nil {
		return err
	}

	c.printf(i18n.MsgStockNow, res.Item.Name, res.Item.Quantity, c.l.Label(string(res.Item.Status)))
	return nil
}
