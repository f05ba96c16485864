package console

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ammerola/stockroom/internal/charts"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/export"
	"github.com/ammerola/stockroom/internal/i18n"
)

const (
	chartCategory  = "category"
	chartMovements = "movements"
)

func (c *Console) dashboard(ctx context.Context, args []string) error {
	fs := c.flagSet("dashboard")
	refresh := fs.Bool("refresh", false, "ignore the cached summary")
	svgPath := fs.String("svg", "", "also write a chart as SVG to this path")
	which := fs.String("chart", chartCategory, "chart written by --svg: category or movements")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *which != chartCategory && *which != chartMovements {
		return usagef("--chart must be %s or %s", chartCategory, chartMovements)
	}

	dash := c.dashboardService()
	load := dash.Summary
	if *refresh {
		load = dash.Refresh
	}
	summary, err := load(ctx)
	if err != nil {
		return err
	}

	tiles := summary.Tiles
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, tile := range []struct {
		key   string
		value string
	}{
		{i18n.MsgTotalItems, fmt.Sprint(tiles.TotalItems)},
		{i18n.MsgTotalUnits, fmt.Sprint(tiles.TotalUnits)},
		{i18n.MsgStockValue, tiles.StockValue.StringFixed(2)},
		{i18n.MsgLowStockTile, fmt.Sprint(tiles.LowStock)},
		{i18n.MsgOutOfStockTile, fmt.Sprint(tiles.OutOfStock)},
		{i18n.MsgActiveSuppliers, fmt.Sprint(tiles.ActiveSuppliers)},
		{i18n.MsgTransactionsToday, fmt.Sprint(tiles.TransactionsToday)},
	} {
		fmt.Fprintf(tw, "%s:\t%s\n", c.l.T(tile.key), tile.value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	byCategory := charts.FromPoints(c.l.T(i18n.MsgUnitsByCategory), c.l.T(i18n.MsgTotalUnits), summary.UnitsByCategory)
	movements := charts.FromMovements(c.l.T(i18n.MsgMovements),
		c.l.Label("incoming"), c.l.Label("outgoing"), summary.MovementsByDay, "01-02")

	for _, chart := range []charts.Chart{byCategory, movements} {
		fmt.Fprintln(c.out)
		if err := charts.WriteText(c.out, chart, charts.DefaultTextWidth); err != nil {
			return err
		}
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.l.T(i18n.MsgRecent))
	if len(summary.Recent) == 0 {
		c.printf(i18n.MsgNoRecords)
	} else if err := c.writeTable(export.TransactionTable(c.l, summary.Recent, c.settings.DateFormat)); err != nil {
		return err
	}

	if *svgPath != "" {
		chart := byCategory
		if *which == chartMovements {
			chart = movements
		}
		if err := writeSVGFile(*svgPath, chart, c.settings.Theme); err != nil {
			return err
		}
		c.printf(i18n.MsgChartWritten, *svgPath)
	}
	return nil
}

func writeSVGFile(path string, chart charts.Chart, theme domain.Theme) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return charts.WriteSVG(f, chart, theme)
}
