package fakeapi

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom/internal/core/domain"
)

var demoSuppliers = []domain.SupplierDraft{
	{Name: "Acme Supply", ContactPerson: "Dana Reyes", Email: "orders@acme.example", Phone: "+1 555 0100", Address: "12 Harbor Rd", TaxNumber: "US-4411"},
	{Name: "Northwind Tools", ContactPerson: "Ari Putra", Email: "sales@northwind.example", Phone: "+62 21 555 019", Address: "Jl. Sudirman 8", TaxNumber: "ID-0193"},
	{Name: "Cordillera Packaging", ContactPerson: "Lucía Vega", Email: "hola@cordillera.example", Phone: "+34 91 555 0142", Address: "Calle Mayor 3", Status: domain.SupplierInactive},
}

var demoItems = []struct {
	name, category, unit, price string
	supplier                    int
}{
	{"Hex Bolt M8", "Fasteners", "pcs", "0.35", 0},
	{"Wood Screw 4x40", "Fasteners", "pcs", "0.08", 0},
	{"Cordless Drill 18V", "Power Tools", "pcs", "89.90", 1},
	{"Angle Grinder 115mm", "Power Tools", "pcs", "54.00", 1},
	{"Safety Gloves L", "Safety", "pair", "3.20", 0},
	{"Ear Defenders", "Safety", "pcs", "12.50", 0},
	{"Stretch Film 500mm", "Packaging", "roll", "9.75", 2},
	{"Carton 40x30x30", "Packaging", "pcs", "1.10", 2},
	{"Cable Tie 200mm", "Electrical", "pack", "2.40", 1},
	{"Insulation Tape", "Electrical", "roll", "0.95", 1},
}

// Seed fills the backend with demo records. Items cycle through the demo
// catalogue; every third item starts low on stock and every seventh is out.
func (s *Server) Seed(items int) error {
	now := s.opts.Now().UTC()

	for _, d := range demoSuppliers {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("seed supplier %s: %w", d.Name, err)
		}
		id := uuid.NewString()
		s.suppliers.put(id, d.ToSupplier(id, now))
	}

	for i := 0; i < items; i++ {
		demo := demoItems[i%len(demoItems)]
		qty := 40 + (i*37)%200
		switch {
		case i%7 == 6:
			qty = 0
		case i%3 == 2:
			qty = 1 + i%s.opts.Threshold
		}

		d := domain.InventoryDraft{
			Name:     demo.name,
			SKU:      fmt.Sprintf("SR-%04d", i+1),
			Category: demo.category,
			Supplier: demoSuppliers[demo.supplier].Name,
			Unit:     demo.unit,
			Quantity: qty,
			Price:    decimal.RequireFromString(demo.price),
			Location: fmt.Sprintf("%c-%02d", 'A'+rune(i%4), i%20+1),
		}
		if i >= len(demoItems) {
			d.Name = fmt.Sprintf("%s #%d", demo.name, i/len(demoItems)+1)
		}
		if err := d.Validate(s.opts.Threshold); err != nil {
			return fmt.Errorf("seed item %s: %w", d.SKU, err)
		}

		id := uuid.NewString()
		item := d.ToItem(id, now.Add(-time.Duration(i)*time.Hour))
		s.inventory.put(id, item)

		if qty == 0 {
			continue
		}
		tx := domain.TransactionDraft{
			ItemID:    id,
			ItemName:  item.Name,
			Type:      domain.TransactionIncoming,
			Quantity:  qty,
			Reference: fmt.Sprintf("PO-%04d", 1000+i),
			CreatedBy: "seed",
		}
		txID := uuid.NewString()
		s.transactions.put(txID, tx.ToTransaction(txID, now.Add(-time.Duration(i%7)*24*time.Hour)))
	}

	s.logger.Info("backend seeded",
		slog.Int("items", items),
		slog.Int("suppliers", len(demoSuppliers)),
	)
	return nil
}
