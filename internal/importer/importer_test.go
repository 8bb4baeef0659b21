package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"association-storefront/internal/cart"
	"association-storefront/internal/domain"
)

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,price,image,quantity,color,size
5,Hoodie,80.00,/media/hoodie.jpg,1,navy,L
5,Hoodie,80.00,/media/hoodie.jpg,2,navy,L
5,Hoodie,80.00,/media/hoodie.jpg,1,black,L
7,Mug,12.50,,1,,
,,,,,,
8,Pin,2,,0,,`

	store := cart.New(nil)
	imp := NewCSVImporter(strings.NewReader(csvData), store)

	stats, err := imp.Run()
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if stats.Added != 4 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	items := store.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 lines after merge, got %d", len(items))
	}
	if items[0].Quantity != 3 || items[0].Color != "navy" {
		t.Fatalf("expected navy hoodie merged to 3, got %+v", items[0])
	}
	if items[1].Color != "black" || items[1].Quantity != 1 {
		t.Fatalf("expected separate black hoodie line, got %+v", items[1])
	}
	if !store.Total().Equal(decimal.RequireFromString("332.5")) {
		t.Fatalf("expected total 332.5, got %s", store.Total())
	}
}

func TestCSVImporter_ColumnOrderAndCase(t *testing.T) {
	csvData := "Quantity, Price ,Name,ID\n2,10,Scarf,9\n"

	store := cart.New(nil)
	stats, err := NewCSVImporter(strings.NewReader(csvData), store).Run()
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if stats.Added != 1 || store.Count() != 2 {
		t.Fatalf("unexpected result stats=%+v count=%d", stats, store.Count())
	}
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	csvData := "id,name,quantity\n1,Mug,1\n"

	if _, err := NewCSVImporter(strings.NewReader(csvData), cart.New(nil)).Run(); err == nil {
		t.Fatalf("expected error for missing price column")
	}
}

func TestCSVImporter_BadRowAddsNothing(t *testing.T) {
	csvData := "id,name,price,quantity\n1,Mug,10,1\n2,Cap,ten,1\n3,Pin,1,1\n"
	store := cart.New(nil)

	stats, err := NewCSVImporter(strings.NewReader(csvData), store).Run()
	if err == nil || !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("expected row 3 error, got %v", err)
	}
	if stats.Added != 0 || !store.IsEmpty() {
		t.Fatalf("expected nothing added when a row is malformed, stats=%+v count=%d", stats, store.Count())
	}
}

func TestCSVImporter_EmptyInput(t *testing.T) {
	if _, err := NewCSVImporter(strings.NewReader(""), cart.New(nil)).Run(); err == nil {
		t.Fatalf("expected error for missing header")
	}
}

type recordingCart struct {
	adds int
}

func (r *recordingCart) AddItem(domain.CartItem) { r.adds++ }

func TestCSVImporter_LateBadRowLeavesCartUntouched(t *testing.T) {
	csvData := "id,name,price,quantity\n1,Mug,10,1\n2,Cap,10,1\n3,Pin,1,many\n"
	rec := &recordingCart{}

	if _, err := NewCSVImporter(strings.NewReader(csvData), rec).Run(); err == nil {
		t.Fatalf("expected error for the last row")
	}
	if rec.adds != 0 {
		t.Fatalf("expected no writes before the sheet parsed, got %d", rec.adds)
	}
}
