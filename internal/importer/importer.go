package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"association-storefront/internal/domain"
)

// CartWriter receives the imported lines. *cart.Store satisfies it, so
// duplicates merge exactly as interactive adds do.
type CartWriter interface {
	AddItem(item domain.CartItem)
}

// CSVImporter reads merch order sheets (one line per product variant) into
// a cart. The header row names the columns; id, name, price and quantity
// are required, image, color and size are optional.
type CSVImporter struct {
	reader *csv.Reader
	cart   CartWriter
}

func NewCSVImporter(r io.Reader, cart CartWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader: csvr,
		cart:   cart,
	}
}

// Stats reports what Run did.
type Stats struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

var requiredColumns = []string{"id", "name", "price", "quantity"}

// Run reads the whole sheet and then adds every row to the cart. Rows with a
// quantity below one are counted as skipped. A malformed row fails the
// import before anything reaches the cart.
func (i *CSVImporter) Run() (Stats, error) {
	items, skipped, err := i.parse()
	if err != nil {
		return Stats{}, err
	}
	for _, item := range items {
		i.cart.AddItem(item)
	}
	return Stats{Added: len(items), Skipped: skipped}, nil
}

func (i *CSVImporter) parse() ([]domain.CartItem, int, error) {
	var (
		items   []domain.CartItem
		skipped int
	)

	headers, err := i.reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", col)
		}
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		item, err := parseRow(record, index)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", line, err)
		}
		if item.Quantity < 1 {
			skipped++
			continue
		}
		items = append(items, item)
	}

	return items, skipped, nil
}

func parseRow(record []string, index map[string]int) (domain.CartItem, error) {
	get := func(col string) string {
		idx, ok := index[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	id, err := strconv.ParseInt(get("id"), 10, 64)
	if err != nil || id <= 0 {
		return domain.CartItem{}, fmt.Errorf("invalid id %q", get("id"))
	}
	name := get("name")
	if name == "" {
		return domain.CartItem{}, errors.New("name required")
	}
	price, err := decimal.NewFromString(get("price"))
	if err != nil || price.IsNegative() {
		return domain.CartItem{}, fmt.Errorf("invalid price %q", get("price"))
	}
	qty, err := strconv.Atoi(get("quantity"))
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("invalid quantity %q", get("quantity"))
	}

	return domain.CartItem{
		ID:       id,
		Name:     name,
		Price:    price,
		Image:    get("image"),
		Quantity: qty,
		Color:    get("color"),
		Size:     get("size"),
	}, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
