package cart

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"association-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type stubSlots struct {
	values map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newStubSlots() *stubSlots {
	return &stubSlots{values: map[string][]byte{}}
}

func (s *stubSlots) Get(_ context.Context, profileID, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.values[profileID+"/"+key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s *stubSlots) Set(_ context.Context, profileID, key string, value []byte) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.values[profileID+"/"+key] = value
	return nil
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := []domain.CartItem{
		{ID: 1, Name: "Hoodie", Price: decimal.RequireFromString("80.00"), Image: "https://cdn.example.com/h.png", Quantity: 2, Color: "black", Size: "L"},
		{ID: 2, Name: "Sticker", Price: decimal.RequireFromString("1.5"), Quantity: 10},
	}
	raw, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(original) {
		t.Fatalf("expected %d items, got %d", len(original), len(got))
	}
	for i := range original {
		want := original[i]
		if got[i].ID != want.ID || got[i].Name != want.Name || got[i].Image != want.Image ||
			got[i].Quantity != want.Quantity || got[i].Color != want.Color || got[i].Size != want.Size ||
			!got[i].Price.Equal(want.Price) {
			t.Fatalf("item %d mismatch: got %+v want %+v", i, got[i], want)
		}
	}
}

func TestEncodeNilIsEmptyArray(t *testing.T) {
	raw, err := Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected [], got %s", raw)
	}
}

func TestDecodeAcceptsNumericPrices(t *testing.T) {
	items, err := Decode([]byte(`[{"id":5,"name":"Hoodie","price":80,"image":"","quantity":1}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !items[0].Price.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("unexpected price %s", items[0].Price)
	}
}

func TestRestoreCorruptValueYieldsEmptyCart(t *testing.T) {
	slots := newStubSlots()
	slots.values["p1/cart"] = []byte(`[{"id":1,"quantity":`)
	var buf bytes.Buffer
	p := NewPersister(slots, "p1", log.New(&buf, "", 0))

	items := p.Restore(context.Background())
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
	if !strings.Contains(buf.String(), "corrupt") {
		t.Fatalf("expected corrupt cart to be logged, got %q", buf.String())
	}
}

func TestRestoreWrongShapeYieldsEmptyCart(t *testing.T) {
	slots := newStubSlots()
	slots.values["p1/cart"] = []byte(`{"items":[]}`)
	p := NewPersister(slots, "p1", nil)
	if items := p.Restore(context.Background()); len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestRestoreMissingAndFailingStorage(t *testing.T) {
	p := NewPersister(newStubSlots(), "p1", nil)
	if items := p.Restore(context.Background()); items != nil {
		t.Fatalf("expected nil for missing slot, got %+v", items)
	}

	slots := newStubSlots()
	slots.getErr = errors.New("boom")
	var buf bytes.Buffer
	p = NewPersister(slots, "p1", log.New(&buf, "", 0))
	if items := p.Restore(context.Background()); items != nil {
		t.Fatalf("expected nil on storage error, got %+v", items)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected storage error to be logged, got %q", buf.String())
	}
}

func TestAttachWritesThroughOnEveryChange(t *testing.T) {
	slots := newStubSlots()
	slots.values["p1/cart"] = []byte(`[{"id":5,"name":"Hoodie","price":"80","image":"","quantity":1}]`)
	p := NewPersister(slots, "p1", nil)

	s := p.Attach(context.Background())
	if s.Count() != 1 {
		t.Fatalf("expected restored cart, got %+v", s.Items())
	}

	s.UpdateQuantity(5, 3, "", "")
	s.AddItem(domain.CartItem{ID: 6, Name: "Cap", Price: decimal.NewFromInt(20), Quantity: 1})

	stored, err := Decode(slots.values["p1/cart"])
	if err != nil {
		t.Fatalf("decode stored: %v", err)
	}
	if len(stored) != 2 || stored[0].Quantity != 3 || stored[1].ID != 6 {
		t.Fatalf("unexpected stored cart %+v", stored)
	}
	if slots.sets != 2 {
		t.Fatalf("expected 2 writes, got %d", slots.sets)
	}

	s.Clear()
	if string(slots.values["p1/cart"]) != "[]" {
		t.Fatalf("expected cleared slot, got %s", slots.values["p1/cart"])
	}
}

func TestSaveFailureIsLoggedNotFatal(t *testing.T) {
	slots := newStubSlots()
	slots.setErr = errors.New("disk full")
	var buf bytes.Buffer
	p := NewPersister(slots, "p1", log.New(&buf, "", 0))

	s := p.Attach(context.Background())
	s.AddItem(domain.CartItem{ID: 1, Price: decimal.NewFromInt(1), Quantity: 1})

	if s.Count() != 1 {
		t.Fatalf("expected in-memory cart to keep the item")
	}
	if !strings.Contains(buf.String(), "disk full") {
		t.Fatalf("expected write failure to be logged, got %q", buf.String())
	}
}
