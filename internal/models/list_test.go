package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func nullDec(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	return decimal.NullDecimal{Decimal: dec(t, s), Valid: true}
}

func TestItemTotal(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{
			name: "value times quantity",
			item: Item{Quantity: 2, Value: decimal.NullDecimal{Decimal: decimal.RequireFromString("5.00"), Valid: true}},
			want: "10",
		},
		{
			name: "no value means zero",
			item: Item{Quantity: 3},
			want: "0",
		},
		{
			name: "single quantity",
			item: Item{Quantity: 1, Value: decimal.NullDecimal{Decimal: decimal.RequireFromString("19.99"), Valid: true}},
			want: "19.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Total(); !got.Equal(dec(t, tt.want)) {
				t.Errorf("Total() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestListSubtotal(t *testing.T) {
	list := &List{
		Items: []Item{
			{Quantity: 2, Value: nullDec(t, "5.00"), IsActive: true},
			{Quantity: 1, Value: nullDec(t, "10.00"), IsActive: true},
			{Quantity: 4, Value: nullDec(t, "99.00"), IsActive: false},
			{Quantity: 3, IsActive: true}, // no value
		},
	}

	if got := list.Subtotal(); !got.Equal(dec(t, "20.00")) {
		t.Errorf("Subtotal() = %s, want 20.00", got)
	}
}

func TestListSubtotalEmpty(t *testing.T) {
	list := &List{}
	if got := list.Subtotal(); !got.IsZero() {
		t.Errorf("Subtotal() = %s, want 0", got)
	}
}

func TestListReserve(t *testing.T) {
	list := &List{
		Threshold: nullDec(t, "100.00"),
		Items: []Item{
			{Quantity: 2, Value: nullDec(t, "15.00"), IsActive: true},
		},
	}

	reserve, ok := list.Reserve()
	if !ok {
		t.Fatal("expected reserve to be defined")
	}
	if !reserve.Equal(dec(t, "70.00")) {
		t.Errorf("Reserve() = %s, want 70.00", reserve)
	}
}

func TestListReserveUnsetThreshold(t *testing.T) {
	list := &List{
		Items: []Item{{Quantity: 1, Value: nullDec(t, "5.00"), IsActive: true}},
	}
	if _, ok := list.Reserve(); ok {
		t.Error("expected reserve to be undefined without a threshold")
	}
}

func TestHasParticipant(t *testing.T) {
	list := &List{ParticipantIDs: []string{"u1", "u2"}}
	if !list.HasParticipant("u1") {
		t.Error("expected u1 to be a participant")
	}
	if list.HasParticipant("u3") {
		t.Error("did not expect u3 to be a participant")
	}
}
