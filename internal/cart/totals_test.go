package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotalWorkedExample(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{ProductID: 1, UnitPrice: money("89.99"), Quantity: 2},
		{ProductID: 2, UnitPrice: money("29.99"), Quantity: 1},
	}

	if got := Subtotal(lines); !got.Equal(money("209.97")) {
		t.Fatalf("subtotal = %s, want 209.97", got)
	}
	if got := ItemCount(lines); got != 3 {
		t.Fatalf("item count = %d, want 3", got)
	}
}

func TestItemCountSumsQuantities(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{ProductID: 1, UnitPrice: money("5.00"), Quantity: 4},
		{ProductID: 2, UnitPrice: money("7.25"), Quantity: 1},
		{ProductID: 3, UnitPrice: money("1.10"), Quantity: 10},
	}
	if got := ItemCount(lines); got != 15 {
		t.Fatalf("item count = %d, want 15", got)
	}
}

func TestSubtotalEmptyCartIsZero(t *testing.T) {
	t.Parallel()

	if got := Subtotal(nil); !got.IsZero() {
		t.Fatalf("subtotal of empty cart = %s, want 0", got)
	}
	if got := ItemCount(nil); got != 0 {
		t.Fatalf("item count of empty cart = %d, want 0", got)
	}
}

// Subtotal must equal the sum of per-line subtotals for any cart, and adding
// a line must raise the total by exactly that line's subtotal.
func TestSubtotalMatchesLineSums(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		var lines []Line
		expected := decimal.Zero
		for i := 0; i < rng.Intn(12); i++ {
			l := Line{
				ProductID: int64(i + 1),
				UnitPrice: decimal.NewFromInt(int64(rng.Intn(10000))).Div(hundred),
				Quantity:  1 + rng.Intn(20),
			}
			before := Subtotal(lines)
			lines = append(lines, l)
			after := Subtotal(lines)
			if !after.Sub(before).Equal(LineSubtotal(l)) {
				t.Fatalf("adding line changed total by %s, want %s", after.Sub(before), LineSubtotal(l))
			}
			expected = expected.Add(LineSubtotal(l))
		}
		if got := Subtotal(lines); !got.Equal(expected) {
			t.Fatalf("subtotal = %s, want %s", got, expected)
		}
	}
}

func TestDiscountPercent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		unit     string
		original string
		want     int
	}{
		{"quarter off", "89.99", "119.99", 25},
		{"no original price", "14.50", "0", 0},
		{"original below sale", "20.00", "15.00", 0},
		{"half off", "10.00", "20.00", 50},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			l := Line{UnitPrice: money(tc.unit), OriginalPrice: money(tc.original)}
			if got := DiscountPercent(l); got != tc.want {
				t.Fatalf("discount percent = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDiscountAmountNeverNegative(t *testing.T) {
	t.Parallel()

	l := Line{UnitPrice: money("20.00"), OriginalPrice: money("15.00")}
	if got := DiscountAmount(l); !got.IsZero() {
		t.Fatalf("discount amount = %s, want 0", got)
	}
}
