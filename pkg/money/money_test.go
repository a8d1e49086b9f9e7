package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestITBMSFixedRate(t *testing.T) {
	t.Parallel()

	subtotal := decimal.RequireFromString("100.00")
	if got := ITBMS(subtotal); !got.Equal(decimal.RequireFromString("7.00")) {
		t.Fatalf("ITBMS(100.00) = %s, want 7.00", got)
	}
	if got := Total(subtotal); !got.Equal(decimal.RequireFromString("107.00")) {
		t.Fatalf("Total(100.00) = %s, want 107.00", got)
	}
}

func TestLineRounding(t *testing.T) {
	t.Parallel()

	// 3 x 19.99 = 59.97, tax 4.1979 -> 4.20
	line := Line(decimal.RequireFromString("19.99"), 3)
	if !line.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("Line = %s, want 59.97", line)
	}
	if got := ITBMS(line); !got.Equal(decimal.RequireFromString("4.20")) {
		t.Fatalf("ITBMS(59.97) = %s, want 4.20", got)
	}
}

func TestEqualAtCurrencyPrecision(t *testing.T) {
	t.Parallel()

	if !Equal(decimal.RequireFromString("7.001"), decimal.RequireFromString("7.0009")) {
		t.Fatal("expected equality after rounding to cents")
	}
	if Equal(decimal.RequireFromString("7.00"), decimal.RequireFromString("7.01")) {
		t.Fatal("expected inequality of distinct cents")
	}
}
