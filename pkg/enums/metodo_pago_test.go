package enums

import "testing"

func TestParseMetodoPago(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"efectivo", "tarjeta", "transferencia"} {
		m, err := ParseMetodoPago(valid)
		if err != nil {
			t.Fatalf("ParseMetodoPago(%q): %v", valid, err)
		}
		if !m.IsValid() {
			t.Fatalf("expected %q to be valid", valid)
		}
	}

	for _, invalid := range []string{"", "paypal", "Efectivo"} {
		if _, err := ParseMetodoPago(invalid); err == nil {
			t.Fatalf("expected error for %q", invalid)
		}
	}
}
