package enums

import "fmt"

// MetodoPago describes how a buyer settles an order.
type MetodoPago string

const (
	MetodoPagoEfectivo      MetodoPago = "efectivo"
	MetodoPagoTarjeta       MetodoPago = "tarjeta"
	MetodoPagoTransferencia MetodoPago = "transferencia"
)

var validMetodosPago = []MetodoPago{
	MetodoPagoEfectivo,
	MetodoPagoTarjeta,
	MetodoPagoTransferencia,
}

// String implements fmt.Stringer.
func (m MetodoPago) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MetodoPago.
func (m MetodoPago) IsValid() bool {
	for _, candidate := range validMetodosPago {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMetodoPago converts raw input into a MetodoPago.
func ParseMetodoPago(value string) (MetodoPago, error) {
	for _, candidate := range validMetodosPago {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
