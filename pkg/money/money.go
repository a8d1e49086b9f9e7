// Package money centralizes currency arithmetic for the storefront. All
// amounts are two-decimal dollar values; the ITBMS sales tax is a fixed 7%.
package money

import "github.com/shopspring/decimal"

// ITBMSRate is the fixed transaction-tax rate applied to every subtotal.
var ITBMSRate = decimal.NewFromFloat(0.07)

// Round normalizes an amount to two-decimal currency precision.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Line returns precio * cantidad rounded to currency precision.
func Line(precio decimal.Decimal, cantidad int) decimal.Decimal {
	return Round(precio.Mul(decimal.NewFromInt(int64(cantidad))))
}

// ITBMS returns the tax owed on the given subtotal.
func ITBMS(subtotal decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Mul(ITBMSRate))
}

// Total returns subtotal plus its ITBMS.
func Total(subtotal decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Add(ITBMS(subtotal)))
}

// Equal compares two amounts at currency precision.
func Equal(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}
