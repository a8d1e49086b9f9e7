package enums

import "fmt"

// ProductStatus controls storefront visibility. Only activo products are
// listed or purchasable.
type ProductStatus string

const (
	ProductStatusActivo   ProductStatus = "activo"
	ProductStatusInactivo ProductStatus = "inactivo"
	ProductStatusAgotado  ProductStatus = "agotado"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActivo,
	ProductStatusInactivo,
	ProductStatusAgotado,
}

// String implements fmt.Stringer.
func (p ProductStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductStatus.
func (p ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
