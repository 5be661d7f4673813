package enums

import "fmt"

// ProductType describes the allowed values for the product `type` column.
type ProductType string

const (
	ProductTypeLaptop     ProductType = "Laptop"
	ProductTypeElectronic ProductType = "Electronic"
)

var validProductTypes = []ProductType{
	ProductTypeLaptop,
	ProductTypeElectronic,
}

// IsValid reports whether the value matches the canonical product type enum.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts the raw string to ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
