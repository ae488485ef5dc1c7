package domain

import "time"

type ProductType string

const (
	ProductTypeReturnable    ProductType = "Returnable"
	ProductTypeNonReturnable ProductType = "Non-returnable"
)

// Valid reports whether t is one of the known product types
func (t ProductType) Valid() bool {
	return t == ProductTypeReturnable || t == ProductTypeNonReturnable
}

// Asset is a stock-keeping unit owned by one HR account.
// AvailableQuantity is only ever changed by the inventory ledger.
type Asset struct {
	ID                string      `json:"id"`
	ProductName       string      `json:"product_name"`
	ProductImage      string      `json:"product_image"`
	ProductType       ProductType `json:"product_type"`
	CompanyName       string      `json:"company_name"`
	TotalQuantity     int32       `json:"total_quantity"`
	AvailableQuantity int32       `json:"available_quantity"`
	OwnerHRID         string      `json:"owner_hr_id"`
	CreatedAt         time.Time   `json:"created_at"`
}

// AssetDetails are the descriptive fields an owner may edit. A nil field is
// left unchanged.
type AssetDetails struct {
	ProductName  *string
	ProductImage *string
}
