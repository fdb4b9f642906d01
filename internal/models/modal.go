package models

// ProductModal is a catalog SKU record ("modal" is the domain's own term for
// a product model, not a dialog).
type ProductModal struct {
	ID              int     `json:"id"`
	ProductName     string  `json:"productName"`
	ProductModal    string  `json:"productModal"`
	CompanyName     string  `json:"companyName"`
	ProductCategory string  `json:"productCategory"`
	StorePrice      float64 `json:"storePrice"`
	Rate            float64 `json:"rate"`
}

// Serial number stock states. Any other string from the backend is rendered
// verbatim.
const (
	SerialInStock = "in_stock"
	SerialSold    = "sold"
)

// SerialNumber is one unit of a product modal's serial-number inventory.
type SerialNumber struct {
	ID           int     `json:"id"`
	SerialNumber string  `json:"serialNumber"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
	Rate         float64 `json:"rate"`
}
