package models

// Bill is an e-bill (invoice) aggregating billed items for a dealer. Bills
// are generated entirely server-side; the dashboard renders the object as
// provided and never recomputes its sums.
type Bill struct {
	ID            int          `json:"id"`
	BillDate      string       `json:"billDate"`
	PaymentMethod string       `json:"paymentMethod"`
	Dealer        *Dealer      `json:"dealer,omitempty"`
	Items         []BillItem   `json:"items"`
	BillingSumma  BillingSumma `json:"billingSumma"`
}

// BillItem is one line of a bill.
type BillItem struct {
	ID           int     `json:"id"`
	ProductName  string  `json:"productName"`
	SerialNumber string  `json:"serialNumber"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

// BillingSumma carries the server-computed totals of a bill.
type BillingSumma struct {
	TotalAmount float64 `json:"totalAmount"`
}
