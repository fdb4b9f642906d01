package models

// Dealer is a business partner record as served by the upstream backend.
// totalAmount and paidAmount are both set server-side; the dashboard only
// displays them and the derived balance, it never applies a payment locally.
type Dealer struct {
	ID            int     `json:"id"`
	DealerName    string  `json:"dealerName"`
	DealerPhone   string  `json:"dealerPhone"`
	DealerEmail   string  `json:"dealerEmail"`
	DealerAddress string  `json:"dealerAddress"`
	TotalAmount   float64 `json:"totalAmount"`
	PaidAmount    float64 `json:"paidAmount"`
	Note          string  `json:"note,omitempty"`
	DealerDate    *string `json:"dealerDate"`
}

// Balance returns paidAmount - totalAmount. Negative means the dealer still
// owes money, positive means overpayment.
func (d Dealer) Balance() float64 {
	return d.PaidAmount - d.TotalAmount
}

// Overpaid reports whether the dealer has paid more than the billed total.
func (d Dealer) Overpaid() bool {
	return d.PaidAmount > d.TotalAmount
}
