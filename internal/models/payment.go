package models

// Payment method values accepted by the upstream backend.
const (
	MethodCash         = "Cash"
	MethodOnline       = "Online"
	MethodCheque       = "Cheque"
	MethodBankTransfer = "Bank Transfer"
)

// PaymentMethods lists the selectable methods in display order.
var PaymentMethods = []string{MethodCash, MethodOnline, MethodCheque, MethodBankTransfer}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// Payment is one recorded payment of a dealer. PaymentDate is the backend's
// zone-less local datetime string (e.g. "2025-11-24T14:30:00").
type Payment struct {
	ID            int     `json:"id"`
	AmountPaid    float64 `json:"amountPaid"`
	PaymentMethod string  `json:"paymentMethod"`
	PaymentDate   string  `json:"paymentDate"`
}

// CreatePaymentRequest is the POST body for recording a new payment.
type CreatePaymentRequest struct {
	AmountPaid    float64 `json:"amountPaid"`
	PaymentMethod string  `json:"paymentMethod"`
	PaymentDate   string  `json:"paymentDate"`
}
