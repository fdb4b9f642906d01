// Package view holds the per-session UI state controllers: the generic
// paginated/sorted/searched list query, the two-step payment confirmation
// form, and the dealer detail view that keeps parent aggregates and child
// collections consistent after a mutation. Controllers never compute business
// values; they only hold what the upstream backend last returned.
package view

import (
	"context"
	"time"

	"dealerdesk/internal/models"
)

// API is the slice of the upstream gateway the views consume.
// *gateway.Client satisfies it; tests plug in fakes.
type API interface {
	ListDealers(ctx context.Context, page, size int, sortBy, sortDir string) (models.Page[models.Dealer], error)
	GetDealer(ctx context.Context, id int) (models.Dealer, error)
	ListDealerPayments(ctx context.Context, dealerID, page, size int, sortBy, sortDir string) (models.Page[models.Payment], error)
	AddDealerPayment(ctx context.Context, dealerID int, req models.CreatePaymentRequest) (models.Payment, error)
	ListDealerBills(ctx context.Context, dealerID, page, size int) (models.Page[models.Bill], error)
	ListModals(ctx context.Context, page, size int, sortDir string) (models.Page[models.ProductModal], error)
	GetModalSerials(ctx context.Context, modalID, page, size int, sortDir string) (models.Page[models.SerialNumber], error)
	SearchModals(ctx context.Context, query string, page, size int, sortDir string) (models.Page[models.ProductModal], error)
}

// List view defaults, matching the original dashboard.
const (
	DealersPageSize  = 5
	PaymentsPageSize = 31
	BillsPageSize    = 10
	ModalsPageSize   = 15
)

// NewDealersView builds the dealers list controller. The dealers list is not
// searchable; sortable fields are id, dealerName, totalAmount, paidAmount
// (passed through verbatim, the backend owns the accepted set).
func NewDealersView(ctx context.Context, api API) *PagedQuery[models.Dealer] {
	return NewPagedQuery(ctx, Options[models.Dealer]{
		Name:    "dealers",
		Size:    DealersPageSize,
		SortBy:  "dealerName",
		SortDir: "ASC",
		Fetch: func(ctx context.Context, q Query) (models.Page[models.Dealer], error) {
			return api.ListDealers(ctx, q.Page, q.Size, q.SortBy, q.SortDir)
		},
	})
}

// NewModalsView builds the product-modals list controller, the one searchable
// list. debounce <= 0 means the 500ms default.
func NewModalsView(ctx context.Context, api API, debounce time.Duration) *PagedQuery[models.ProductModal] {
	return NewPagedQuery(ctx, Options[models.ProductModal]{
		Name:     "modals",
		Size:     ModalsPageSize,
		SortDir:  "DESC",
		Debounce: debounce,
		Fetch: func(ctx context.Context, q Query) (models.Page[models.ProductModal], error) {
			return api.ListModals(ctx, q.Page, q.Size, q.SortDir)
		},
		SearchFetch: func(ctx context.Context, q Query) (models.Page[models.ProductModal], error) {
			return api.SearchModals(ctx, q.Search, q.Page, q.Size, q.SortDir)
		},
	})
}
