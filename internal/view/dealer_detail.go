package view

import (
	"context"
	"log"
	"sync"
	"time"

	"dealerdesk/internal/models"
)

// Detail tabs.
const (
	TabPayments = "payments"
	TabEBills   = "ebills"
)

// DetailSnapshot is the renderable state of the dealer detail header.
type DetailSnapshot struct {
	Dealer    models.Dealer `json:"dealer"`
	Loaded    bool          `json:"loaded"`
	Loading   bool          `json:"loading"`
	Error     string        `json:"error,omitempty"`
	ActiveTab string        `json:"activeTab,omitempty"`
}

// DealerDetail owns one dealer's detail view: the dealer snapshot, the
// payments and e-bills collections, and the add-payment form. After a payment
// is recorded it refetches the parent dealer and the payment collection
// independently; the backend applies the payment, the client never adds the
// amount to its stale copy.
type DealerDetail struct {
	mu        sync.Mutex
	id        int
	api       API
	dealer    models.Dealer
	loaded    bool
	loading   bool
	errMsg    string
	seq       uint64
	activeTab string

	Payments *PagedQuery[models.Payment]
	Bills    *PagedQuery[models.Bill]
	Form     *PaymentForm

	ctx    context.Context
	cancel context.CancelFunc
}

// NewDealerDetail builds the detail view for one dealer without fetching.
func NewDealerDetail(parent context.Context, api API, id int) *DealerDetail {
	ctx, cancel := context.WithCancel(parent)

	d := &DealerDetail{
		id:     id,
		api:    api,
		ctx:    ctx,
		cancel: cancel,
	}

	d.Payments = NewPagedQuery(ctx, Options[models.Payment]{
		Name:    "payments",
		Size:    PaymentsPageSize,
		SortBy:  "amountPaid",
		SortDir: "desc",
		Fetch: func(ctx context.Context, q Query) (models.Page[models.Payment], error) {
			return api.ListDealerPayments(ctx, id, q.Page, q.Size, q.SortBy, q.SortDir)
		},
	})

	d.Bills = NewPagedQuery(ctx, Options[models.Bill]{
		Name: "bills",
		Size: BillsPageSize,
		Fetch: func(ctx context.Context, q Query) (models.Page[models.Bill], error) {
			return api.ListDealerBills(ctx, id, q.Page, q.Size)
		},
	})

	d.Form = NewPaymentForm(ctx,
		func(ctx context.Context, req models.CreatePaymentRequest) error {
			_, err := api.AddDealerPayment(ctx, id, req)
			return err
		},
		d.refreshAfterPayment,
	)

	return d
}

// ID returns the dealer id this view is bound to.
func (d *DealerDetail) ID() int { return d.id }

// Load fetches the dealer record.
func (d *DealerDetail) Load() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fetchDealer()
}

// fetchDealer starts one dealer fetch. Caller holds d.mu. Sequence-tagged
// like PagedQuery so a slow response cannot overwrite a newer one.
func (d *DealerDetail) fetchDealer() {
	d.seq++
	seq := d.seq
	d.loading = true
	d.errMsg = ""
	ctx := d.ctx

	go func() {
		dealer, err := d.api.GetDealer(ctx, d.id)

		d.mu.Lock()
		defer d.mu.Unlock()
		if seq != d.seq {
			return
		}
		d.loading = false
		if err != nil {
			log.Printf("[View] dealer %d fetch failed: %v", d.id, err)
			d.errMsg = "Failed to load dealer details."
			return
		}
		d.dealer = dealer
		d.loaded = true
	}()
}

// ToggleTab opens the named tab, or closes it when it is already active.
// Opening a collection tab refetches it, mirroring the original dashboard.
func (d *DealerDetail) ToggleTab(tab string) {
	d.mu.Lock()
	if d.activeTab == tab {
		d.activeTab = ""
		d.mu.Unlock()
		return
	}
	d.activeTab = tab
	d.mu.Unlock()

	switch tab {
	case TabPayments:
		d.Payments.Reload()
	case TabEBills:
		d.Bills.Reload()
	}
}

// refreshAfterPayment runs after a payment was successfully recorded: one
// parent refetch and one collection refetch, each failing independently of
// the other. The payments tab is forced open so the new record is visible.
func (d *DealerDetail) refreshAfterPayment() {
	d.mu.Lock()
	d.activeTab = TabPayments
	d.fetchDealer()
	d.mu.Unlock()

	d.Payments.Reload()
}

// WaitIdle blocks until the dealer fetch settled, or the wait budget runs
// out. It reports whether the view went idle.
func (d *DealerDetail) WaitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		d.mu.Lock()
		busy := d.loading
		d.mu.Unlock()
		if !busy {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// Snapshot returns the current renderable header state.
func (d *DealerDetail) Snapshot() DetailSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DetailSnapshot{
		Dealer:    d.dealer,
		Loaded:    d.loaded,
		Loading:   d.loading,
		Error:     d.errMsg,
		ActiveTab: d.activeTab,
	}
}

// Close detaches the view and its children; in-flight results are dropped.
func (d *DealerDetail) Close() {
	d.Payments.Close()
	d.Bills.Close()
	d.cancel()
	d.mu.Lock()
	d.seq++ // orphan any in-flight dealer fetch
	d.mu.Unlock()
}
