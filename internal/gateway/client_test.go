package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dealerdesk/internal/models"
)

// recordingUpstream captures the last request and serves a canned response.
type recordingUpstream struct {
	method string
	path   string
	query  map[string]string
	body   []byte

	status  int
	payload any
}

func (u *recordingUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u.method = r.Method
		u.path = r.URL.Path
		u.query = map[string]string{}
		for k := range r.URL.Query() {
			u.query[k] = r.URL.Query().Get(k)
		}
		u.body, _ = io.ReadAll(r.Body)

		if u.status == 0 {
			u.status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.status)
		if u.payload != nil {
			json.NewEncoder(w).Encode(u.payload)
		}
	}
}

func newTestClient(t *testing.T, u *recordingUpstream) *Client {
	t.Helper()
	srv := httptest.NewServer(u.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/") // trailing slash must be tolerated
}

func TestListDealersRequest(t *testing.T) {
	upstream := &recordingUpstream{payload: models.Page[models.Dealer]{
		Content:       []models.Dealer{{ID: 1, DealerName: "Sharma Electronics"}},
		TotalElements: 1,
		TotalPages:    1,
		FirstPage:     true,
		LastPage:      true,
	}}
	c := newTestClient(t, upstream)

	page, err := c.ListDealers(context.Background(), 2, 5, "dealerName", "ASC")
	if err != nil {
		t.Fatalf("ListDealers failed: %v", err)
	}

	if upstream.path != "/api/dealer/allDealers" {
		t.Fatalf("unexpected path %q", upstream.path)
	}
	want := map[string]string{"page": "2", "size": "5", "sortBy": "dealerName", "sortDir": "ASC"}
	for k, v := range want {
		if upstream.query[k] != v {
			t.Fatalf("expected query %s=%s, got %q", k, v, upstream.query[k])
		}
	}
	if len(page.Content) != 1 || page.Content[0].DealerName != "Sharma Electronics" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestGetDealerRequest(t *testing.T) {
	upstream := &recordingUpstream{payload: models.Dealer{ID: 42, DealerName: "Verma Traders"}}
	c := newTestClient(t, upstream)

	dealer, err := c.GetDealer(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetDealer failed: %v", err)
	}
	if upstream.path != "/api/dealer/42" {
		t.Fatalf("unexpected path %q", upstream.path)
	}
	if dealer.ID != 42 {
		t.Fatalf("unexpected dealer %+v", dealer)
	}
}

func TestListDealerPaymentsRequest(t *testing.T) {
	upstream := &recordingUpstream{payload: models.Page[models.Payment]{}}
	c := newTestClient(t, upstream)

	if _, err := c.ListDealerPayments(context.Background(), 7, 0, 31, "amountPaid", "desc"); err != nil {
		t.Fatalf("ListDealerPayments failed: %v", err)
	}
	if upstream.path != "/api/dealer/7/payments" {
		t.Fatalf("unexpected path %q", upstream.path)
	}
	if upstream.query["sortBy"] != "amountPaid" || upstream.query["sortDir"] != "desc" {
		t.Fatalf("unexpected sort query %+v", upstream.query)
	}
}

func TestAddDealerPaymentRequest(t *testing.T) {
	upstream := &recordingUpstream{payload: models.Payment{ID: 9, AmountPaid: 5000}}
	c := newTestClient(t, upstream)

	p, err := c.AddDealerPayment(context.Background(), 7, models.CreatePaymentRequest{
		AmountPaid:    5000,
		PaymentMethod: "Cash",
		PaymentDate:   "2025-01-15T10:30",
	})
	if err != nil {
		t.Fatalf("AddDealerPayment failed: %v", err)
	}
	if upstream.method != http.MethodPost || upstream.path != "/api/dealer/7/payments/add" {
		t.Fatalf("unexpected request %s %s", upstream.method, upstream.path)
	}

	var sent models.CreatePaymentRequest
	if err := json.Unmarshal(upstream.body, &sent); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if sent.AmountPaid != 5000 || sent.PaymentMethod != "Cash" || sent.PaymentDate != "2025-01-15T10:30" {
		t.Fatalf("unexpected body %+v", sent)
	}
	if p.ID != 9 {
		t.Fatalf("unexpected payment %+v", p)
	}
}

func TestListDealerBillsRequest(t *testing.T) {
	upstream := &recordingUpstream{payload: models.Page[models.Bill]{}}
	c := newTestClient(t, upstream)

	if _, err := c.ListDealerBills(context.Background(), 7, 1, 10); err != nil {
		t.Fatalf("ListDealerBills failed: %v", err)
	}
	if upstream.path != "/api/ebill/all" {
		t.Fatalf("unexpected path %q", upstream.path)
	}
	if upstream.query["dealerId"] != "7" || upstream.query["page"] != "1" || upstream.query["size"] != "10" {
		t.Fatalf("unexpected query %+v", upstream.query)
	}
}

func TestModalRequests(t *testing.T) {
	upstream := &recordingUpstream{payload: models.Page[models.ProductModal]{}}
	c := newTestClient(t, upstream)

	if _, err := c.ListModals(context.Background(), 0, 15, "DESC"); err != nil {
		t.Fatalf("ListModals failed: %v", err)
	}
	if upstream.path != "/api/modal/all_modals" {
		t.Fatalf("unexpected path %q", upstream.path)
	}

	if _, err := c.SearchModals(context.Background(), "samsung tv", 0, 15, "DESC"); err != nil {
		t.Fatalf("SearchModals failed: %v", err)
	}
	if upstream.path != "/api/modal/searchProduct" {
		t.Fatalf("unexpected path %q", upstream.path)
	}
	if upstream.query["str"] != "samsung tv" {
		t.Fatalf("expected search term passed as str, got %+v", upstream.query)
	}
}

func TestGetModalSerialsRequest(t *testing.T) {
	upstream := &recordingUpstream{payload: models.Page[models.SerialNumber]{}}
	c := newTestClient(t, upstream)

	if _, err := c.GetModalSerials(context.Background(), 3, 0, 15, "DESC"); err != nil {
		t.Fatalf("GetModalSerials failed: %v", err)
	}
	if upstream.path != "/api/modal/all/3" {
		t.Fatalf("unexpected path %q", upstream.path)
	}
}

func TestResponseErrorCarriesStatus(t *testing.T) {
	upstream := &recordingUpstream{status: http.StatusInternalServerError}
	c := newTestClient(t, upstream)

	_, err := c.GetDealer(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	status, ok := IsResponse(err)
	if !ok || status != http.StatusInternalServerError {
		t.Fatalf("expected response error with status 500, got %v (%v)", status, err)
	}
	if IsTransport(err) {
		t.Fatal("HTTP error must not classify as transport error")
	}
}

func TestTransportErrorOnUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	c := NewClient(srv.URL)

	_, err := c.GetDealer(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for unreachable upstream")
	}
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if _, ok := IsResponse(err); ok {
		t.Fatal("transport failure must not classify as response error")
	}
}

func TestDecodeErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()
	c := NewClient(srv.URL)

	_, err := c.GetDealer(context.Background(), 1)
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if !IsTransport(err) {
		t.Fatalf("expected decode failure to classify as transport error, got %v", err)
	}
}
