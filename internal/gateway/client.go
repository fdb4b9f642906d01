package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dealerdesk/internal/metrics"
	"dealerdesk/internal/models"
)

// Client is a typed wrapper over the upstream dealer/inventory REST API.
// Every call is fire-once: no retries, no client-side timeout, no caching.
// Cancellation is the caller's job via the context.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given base URL, e.g.
// "http://localhost:9000". A trailing slash is trimmed.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// ListDealers fetches one page of dealers.
func (c *Client) ListDealers(ctx context.Context, page, size int, sortBy, sortDir string) (models.Page[models.Dealer], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortBy", sortBy)
	q.Set("sortDir", sortDir)
	return getJSON[models.Page[models.Dealer]](ctx, c, "ListDealers", "/api/dealer/allDealers", q)
}

// GetDealer fetches a single dealer by id.
func (c *Client) GetDealer(ctx context.Context, id int) (models.Dealer, error) {
	return getJSON[models.Dealer](ctx, c, "GetDealer", fmt.Sprintf("/api/dealer/%d", id), nil)
}

// ListDealerPayments fetches one page of a dealer's payment history.
func (c *Client) ListDealerPayments(ctx context.Context, dealerID, page, size int, sortBy, sortDir string) (models.Page[models.Payment], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortBy", sortBy)
	q.Set("sortDir", sortDir)
	return getJSON[models.Page[models.Payment]](ctx, c, "ListDealerPayments", fmt.Sprintf("/api/dealer/%d/payments", dealerID), q)
}

// AddDealerPayment records a new payment for a dealer. This is the one
// non-idempotent call: the caller must not double-submit.
func (c *Client) AddDealerPayment(ctx context.Context, dealerID int, req models.CreatePaymentRequest) (models.Payment, error) {
	return postJSON[models.Payment](ctx, c, "AddDealerPayment", fmt.Sprintf("/api/dealer/%d/payments/add", dealerID), req)
}

// ListDealerBills fetches one page of a dealer's e-bills.
func (c *Client) ListDealerBills(ctx context.Context, dealerID, page, size int) (models.Page[models.Bill], error) {
	q := url.Values{}
	q.Set("dealerId", strconv.Itoa(dealerID))
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return getJSON[models.Page[models.Bill]](ctx, c, "ListDealerBills", "/api/ebill/all", q)
}

// ListModals fetches one page of product modals.
func (c *Client) ListModals(ctx context.Context, page, size int, sortDir string) (models.Page[models.ProductModal], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortDir", sortDir)
	return getJSON[models.Page[models.ProductModal]](ctx, c, "ListModals", "/api/modal/all_modals", q)
}

// GetModalSerials fetches one page of a modal's serial-number inventory.
func (c *Client) GetModalSerials(ctx context.Context, modalID, page, size int, sortDir string) (models.Page[models.SerialNumber], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortDir", sortDir)
	return getJSON[models.Page[models.SerialNumber]](ctx, c, "GetModalSerials", fmt.Sprintf("/api/modal/all/%d", modalID), q)
}

// SearchModals fetches one page of modals matching the search string.
func (c *Client) SearchModals(ctx context.Context, query string, page, size int, sortDir string) (models.Page[models.ProductModal], error) {
	q := url.Values{}
	q.Set("str", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortDir", sortDir)
	return getJSON[models.Page[models.ProductModal]](ctx, c, "SearchModals", "/api/modal/searchProduct", q)
}

// Ping probes upstream reachability with a minimal dealers query. Used by the
// health endpoints, not by the views.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListDealers(ctx, 0, 1, "id", "ASC")
	return err
}

func getJSON[T any](ctx context.Context, c *Client, op, path string, q url.Values) (T, error) {
	var zero T

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return zero, &TransportError{Op: op, Err: err}
	}
	return do[T](c, op, req)
}

func postJSON[T any](ctx context.Context, c *Client, op, path string, body interface{}) (T, error) {
	var zero T

	payload, err := json.Marshal(body)
	if err != nil {
		return zero, &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return zero, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return do[T](c, op, req)
}

func do[T any](c *Client, op string, req *http.Request) (T, error) {
	var zero T

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return zero, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "http_error").Inc()
		return zero, &ResponseError{Op: op, StatusCode: resp.StatusCode}
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "decode_error").Inc()
		return zero, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(op, "ok").Inc()
	return out, nil
}
