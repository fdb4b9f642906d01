package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"dealerdesk/internal/models"
	"dealerdesk/internal/session"
	"dealerdesk/internal/view"
	"dealerdesk/pkg/utils"
)

// waitBudget caps how long a state endpoint waits for an in-flight fetch
// before answering with a still-loading snapshot (the page script re-polls).
const waitBudget = 3 * time.Second

// pageRequest drives pagination: "next"/"prev" actions from the buttons, or
// a direct page number.
type pageRequest struct {
	Action string `json:"action,omitempty"`
	Page   *int   `json:"page,omitempty"`
	Size   int    `json:"size,omitempty"`
}

// sortRequest drives sorting: a new field, a direction toggle, or both.
type sortRequest struct {
	Field     string `json:"field,omitempty"`
	ToggleDir bool   `json:"toggleDir,omitempty"`
}

type DealerHandler struct {
	Sessions *session.Store
}

func NewDealerHandler(sessions *session.Store) *DealerHandler {
	return &DealerHandler{Sessions: sessions}
}

// dealerDetailResponse is the combined snapshot of the dealer detail page.
type dealerDetailResponse struct {
	Detail   view.DetailSnapshot           `json:"detail"`
	Payments view.Snapshot[models.Payment] `json:"payments"`
	Bills    view.Snapshot[models.Bill]    `json:"bills"`
	Form     view.FormSnapshot             `json:"form"`
}

func applyPage[T any](p *view.PagedQuery[T], req pageRequest) {
	switch {
	case req.Action == "next":
		p.NextPage()
	case req.Action == "prev":
		p.PrevPage()
	case req.Page != nil:
		p.SetPage(*req.Page)
	}
}

func applySort[T any](p *view.PagedQuery[T], req sortRequest) {
	if req.Field != "" {
		p.SetSortBy(req.Field)
	}
	if req.ToggleDir {
		p.ToggleSortDir()
	}
}

func listSnapshot[T any](w http.ResponseWriter, p *view.PagedQuery[T]) {
	p.WaitIdle(waitBudget)
	utils.JSON(w, http.StatusOK, p.Snapshot())
}

// Dealers mounts (or remounts) the dealers list and returns its snapshot.
func (h *DealerHandler) Dealers(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Get(w, r)
	listSnapshot(w, s.Dealers(true))
}

// DealersState returns the current snapshot without refetching.
func (h *DealerHandler) DealersState(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Get(w, r)
	listSnapshot(w, s.Dealers(false))
}

// DealersPage applies a pagination action.
func (h *DealerHandler) DealersPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s := h.Sessions.Get(w, r)
	v := s.Dealers(false)
	applyPage(v, req)
	listSnapshot(w, v)
}

// DealersSort applies a sort-field change or direction toggle.
func (h *DealerHandler) DealersSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s := h.Sessions.Get(w, r)
	v := s.Dealers(false)
	applySort(v, req)
	listSnapshot(w, v)
}

// DealersPageSize changes the page size (resets to the first page).
func (h *DealerHandler) DealersPageSize(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s := h.Sessions.Get(w, r)
	v := s.Dealers(false)
	v.SetPageSize(req.Size)
	listSnapshot(w, v)
}

func (h *DealerHandler) detail(w http.ResponseWriter, r *http.Request) (*view.DealerDetail, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid dealer ID", http.StatusBadRequest)
		return nil, false
	}
	s := h.Sessions.Get(w, r)
	return s.DealerDetail(id), true
}

func (h *DealerHandler) detailSnapshot(w http.ResponseWriter, d *view.DealerDetail) {
	d.WaitIdle(waitBudget)
	d.Payments.WaitIdle(waitBudget)
	d.Bills.WaitIdle(waitBudget)
	utils.JSON(w, http.StatusOK, dealerDetailResponse{
		Detail:   d.Snapshot(),
		Payments: d.Payments.Snapshot(),
		Bills:    d.Bills.Snapshot(),
		Form:     d.Form.Snapshot(),
	})
}

// DealerDetail mounts the detail view for one dealer and returns the
// combined snapshot.
func (h *DealerHandler) DealerDetail(w http.ResponseWriter, r *http.Request) {
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	h.detailSnapshot(w, d)
}

// DealerTab toggles the payments/ebills panel.
func (h *DealerHandler) DealerTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	d.ToggleTab(req.Tab)
	h.detailSnapshot(w, d)
}

// PaymentsPage applies a pagination action to the payment history.
func (h *DealerHandler) PaymentsPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	applyPage(d.Payments, req)
	h.detailSnapshot(w, d)
}

// PaymentsSort applies a sort change to the payment history.
func (h *DealerHandler) PaymentsSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	applySort(d.Payments, req)
	h.detailSnapshot(w, d)
}

// BillsPage applies a pagination action to the e-bills list.
func (h *DealerHandler) BillsPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	applyPage(d.Bills, req)
	h.detailSnapshot(w, d)
}

// PaymentEdit updates the drafted payment fields.
func (h *DealerHandler) PaymentEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
		Method string `json:"method"`
		Date   string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	d.Form.SetDraft(req.Amount, req.Method, req.Date)
	utils.JSON(w, http.StatusOK, d.Form.Snapshot())
}

// PaymentNext validates the draft and moves to the review step.
func (h *DealerHandler) PaymentNext(w http.ResponseWriter, r *http.Request) {
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	d.Form.Next()
	utils.JSON(w, http.StatusOK, d.Form.Snapshot())
}

// PaymentBack returns from review to editing, drafts intact.
func (h *DealerHandler) PaymentBack(w http.ResponseWriter, r *http.Request) {
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	d.Form.Back()
	utils.JSON(w, http.StatusOK, d.Form.Snapshot())
}

// PaymentConfirm submits the reviewed payment and returns the combined
// snapshot after the refetches settle.
func (h *DealerHandler) PaymentConfirm(w http.ResponseWriter, r *http.Request) {
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	d.Form.Confirm()
	d.Form.WaitSettled(waitBudget)
	h.detailSnapshot(w, d)
}

// PaymentAck acknowledges the blocking submission-failure notice.
func (h *DealerHandler) PaymentAck(w http.ResponseWriter, r *http.Request) {
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	d.Form.AcknowledgeError()
	utils.JSON(w, http.StatusOK, d.Form.Snapshot())
}

// PaymentReset reopens the dialog with fresh defaults.
func (h *DealerHandler) PaymentReset(w http.ResponseWriter, r *http.Request) {
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	d.Form.Reset()
	utils.JSON(w, http.StatusOK, d.Form.Snapshot())
}
