package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dealerdesk/internal/session"
	"dealerdesk/internal/view"
)

type ModalHandler struct {
	Sessions *session.Store
}

func NewModalHandler(sessions *session.Store) *ModalHandler {
	return &ModalHandler{Sessions: sessions}
}

// Modals mounts (or remounts) the modals list and returns its snapshot.
func (h *ModalHandler) Modals(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Get(w, r)
	listSnapshot(w, s.Modals(true))
}

// ModalsState returns the current snapshot without refetching. The page
// script polls this after typing into the search box, once the debounce
// window has passed.
func (h *ModalHandler) ModalsState(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Get(w, r)
	listSnapshot(w, s.Modals(false))
}

// ModalsPage applies a pagination action.
func (h *ModalHandler) ModalsPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s := h.Sessions.Get(w, r)
	v := s.Modals(false)
	applyPage(v, req)
	listSnapshot(w, v)
}

// ModalsSort toggles the sort direction.
func (h *ModalHandler) ModalsSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s := h.Sessions.Get(w, r)
	v := s.Modals(false)
	applySort(v, req)
	listSnapshot(w, v)
}

// ModalsPageSize changes the page size (resets to the first page).
func (h *ModalHandler) ModalsPageSize(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s := h.Sessions.Get(w, r)
	v := s.Modals(false)
	v.SetPageSize(req.Size)
	listSnapshot(w, v)
}

// ModalsSearch records a search keystroke. The fetch only fires after the
// debounce window; the snapshot returned here just echoes the input.
func (h *ModalHandler) ModalsSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s := h.Sessions.Get(w, r)
	v := s.Modals(false)
	v.SetSearch(req.Query)
	listSnapshot(w, v)
}

func (h *ModalHandler) serials(w http.ResponseWriter, r *http.Request) (*view.ModalDetail, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid modal ID", http.StatusBadRequest)
		return nil, false
	}
	s := h.Sessions.Get(w, r)
	return s.ModalDetail(id), true
}

// Serials mounts the serial-number view for one modal and returns its
// snapshot.
func (h *ModalHandler) Serials(w http.ResponseWriter, r *http.Request) {
	m, ok := h.serials(w, r)
	if !ok {
		return
	}
	listSnapshot(w, m.Serials)
}

// SerialsPage applies a pagination action.
func (h *ModalHandler) SerialsPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	m, ok := h.serials(w, r)
	if !ok {
		return
	}
	applyPage(m.Serials, req)
	listSnapshot(w, m.Serials)
}

// SerialsSort toggles the sort direction.
func (h *ModalHandler) SerialsSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	m, ok := h.serials(w, r)
	if !ok {
		return
	}
	applySort(m.Serials, req)
	listSnapshot(w, m.Serials)
}

// SerialsPageSize changes the page size (resets to the first page).
func (h *ModalHandler) SerialsPageSize(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	m, ok := h.serials(w, r)
	if !ok {
		return
	}
	m.Serials.SetPageSize(req.Size)
	listSnapshot(w, m.Serials)
}
