package handlers

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dealerdesk/templates"
)

type PageHandler struct {
	templates *template.Template
}

func NewPageHandler() *PageHandler {
	// Parse all templates from embedded filesystem
	templates := template.Must(template.ParseFS(templates.FS, "*.html"))

	return &PageHandler{
		templates: templates,
	}
}

// DealersPage serves the dealers list page.
func (h *PageHandler) DealersPage(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "dealers.html", nil)
}

// DealerDetailPage serves one dealer's detail page.
func (h *PageHandler) DealerDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid dealer ID", http.StatusBadRequest)
		return
	}
	h.templates.ExecuteTemplate(w, "dealer_detail.html", map[string]int{"ID": id})
}

// ModalsPage serves the product modals list page.
func (h *PageHandler) ModalsPage(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "modals.html", nil)
}

// ModalDetailPage serves one modal's serial-number inventory page.
func (h *PageHandler) ModalDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid modal ID", http.StatusBadRequest)
		return
	}
	h.templates.ExecuteTemplate(w, "modal_detail.html", map[string]int{"ID": id})
}
