package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dealerdesk/internal/handlers"
	"dealerdesk/static"
)

func NewRouter(
	dealerHandler *handlers.DealerHandler,
	modalHandler *handlers.ModalHandler,
	pageHandler *handlers.PageHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()

	// Serve static files (embedded)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))

	// HTML pages
	r.HandleFunc("/", pageHandler.DealersPage).Methods("GET")
	r.HandleFunc("/dealer/{id}", pageHandler.DealerDetailPage).Methods("GET")
	r.HandleFunc("/modals", pageHandler.ModalsPage).Methods("GET")
	r.HandleFunc("/modals/{id}", pageHandler.ModalDetailPage).Methods("GET")

	// UI state routes - Dealers list
	dealersUI := r.PathPrefix("/ui/dealers").Subrouter()
	dealersUI.HandleFunc("", dealerHandler.Dealers).Methods("GET")
	dealersUI.HandleFunc("/state", dealerHandler.DealersState).Methods("GET")
	dealersUI.HandleFunc("/page", dealerHandler.DealersPage).Methods("POST")
	dealersUI.HandleFunc("/sort", dealerHandler.DealersSort).Methods("POST")
	dealersUI.HandleFunc("/page-size", dealerHandler.DealersPageSize).Methods("POST")

	// UI state routes - Dealer detail, payments, bills and the payment form
	dealerUI := r.PathPrefix("/ui/dealer/{id}").Subrouter()
	dealerUI.HandleFunc("", dealerHandler.DealerDetail).Methods("GET")
	dealerUI.HandleFunc("/tab", dealerHandler.DealerTab).Methods("POST")
	dealerUI.HandleFunc("/payments/page", dealerHandler.PaymentsPage).Methods("POST")
	dealerUI.HandleFunc("/payments/sort", dealerHandler.PaymentsSort).Methods("POST")
	dealerUI.HandleFunc("/bills/page", dealerHandler.BillsPage).Methods("POST")
	dealerUI.HandleFunc("/payment/edit", dealerHandler.PaymentEdit).Methods("POST")
	dealerUI.HandleFunc("/payment/next", dealerHandler.PaymentNext).Methods("POST")
	dealerUI.HandleFunc("/payment/back", dealerHandler.PaymentBack).Methods("POST")
	dealerUI.HandleFunc("/payment/confirm", dealerHandler.PaymentConfirm).Methods("POST")
	dealerUI.HandleFunc("/payment/ack", dealerHandler.PaymentAck).Methods("POST")
	dealerUI.HandleFunc("/payment/reset", dealerHandler.PaymentReset).Methods("POST")

	// UI state routes - Modals list with search
	modalsUI := r.PathPrefix("/ui/modals").Subrouter()
	modalsUI.HandleFunc("", modalHandler.Modals).Methods("GET")
	modalsUI.HandleFunc("/state", modalHandler.ModalsState).Methods("GET")
	modalsUI.HandleFunc("/page", modalHandler.ModalsPage).Methods("POST")
	modalsUI.HandleFunc("/sort", modalHandler.ModalsSort).Methods("POST")
	modalsUI.HandleFunc("/page-size", modalHandler.ModalsPageSize).Methods("POST")
	modalsUI.HandleFunc("/search", modalHandler.ModalsSearch).Methods("POST")

	// UI state routes - Serial numbers of one modal
	serialsUI := r.PathPrefix("/ui/modals/{id}/serials").Subrouter()
	serialsUI.HandleFunc("", modalHandler.Serials).Methods("GET")
	serialsUI.HandleFunc("/page", modalHandler.SerialsPage).Methods("POST")
	serialsUI.HandleFunc("/sort", modalHandler.SerialsSort).Methods("POST")
	serialsUI.HandleFunc("/page-size", modalHandler.SerialsPageSize).Methods("POST")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
