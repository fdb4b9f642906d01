package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"dealerdesk/internal/config"
	"dealerdesk/internal/gateway"
	"dealerdesk/internal/handlers"
	"dealerdesk/internal/health"
	h "dealerdesk/internal/http"
	"dealerdesk/internal/middleware"
	"dealerdesk/internal/monitoring"
	"dealerdesk/internal/session"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	upstream := flag.String("upstream", "", "Dealer API base URL (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *upstream != "" {
		cfg.Upstream.BaseURL = *upstream
	}

	// Initialize the dealer API client
	api := gateway.NewClient(cfg.Upstream.BaseURL)
	log.Printf("[Gateway] Dealer API at %s", cfg.Upstream.BaseURL)

	// Initialize per-browser session store
	sessions := session.NewStore(
		api,
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		time.Duration(cfg.Search.DebounceMs)*time.Millisecond,
	)
	defer sessions.Stop()

	// Initialize health checker
	healthChecker := health.NewHealthChecker(api)

	// Start monitoring dashboard server in background
	go monitoring.NewMonitoringServer(api, sessions, cfg.Monitor.Port).Start()

	// Initialize handlers
	dealerHandler := handlers.NewDealerHandler(sessions)
	modalHandler := handlers.NewModalHandler(sessions)
	pageHandler := handlers.NewPageHandler()
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Initialize middleware
	corsMiddleware := middleware.NewCORS(cfg)

	// Create router
	router := h.NewRouter(dealerHandler, modalHandler, pageHandler, healthHandler)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Dashboard server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
