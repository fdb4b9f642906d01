package handlers

import (
	"net/http"

	"dealerdesk/internal/health"
	"dealerdesk/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth reports process and upstream health.
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// ReadinessHealth reports that the process is up. The dashboard can serve its
// pages (with error states) even when the upstream is down, so readiness does
// not gate on it.
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
