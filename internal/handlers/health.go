package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-library/httpx"
)

type HealthHandler struct {
	started time.Time
}

func NewHealthHandler(started time.Time) *HealthHandler {
	return &HealthHandler{started: started}
}

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

// Check reports liveness and the process uptime in seconds.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Seconds(),
	})
}
