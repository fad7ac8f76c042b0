package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status   string   `json:"status"`
	Uptime   int64    `json:"uptime_seconds"`
	Channels []string `json:"channels,omitempty"`
}

// handleHealth returns an http.HandlerFunc for GET /health.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status: "ok",
			Uptime: int64(time.Since(g.startedAt) / time.Second),
		}
		if g.channels != nil {
			resp.Channels = g.channels.Channels()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
