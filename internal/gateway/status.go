package gateway

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime   int64    `json:"uptime_seconds"`
	Channels []string `json:"channels"`
	Webhooks []string `json:"webhook_sources"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime: int64(time.Since(g.startedAt) / time.Second),
		}
		if g.channels != nil {
			resp.Channels = g.channels.Channels()
			sort.Strings(resp.Channels)
		}
		resp.Webhooks = g.dispatcher.Sources()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
