package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// WebhookHandler processes a webhook payload for one source.
type WebhookHandler interface {
	HandleWebhook(ctx context.Context, body []byte, headers http.Header) error
}

type webhookEntry struct {
	handler WebhookHandler
	secret  string
}

// WebhookDispatcher routes incoming webhooks to registered handlers.
//
// Platforms that deliver updates over webhooks retry any non-2xx response,
// so handler failures are logged and counted but still acknowledged with an
// empty 200. Only a failed signature check is rejected.
type WebhookDispatcher struct {
	mu       sync.RWMutex
	handlers map[string]webhookEntry
	secrets  map[string]string
	logger   *slog.Logger
	metrics  *Metrics
}

// NewWebhookDispatcher creates a ready-to-use dispatcher.
func NewWebhookDispatcher(logger *slog.Logger, metrics *Metrics) *WebhookDispatcher {
	return &WebhookDispatcher{
		handlers: make(map[string]webhookEntry),
		secrets:  make(map[string]string),
		logger:   logger,
		metrics:  metrics,
	}
}

// Register adds a handler for the given source with an optional HMAC secret.
func (d *WebhookDispatcher) Register(source string, h WebhookHandler, secret string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[source] = webhookEntry{handler: h, secret: secret}
}

// SetSecret configures the expected HMAC secret for a source ahead of
// handler registration. A secret passed to Register takes precedence.
func (d *WebhookDispatcher) SetSecret(source, secret string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.secrets[source] = secret
}

// ServeHTTP implements http.Handler for POST /webhooks/{source}.
func (d *WebhookDispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	if source == "" {
		http.Error(w, "missing source", http.StatusBadRequest)
		return
	}
	d.dispatch(w, r, source)
}

// ServeSource returns a handler bound to a fixed source name, used for the
// root POST / route.
func (d *WebhookDispatcher) ServeSource(source string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.dispatch(w, r, source)
	}
}

// Sources returns the registered source names, sorted.
func (d *WebhookDispatcher) Sources() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sources := make([]string, 0, len(d.handlers))
	for source := range d.handlers {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

func (d *WebhookDispatcher) dispatch(w http.ResponseWriter, r *http.Request, source string) {
	d.metrics.IncWebhookReceived(source)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	d.mu.RLock()
	entry, ok := d.handlers[source]
	secret := entry.secret
	if secret == "" {
		secret = d.secrets[source]
	}
	d.mu.RUnlock()

	if !ok {
		d.logger.Warn("webhook received for unregistered source", "source", source)
		w.WriteHeader(http.StatusOK)
		return
	}

	if secret != "" {
		sig := r.Header.Get("X-Signature-256")
		if !validateHMAC(body, sig, secret) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	if err := entry.handler.HandleWebhook(r.Context(), body, r.Header); err != nil {
		d.logger.Error("webhook handler failed", "source", source, "error", err)
		d.metrics.IncWebhookError(source)
	}

	w.WriteHeader(http.StatusOK)
}

// validateHMAC checks an HMAC-SHA256 signature in constant time.
func validateHMAC(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
