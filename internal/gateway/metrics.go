package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks gateway and channel counters on a private Prometheus
// registry, exposed at GET /metrics.
type Metrics struct {
	registry *prometheus.Registry

	webhooksReceived *prometheus.CounterVec
	webhookErrors    *prometheus.CounterVec
	messagesReceived *prometheus.CounterVec
	messagesSent     *prometheus.CounterVec
	handlerErrors    *prometheus.CounterVec
}

// NewMetrics creates a Metrics with its own registry. Using a private
// registry keeps repeated module instantiation (and tests) free of
// duplicate-collector panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		webhooksReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bottery_webhooks_received_total",
			Help: "Webhook requests received, by source.",
		}, []string{"source"}),
		webhookErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bottery_webhook_errors_total",
			Help: "Webhook handler failures, by source.",
		}, []string{"source"}),
		messagesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bottery_messages_received_total",
			Help: "Inbound messages translated to the canonical shape, by channel.",
		}, []string{"channel"}),
		messagesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bottery_messages_sent_total",
			Help: "Outbound messages delivered to a platform, by channel.",
		}, []string{"channel"}),
		handlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bottery_handler_errors_total",
			Help: "View handler and delivery failures, by channel.",
		}, []string{"channel"}),
	}
}

// IncWebhookReceived counts one webhook request for a source.
func (m *Metrics) IncWebhookReceived(source string) {
	m.webhooksReceived.WithLabelValues(source).Inc()
}

// IncWebhookError counts one failed webhook dispatch for a source.
func (m *Metrics) IncWebhookError(source string) {
	m.webhookErrors.WithLabelValues(source).Inc()
}

// IncReceived counts one translated inbound message for a channel.
func (m *Metrics) IncReceived(channel string) {
	m.messagesReceived.WithLabelValues(channel).Inc()
}

// IncSent counts one delivered outbound message for a channel.
func (m *Metrics) IncSent(channel string) {
	m.messagesSent.WithLabelValues(channel).Inc()
}

// IncHandlerError counts one handling failure for a channel.
func (m *Metrics) IncHandlerError(channel string) {
	m.handlerErrors.WithLabelValues(channel).Inc()
}

// Handler returns the Prometheus exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
