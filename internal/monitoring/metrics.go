package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeBooked        = "booked"
	OutcomeIssued        = "issued"
	OutcomeAlreadyBooked = "already_booked"
	OutcomeNoSeats       = "no_seats"
	OutcomeFailed        = "failed"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Total booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	availableSeats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "event_available_seats",
			Help: "Seats left per event after the last booking change",
		},
		[]string{"event_id"},
	)

	messagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total messages sent by sender kind",
		},
		[]string{"from"},
	)
)

func TrackRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackBooking(outcome string) {
	bookingOperations.WithLabelValues(outcome).Inc()
}

func TrackSeats(eventID string, available int) {
	availableSeats.WithLabelValues(eventID).Set(float64(available))
}

// ForgetEvent drops the seats series of a deleted event.
func ForgetEvent(eventID string) {
	availableSeats.DeleteLabelValues(eventID)
}

func TrackMessage(fromKind string) {
	messagesSent.WithLabelValues(fromKind).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
