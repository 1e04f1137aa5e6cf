package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"session-server/internal/logger"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sessionserver",
		Name:      "requests_total",
		Help:      "Requests parsed off accepted connections.",
	}, []string{"method"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sessionserver",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"result"})

	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sessionserver",
		Name:      "registrations_total",
		Help:      "Successfully registered accounts.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sessionserver",
		Name:      "sessions_active",
		Help:      "Sessions created and not yet invalidated.",
	})
)

// Serve exposes the Prometheus endpoint on its own listener; an empty
// port disables it. The application protocol itself never serves metrics.
func Serve(port string) {
	if port == "" {
		return
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		if err := http.ListenAndServe(":"+port, mux); err != nil {
			logger.Error("metrics listener failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()
}
