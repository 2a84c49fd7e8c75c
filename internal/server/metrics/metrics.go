// Package metrics exposes Prometheus counters for registrations, logins and
// token validations.
package metrics

import (
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so several servers (and tests) can run in
// one process without duplicate registration panics.
type Recorder struct {
	registry         *prometheus.Registry
	registrations    *prometheus.CounterVec
	logins           *prometheus.CounterVec
	tokenValidations *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them together with the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkeeper_register_total",
				Help: "Total number of registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkeeper_login_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		tokenValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkeeper_token_validation_total",
				Help: "Total number of bearer token validations by resulting state",
			},
			[]string{"state"},
		),
	}

	r.registry.MustRegister(
		r.registrations,
		r.logins,
		r.tokenValidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

func (r *Recorder) ObserveRegister(o services.Outcome) {
	r.registrations.WithLabelValues(o.String()).Inc()
}

func (r *Recorder) ObserveLogin(o services.Outcome) {
	r.logins.WithLabelValues(o.String()).Inc()
}

func (r *Recorder) ObserveTokenValidation(s auth.TokenState) {
	r.tokenValidations.WithLabelValues(s.String()).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
