package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	runTotal      *prom.CounterVec
	runSeconds    *prom.HistogramVec
	oracleTotal   *prom.CounterVec
	oracleSeconds *prom.HistogramVec
}

func (p *promRecorder) IncRunTotal(mode string, success bool) {
	p.runTotal.WithLabelValues(mode, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveRunSeconds(mode string, success bool, seconds float64) {
	p.runSeconds.WithLabelValues(mode, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncOracleCallTotal(kind string, success bool) {
	p.oracleTotal.WithLabelValues(kind, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveOracleCallSeconds(kind string, success bool, seconds float64) {
	p.oracleSeconds.WithLabelValues(kind, fmt.Sprintf("%t", success)).Observe(seconds)
}

// EnablePrometheus swaps in a Prometheus-backed recorder and serves /metrics
// on the given address.
func EnablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	p := &promRecorder{
		runTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "analysis_runs_total",
			Help: "Total number of analysis runs",
		}, []string{"mode", "success"}),
		runSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "analysis_run_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"mode", "success"}),
		oracleTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "oracle_calls_total",
			Help: "Total number of oracle calls",
		}, []string{"kind", "success"}),
		oracleSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "oracle_call_seconds",
			Help:    "Oracle call duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"kind", "success"}),
	}

	registry.MustRegister(p.runTotal, p.runSeconds, p.oracleTotal, p.oracleSeconds)
	SetRecorder(p)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
