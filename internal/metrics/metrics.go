package metrics

import (
    "net/http"
    "sync"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    calculations = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookletcalc",
            Name:      "calculations_total",
            Help:      "Total impositions computed by source (form, api, upload)",
        },
        []string{"source"},
    )

    validationFailures = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookletcalc",
            Name:      "validation_failures_total",
            Help:      "Rejected page counts by kind",
        },
        []string{"kind"},
    )

    sheets = prometheus.NewHistogram(
        prometheus.HistogramOpts{
            Namespace: "bookletcalc",
            Name:      "sheets_per_booklet",
            Help:      "Physical sheets per computed booklet",
            Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
        },
    )

    pageCounts = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookletcalc",
            Name:      "pagecount_probes_total",
            Help:      "Document page count probes by scheme and result",
        },
        []string{"scheme", "result"},
    )

    requestLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "bookletcalc",
            Name:      "http_request_duration_seconds",
            Help:      "Duration of HTTP requests by route",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"route"},
    )

    historyErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookletcalc",
            Name:      "history_errors_total",
            Help:      "History store failures by operation",
        },
        []string{"op"},
    )

    once sync.Once
)

// Init registers collectors. Safe to call more than once.
func Init() {
    once.Do(func() {
        prometheus.MustRegister(calculations, validationFailures, sheets, pageCounts, requestLatency, historyErrors)
    })
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveCalculation(source string, sheetCount int) {
    calculations.WithLabelValues(source).Inc()
    sheets.Observe(float64(sheetCount))
}

func IncValidationFailure(kind string) { validationFailures.WithLabelValues(kind).Inc() }
func IncPageCount(scheme, result string) { pageCounts.WithLabelValues(scheme, result).Inc() }
func IncHistoryError(op string)          { historyErrors.WithLabelValues(op).Inc() }

func ObserveRequest(route string, dur time.Duration) {
    requestLatency.WithLabelValues(route).Observe(dur.Seconds())
}
