package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "achievements"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	Submissions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "submissions_total", Help: "Stored achievement submissions",
	})
	Audits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "audits_total", Help: "Audit decisions by outcome",
	}, []string{"status"})
	Uploads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "uploads_total", Help: "Stored image uploads",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, Submissions, Audits, Uploads, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// ObserveRequest records one finished request. route is the matched pattern, not the raw path.
func ObserveRequest(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveAudit(approved bool) {
	Audits.WithLabelValues(strconv.FormatBool(approved)).Inc()
}
