// Package metrics exposes Prometheus counters for remote calls, vote
// rollbacks and feed merges.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the gateway, the vote engine and the reconciler report to.
type Recorder interface {
	RecordCall(op string, err error, d time.Duration)
	RecordVoteRollback(kind string)
	RecordPostsMerged(count int)
}

type Collector struct {
	calls         *prometheus.CounterVec
	callLatency   *prometheus.HistogramVec
	voteRollbacks *prometheus.CounterVec
	postsMerged   prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lemmy_api_calls_total",
			Help: "Remote API calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		callLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lemmy_api_call_seconds",
			Help:    "Remote API call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		voteRollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lemmy_vote_rollbacks_total",
			Help: "Optimistic votes reverted after the remote rejected them.",
		}, []string{"kind"}),
		postsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lemmy_feed_posts_merged_total",
			Help: "Post ids appended to feeds.",
		}),
	}

	reg.MustRegister(
		c.calls,
		c.callLatency,
		c.voteRollbacks,
		c.postsMerged,
	)
	return c
}

func (c *Collector) RecordCall(op string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.calls.WithLabelValues(op, outcome).Inc()
	c.callLatency.WithLabelValues(op).Observe(d.Seconds())
}

func (c *Collector) RecordVoteRollback(kind string) {
	c.voteRollbacks.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordPostsMerged(count int) {
	c.postsMerged.Add(float64(count))
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordCall(string, error, time.Duration) {}
func (Nop) RecordVoteRollback(string)               {}
func (Nop) RecordPostsMerged(int)                   {}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
