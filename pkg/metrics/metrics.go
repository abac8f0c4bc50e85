package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	FeedRequests    *prometheus.CounterVec
	FanoutEntries   prometheus.Counter
	OutboxProcessed prometheus.Counter
	FanoutLatency   prometheus.Histogram
	BackfillQueue   prometheus.Gauge
}

func Init() *Metrics {
	m := &Metrics{
		FeedRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsfeed_feed_requests_total",
				Help: "Feed page reads by outcome",
			},
			[]string{"outcome"},
		),
		FanoutEntries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "newsfeed_fanout_entries_total",
				Help: "Feed entries materialized by the fan-out worker",
			},
		),
		OutboxProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "newsfeed_outbox_processed_total",
				Help: "Outbox events fanned out",
			},
		),
		FanoutLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "newsfeed_fanout_latency_seconds",
				Help:    "Post publish to fan-out completion",
				Buckets: prometheus.DefBuckets,
			},
		),
		BackfillQueue: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "newsfeed_backfill_queue_depth",
				Help: "Pending follow/unfollow backfill jobs",
			},
		),
	}

	prometheus.MustRegister(m.FeedRequests)
	prometheus.MustRegister(m.FanoutEntries)
	prometheus.MustRegister(m.OutboxProcessed)
	prometheus.MustRegister(m.FanoutLatency)
	prometheus.MustRegister(m.BackfillQueue)

	return m
}
