package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectionResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nftdash_collection_responses_total",
		Help: "Collection responses by data source",
	}, []string{"source"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nftdash_upstream_request_seconds",
		Help:    "Time spent on OpenSea API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "result"})

	eventsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nftdash_events_saved_total",
		Help: "NFT events written to the event store",
	})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nftdash_notifications_total",
		Help: "Chat notifications by channel and result",
	}, []string{"channel", "result"})
)

func ObserveCollection(source string) {
	collectionResults.WithLabelValues(source).Inc()
}

func ObserveUpstream(op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	upstreamDuration.WithLabelValues(op, result).Observe(d.Seconds())
}

func AddEventsSaved(n int) {
	eventsSaved.Add(float64(n))
}

func ObserveNotification(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	notifications.WithLabelValues(channel, result).Inc()
}
