package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AccountsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "accounts_created_total",
			Help: "Total number of accounts created",
		},
	)

	FollowOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "follow_operations_total",
			Help: "Follow and unfollow requests by outcome",
		},
		[]string{"operation", "outcome"},
	)

	PostOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_operations_total",
			Help: "Post create and delete operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	FeedPageDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_page_duration_seconds",
			Help:    "Duration of timeline page computation in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	FeedPageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_page_items",
			Help:    "Number of posts returned per timeline page",
			Buckets: []float64{0, 1, 3, 5, 10, 25, 50, 100},
		},
	)

	SearchIndexFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_index_failures_total",
			Help: "Search index notifications that failed after commit",
		},
		[]string{"operation"},
	)

	LastSeenFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "last_seen_flushes_total",
			Help: "Batched last-seen updates by outcome",
		},
		[]string{"outcome"},
	)

	LastSeenDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "last_seen_dropped_total",
			Help: "Last-seen updates dropped because the queue was full",
		},
	)
)
