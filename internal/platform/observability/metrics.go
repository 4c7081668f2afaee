package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TrustAnalyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "karmatic_trust_analyses_total",
		Help: "The total number of trust analyses computed, by trust level",
	}, []string{"level"})

	TrustScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "karmatic_trust_score",
		Help:    "Distribution of computed trust scores",
		Buckets: prometheus.LinearBuckets(10, 10, 10),
	})

	SuspiciousPatterns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "karmatic_suspicious_patterns_total",
		Help: "Analyses whose rating distribution looked fabricated",
	})

	ReviewsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "karmatic_reviews_ingested_total",
		Help: "The total number of reviews stored",
	})

	RankBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "karmatic_rank_batch_duration_seconds",
		Help:    "Duration in seconds to analyze and rank a batch of agencies",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})
)
