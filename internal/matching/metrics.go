package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_rankings_total",
			Help: "Total number of ranked discovery requests served",
		},
		[]string{"mode"},
	)

	candidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_candidates_scored_total",
			Help: "Total number of candidates scored",
		},
	)

	candidatesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_candidates_dropped_total",
			Help: "Total number of candidates dropped due to scoring failures",
		},
	)

	finalScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_final_scores",
			Help:    "Distribution of final hybrid ranking scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	rankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_ranking_duration_seconds",
			Help:    "Time spent ranking one candidate pool",
			Buckets: prometheus.DefBuckets,
		},
	)

	cacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_discovery_cache_total",
			Help: "Discovery cache lookups by result",
		},
		[]string{"result"},
	)
)

func RecordRanking(mode string, duration time.Duration) {
	rankingsTotal.WithLabelValues(mode).Inc()
	rankingDuration.Observe(duration.Seconds())
}

func RecordCandidateScored(score float64) {
	candidatesScored.Inc()
	finalScores.Observe(score)
}

func RecordCandidateDropped() {
	candidatesDropped.Inc()
}

func RecordCacheHit() {
	cacheResults.WithLabelValues("hit").Inc()
}

func RecordCacheMiss() {
	cacheResults.WithLabelValues("miss").Inc()
}
