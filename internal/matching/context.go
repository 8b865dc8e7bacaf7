package matching

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashanksGitHub/charlie-sub013/internal/common/logger"
)

// ContextScorer combines a candidate's temporal profile with the pairwise
// activity alignment against the target into a single re-ranking signal.
type ContextScorer struct {
	profiler *TemporalProfiler
	weights  RankingWeights
	logger   logger.Logger
}

func NewContextScorer(profiler *TemporalProfiler, weights RankingWeights, log logger.Logger) *ContextScorer {
	return &ContextScorer{
		profiler: profiler,
		weights:  weights,
		logger:   log,
	}
}

// ActivityAlignment compares two peak-hour sets. Neutral 0.5 when either
// side has no observed peaks.
func (c *ContextScorer) ActivityAlignment(a, b *TemporalProfile) Score {
	if a == nil || b == nil || len(a.PeakActivityHours) == 0 || len(b.PeakActivityHours) == 0 {
		return Neutral(c.weights.NeutralScore, "no peak activity hours")
	}

	shared := 0
	inA := make(map[int]bool, len(a.PeakActivityHours))
	for _, h := range a.PeakActivityHours {
		inA[h] = true
	}
	for _, h := range b.PeakActivityHours {
		if inA[h] {
			shared++
		}
	}

	maxLen := len(a.PeakActivityHours)
	if len(b.PeakActivityHours) > maxLen {
		maxLen = len(b.PeakActivityHours)
	}
	direct := c.weights.DirectOverlap * float64(shared) / float64(maxLen)

	adjacent := 0
	for _, ha := range a.PeakActivityHours {
		for _, hb := range b.PeakActivityHours {
			if circularHourDistance(ha, hb) == 1 {
				adjacent++
			}
		}
	}
	adjacentRatio := float64(adjacent) / 3.0
	if adjacentRatio > 1.0 {
		adjacentRatio = 1.0
	}

	score := direct + c.weights.AdjacentHours*adjacentRatio
	score *= (a.ActivityPatternScore + b.ActivityPatternScore) / 2

	return Computed(score)
}

// ScorePair computes the context score of a candidate relative to the
// target. Candidate-centric signals (online, recency, freshness) are
// modulated by the pairwise activity alignment.
func (c *ContextScorer) ScorePair(target, candidate *TemporalProfile) (Score, ContextBreakdown) {
	alignment := c.ActivityAlignment(target, candidate)

	breakdown := ContextBreakdown{
		OnlineBoost:       candidate.OnlineBoost,
		RecencyScore:      candidate.LastActiveScore / 100,
		FreshnessScore:    candidate.ProfileFreshnessScore / 100,
		ActivityAlignment: alignment,
	}

	score := candidate.OnlineBoost*c.weights.OnlineBoost +
		breakdown.RecencyScore*c.weights.Recency +
		breakdown.FreshnessScore*c.weights.Freshness +
		alignment.Value*c.weights.ActivityAlignment

	result := Computed(score)
	if alignment.Degraded {
		result.Degraded = true
		result.Reason = alignment.Reason
	}
	return result, breakdown
}

// BulkScores computes context scores for many candidates in fixed-size
// concurrent batches. An unexpected failure yields neutral scores for every
// candidate instead of a partial map.
func (c *ContextScorer) BulkScores(ctx context.Context, target *TemporalProfile, candidates []*UserRecord, now time.Time) map[int64]Score {
	scores := make(map[int64]Score, len(candidates))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.weights.BatchSize)

	for _, candidate := range candidates {
		candidate := candidate
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			profile := c.profiler.Profile(gctx, candidate, now)
			score, _ := c.ScorePair(target, profile)

			mu.Lock()
			scores[candidate.ID] = score
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn("bulk context scoring degraded to neutral", map[string]interface{}{
			"candidates": len(candidates),
			"error":      err.Error(),
		})
		neutral := make(map[int64]Score, len(candidates))
		for _, candidate := range candidates {
			neutral[candidate.ID] = Neutral(c.weights.NeutralScore, "bulk scoring failed")
		}
		return neutral
	}

	return scores
}

// circularHourDistance is the distance between two hours of day on the
// 24-hour clock; 23 and 0 are adjacent.
func circularHourDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if 24-d < d {
		d = 24 - d
	}
	return d
}
