package matching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashanksGitHub/charlie-sub013/internal/common/logger"
)

func newTestContextScorer(repo Repository) *ContextScorer {
	weights := DefaultWeights()
	profiler := NewTemporalProfiler(repo, weights, logger.NewNop())
	return NewContextScorer(profiler, weights, logger.NewNop())
}

func tempProfile(hours []int, pattern float64) *TemporalProfile {
	return &TemporalProfile{PeakActivityHours: hours, ActivityPatternScore: pattern}
}

func TestActivityAlignmentNeutralWithoutPeaks(t *testing.T) {
	scorer := newTestContextScorer(newFakeRepo())

	tests := []struct {
		name string
		a, b *TemporalProfile
	}{
		{"target has no peaks", tempProfile(nil, 0.1), tempProfile([]int{9, 21}, 1)},
		{"candidate has no peaks", tempProfile([]int{9, 21}, 1), tempProfile(nil, 0.1)},
		{"neither has peaks", tempProfile(nil, 0.1), tempProfile(nil, 0.1)},
		{"nil profile", nil, tempProfile([]int{9}, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scorer.ActivityAlignment(tt.a, tt.b)
			assert.True(t, score.Degraded)
			assert.InDelta(t, 0.5, score.Value, 1e-9)
		})
	}
}

func TestActivityAlignmentFullOverlap(t *testing.T) {
	scorer := newTestContextScorer(newFakeRepo())

	score := scorer.ActivityAlignment(tempProfile([]int{9, 14, 21}, 1), tempProfile([]int{9, 14, 21}, 1))

	assert.False(t, score.Degraded)
	// direct component saturates at 0.6; 9/14 and 14/9 hours are not adjacent
	assert.InDelta(t, 0.6, score.Value, 1e-9)
}

func TestActivityAlignmentPartialOverlapWithAdjacency(t *testing.T) {
	scorer := newTestContextScorer(newFakeRepo())

	// shared hour 9 of max set size 2, one adjacent pair (21, 22)
	score := scorer.ActivityAlignment(tempProfile([]int{9, 21}, 1), tempProfile([]int{9, 22}, 1))

	want := 0.6*0.5 + 0.3*(1.0/3.0)
	assert.InDelta(t, want, score.Value, 1e-9)
}

func TestActivityAlignmentMidnightWrap(t *testing.T) {
	scorer := newTestContextScorer(newFakeRepo())

	// 23 and 0 are adjacent on the circular clock
	score := scorer.ActivityAlignment(tempProfile([]int{23}, 1), tempProfile([]int{0}, 1))

	assert.InDelta(t, 0.3*(1.0/3.0), score.Value, 1e-9)
}

func TestActivityAlignmentScaledByPatternScores(t *testing.T) {
	scorer := newTestContextScorer(newFakeRepo())

	full := scorer.ActivityAlignment(tempProfile([]int{9}, 1), tempProfile([]int{9}, 1))
	weak := scorer.ActivityAlignment(tempProfile([]int{9}, 0.2), tempProfile([]int{9}, 0.4))

	assert.InDelta(t, 0.6, full.Value, 1e-9)
	assert.InDelta(t, 0.6*0.3, weak.Value, 1e-9)
}

func TestCircularHourDistance(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{9, 9, 0},
		{9, 10, 1},
		{10, 9, 1},
		{23, 0, 1},
		{0, 23, 1},
		{0, 12, 12},
		{1, 22, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, circularHourDistance(tt.a, tt.b))
	}
}

func TestScorePairCombinesComponents(t *testing.T) {
	scorer := newTestContextScorer(newFakeRepo())

	target := &TemporalProfile{PeakActivityHours: []int{9}, ActivityPatternScore: 1}
	candidate := &TemporalProfile{
		OnlineBoost:           1.0,
		LastActiveScore:       100,
		ProfileFreshnessScore: 80,
		PeakActivityHours:     []int{9},
		ActivityPatternScore:  1,
	}

	score, breakdown := scorer.ScorePair(target, candidate)

	// online 1.0*0.30 + recency 1.0*0.25 + freshness 0.8*0.20 + alignment 0.6*0.25
	assert.InDelta(t, 0.30+0.25+0.16+0.15, score.Value, 1e-9)
	assert.False(t, score.Degraded)
	assert.InDelta(t, 0.8, breakdown.FreshnessScore, 1e-9)
	assert.InDelta(t, 0.6, breakdown.ActivityAlignment.Value, 1e-9)
}

func TestScorePairPropagatesDegradedAlignment(t *testing.T) {
	scorer := newTestContextScorer(newFakeRepo())

	target := &TemporalProfile{}
	candidate := &TemporalProfile{OnlineBoost: 1.0, LastActiveScore: 100, ProfileFreshnessScore: 100}

	score, _ := scorer.ScorePair(target, candidate)

	assert.True(t, score.Degraded)
	// alignment contributes the neutral 0.5
	assert.InDelta(t, 0.30+0.25+0.20+0.5*0.25, score.Value, 1e-9)
}

func TestBulkScoresCoversEveryCandidate(t *testing.T) {
	repo := newFakeRepo()
	scorer := newTestContextScorer(repo)

	candidates := []*UserRecord{}
	for id := int64(1); id <= 12; id++ {
		candidates = append(candidates, &UserRecord{ID: id, LastActive: timePtr(testNow.Add(-time.Duration(id) * time.Hour))})
	}
	target := tempProfile([]int{9}, 1)

	scores := scorer.BulkScores(context.Background(), target, candidates, testNow)

	assert.Len(t, scores, 12)
	for id, score := range scores {
		assert.GreaterOrEqual(t, score.Value, 0.0, "candidate %d", id)
		assert.LessOrEqual(t, score.Value, 1.0, "candidate %d", id)
	}
}

func TestBulkScoresNeutralOnCancelledContext(t *testing.T) {
	scorer := newTestContextScorer(newFakeRepo())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := []*UserRecord{{ID: 1}, {ID: 2}}
	scores := scorer.BulkScores(ctx, tempProfile([]int{9}, 1), candidates, testNow)

	assert.Len(t, scores, 2)
	for _, score := range scores {
		assert.True(t, score.Degraded)
		assert.InDelta(t, 0.5, score.Value, 1e-9)
	}
}
