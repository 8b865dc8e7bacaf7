package matching

import (
	"context"
	"sort"
	"time"

	"github.com/shashanksGitHub/charlie-sub013/internal/common/logger"
)

// Weighting of the two activity sources when deriving peak hours. Messages
// indicate deeper engagement than swipes.
const (
	messageActivityWeight = 2.0
	swipeActivityWeight   = 1.0
	peakHourCount         = 3
	activityLookbackDays  = 30
)

// TemporalProfiler derives online/recency/freshness/peak-activity signals
// from a user's activity timestamps. Each of the four sub-computations fails
// independently to its own neutral value, so one missing signal degrades the
// profile rather than aborting it.
type TemporalProfiler struct {
	repo    Repository
	weights RankingWeights
	logger  logger.Logger
}

func NewTemporalProfiler(repo Repository, weights RankingWeights, log logger.Logger) *TemporalProfiler {
	return &TemporalProfiler{
		repo:    repo,
		weights: weights,
		logger:  log,
	}
}

// Profile builds the temporal profile of a user as of now. Never returns an
// error: activity-log failures leave the peak-hour fields at their neutral
// values.
func (p *TemporalProfiler) Profile(ctx context.Context, user *UserRecord, now time.Time) *TemporalProfile {
	profile := &TemporalProfile{UserID: user.ID}

	profile.IsOnline, profile.OnlineBoost = p.onlineStatus(user, now)
	profile.LastActiveScore = p.recencyScore(user.LastActive, now)
	profile.ProfileFreshnessScore = p.freshnessScore(user, now)
	profile.PeakActivityHours, profile.ActivityPatternScore = p.peakActivity(ctx, user.ID, now)

	return profile
}

func (p *TemporalProfiler) onlineStatus(user *UserRecord, now time.Time) (bool, float64) {
	if user.IsOnline {
		return true, 1.0
	}
	if user.LastActive == nil {
		return false, 0
	}

	minutes := now.Sub(*user.LastActive).Minutes()
	switch {
	case minutes <= 5:
		return true, 1.0
	case minutes <= 15:
		return false, 0.8
	case minutes <= 30:
		return false, 0.6
	case minutes <= 120:
		return false, 0.3
	default:
		return false, 0.1
	}
}

func (p *TemporalProfiler) recencyScore(lastActive *time.Time, now time.Time) float64 {
	if lastActive == nil {
		return 0
	}

	hours := now.Sub(*lastActive).Hours()
	switch {
	case hours <= 1:
		return 100
	case hours <= 6:
		return 80
	case hours <= 24:
		return 60
	case hours <= 72:
		return 40
	case hours <= 168:
		return 20
	default:
		return 10
	}
}

func (p *TemporalProfiler) freshnessScore(user *UserRecord, now time.Time) float64 {
	if user.UpdatedAt != nil {
		hours := now.Sub(*user.UpdatedAt).Hours()
		switch {
		case hours <= 24:
			return 100
		case hours <= 7*24:
			return 80
		case hours <= 30*24:
			return 60
		case hours <= 90*24:
			return 40
		default:
			return 20
		}
	}

	if !user.CreatedAt.IsZero() {
		days := now.Sub(user.CreatedAt).Hours() / 24
		switch {
		case days <= 7:
			return 70
		case days <= 30:
			return 50
		default:
			return 30
		}
	}

	// No timestamps at all
	return 30
}

func (p *TemporalProfiler) peakActivity(ctx context.Context, userID int64, now time.Time) ([]int, float64) {
	since := now.AddDate(0, 0, -activityLookbackDays)

	weighted := make([]float64, 24)
	total := 0.0

	messages, err := p.repo.GetRecentMessageActivity(ctx, userID, since)
	if err != nil {
		p.logger.Warn("message activity unavailable", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
	for _, b := range messages {
		if b.HourOfDay < 0 || b.HourOfDay > 23 {
			continue
		}
		weighted[b.HourOfDay] += float64(b.Count) * messageActivityWeight
		total += float64(b.Count) * messageActivityWeight
	}

	swipes, err := p.repo.GetRecentSwipeActivity(ctx, userID, since)
	if err != nil {
		p.logger.Warn("swipe activity unavailable", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
	for _, b := range swipes {
		if b.HourOfDay < 0 || b.HourOfDay > 23 {
			continue
		}
		weighted[b.HourOfDay] += float64(b.Count) * swipeActivityWeight
		total += float64(b.Count) * swipeActivityWeight
	}

	if total == 0 {
		return nil, 0.1
	}

	type hourCount struct {
		hour  int
		count float64
	}
	counts := make([]hourCount, 0, 24)
	for hour, c := range weighted {
		if c > 0 {
			counts = append(counts, hourCount{hour, c})
		}
	}
	// Highest weighted count first; equal counts break by hour ascending so
	// the profile is deterministic.
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].hour < counts[j].hour
	})

	peaks := make([]int, 0, peakHourCount)
	for i := 0; i < len(counts) && i < peakHourCount; i++ {
		peaks = append(peaks, counts[i].hour)
	}

	pattern := total / p.weights.ActivityTarget
	if pattern > 1.0 {
		pattern = 1.0
	}

	return peaks, pattern
}
