package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashanksGitHub/charlie-sub013/internal/common/logger"
	"github.com/shashanksGitHub/charlie-sub013/internal/config"
)

func testRankingConfig() config.RankingConfig {
	weights := DefaultWeights()
	return config.RankingConfig{
		ContentWeight:       weights.Content,
		CollaborativeWeight: weights.Collaborative,
		ContextWeight:       weights.Context,
		BatchSize:           weights.BatchSize,
		CandidatePoolSize:   100,
		ActivityWindowDays:  30,
	}
}

func newTestService(repo Repository) Service {
	log := logger.NewNop()
	cache := NewDiscoveryCache(nil, 0, log)
	return NewService(repo, cache, testRankingConfig(), log)
}

func TestGetRankedDiscoveryReturnsRankedFeed(t *testing.T) {
	repo := newFakeRepo()
	repo.pool = seedPool(repo, 5)
	svc := newTestService(repo)

	ranked, err := svc.GetRankedDiscovery(context.Background(), 1, &DiscoveryOptions{Limit: 10, Mode: "meet"})

	require.NoError(t, err)
	require.Len(t, ranked, 5)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].FinalScore, ranked[i].FinalScore)
	}
}

func TestGetRankedDiscoveryHonorsLimit(t *testing.T) {
	repo := newFakeRepo()
	repo.pool = seedPool(repo, 5)
	svc := newTestService(repo)

	ranked, err := svc.GetRankedDiscovery(context.Background(), 1, &DiscoveryOptions{Limit: 2, Mode: "meet"})

	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestGetRankedDiscoveryUnknownTargetFails(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.GetRankedDiscovery(context.Background(), 404, &DiscoveryOptions{Limit: 10, Mode: "meet"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestGetRankedDiscoverySurvivesMissingPreferences(t *testing.T) {
	repo := newFakeRepo()
	repo.pool = seedPool(repo, 3)
	delete(repo.prefs, 1)
	svc := newTestService(repo)

	ranked, err := svc.GetRankedDiscovery(context.Background(), 1, &DiscoveryOptions{Limit: 10, Mode: "meet"})

	require.NoError(t, err)
	assert.Len(t, ranked, 3)
}

func TestGetRankedDiscoveryEmptyPool(t *testing.T) {
	repo := newFakeRepo()
	repo.users[1] = testUser(1)
	svc := newTestService(repo)

	ranked, err := svc.GetRankedDiscovery(context.Background(), 1, &DiscoveryOptions{Limit: 10, Mode: "meet"})

	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestResolveWeightsAppliesConfigOverrides(t *testing.T) {
	cfg := testRankingConfig()
	cfg.ContentWeight = 0.5
	cfg.CollaborativeWeight = 0.3
	cfg.ContextWeight = 0.2
	cfg.BatchSize = 2

	for _, mode := range []string{ModeMeet, ModeHeat, ModeSuite} {
		w := resolveWeights(mode, cfg)
		assert.InDelta(t, 0.5, w.Content, 1e-9, "mode %s", mode)
		assert.InDelta(t, 0.3, w.Collaborative, 1e-9, "mode %s", mode)
		assert.InDelta(t, 0.2, w.Context, 1e-9, "mode %s", mode)
		assert.Equal(t, 2, w.BatchSize, "mode %s", mode)
		// Mode tables only differ in what WeightsForMode returns
		assert.InDelta(t, WeightsForMode(mode).Jaccard, w.Jaccard, 1e-9)
	}
}

func TestGetRankedDiscoveryServesEveryMode(t *testing.T) {
	repo := newFakeRepo()
	repo.pool = seedPool(repo, 3)
	svc := newTestService(repo)

	for _, mode := range []string{ModeMeet, ModeHeat, ModeSuite} {
		ranked, err := svc.GetRankedDiscovery(context.Background(), 1, &DiscoveryOptions{Limit: 10, Mode: mode})
		require.NoError(t, err, "mode %s", mode)
		assert.Len(t, ranked, 3, "mode %s", mode)
	}
}

func TestRankerForUnknownModeFallsBack(t *testing.T) {
	svc := newTestService(newFakeRepo()).(*service)

	assert.Same(t, svc.rankers[ModeMeet], svc.rankerFor("unheard-of"))
	assert.Same(t, svc.rankers[ModeHeat], svc.rankerFor(ModeHeat))
}

func TestCompareUsersReturnsBreakdown(t *testing.T) {
	repo := newFakeRepo()
	repo.users[1] = testUser(1)
	repo.prefs[1] = testPreferences(1)
	repo.users[2] = testUser(2)
	svc := newTestService(repo)

	result, err := svc.CompareUsers(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.UserID)
	assert.Equal(t, int64(2), result.OtherUserID)
	assert.GreaterOrEqual(t, result.FinalScore, 0.0)
	assert.LessOrEqual(t, result.FinalScore, 1.0)
	require.NotNil(t, result.Breakdown)
}

func TestCompareUsersUnknownOtherFails(t *testing.T) {
	repo := newFakeRepo()
	repo.users[1] = testUser(1)
	svc := newTestService(repo)

	_, err := svc.CompareUsers(context.Background(), 1, 404)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
