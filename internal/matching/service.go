package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shashanksGitHub/charlie-sub013/internal/common/logger"
	"github.com/shashanksGitHub/charlie-sub013/internal/config"
)

// DiscoveryOptions control one ranked discovery request.
type DiscoveryOptions struct {
	Limit int    `validate:"min=1,max=100"`
	Mode  string `validate:"oneof=meet heat suite"`
	Fresh bool   // bypass the discovery cache
}

// ComparisonResult is the full score breakdown between two specific users.
type ComparisonResult struct {
	UserID      int64           `json:"user_id"`
	OtherUserID int64           `json:"other_user_id"`
	FinalScore  float64         `json:"final_score"`
	Breakdown   *ScoreBreakdown `json:"breakdown"`
}

// Service is the ranking engine's public surface.
type Service interface {
	// GetRankedDiscovery returns the ranked candidate feed for a user.
	// Only a missing target user is a hard failure; everything else
	// degrades to a best-effort (possibly shorter) list.
	GetRankedDiscovery(ctx context.Context, userID int64, opts *DiscoveryOptions) ([]*RankedCandidate, error)

	// CompareUsers returns the detailed compatibility breakdown between
	// two users.
	CompareUsers(ctx context.Context, userID, otherID int64) (*ComparisonResult, error)
}

type service struct {
	repo    Repository
	rankers map[string]*HybridRanker
	cache   *DiscoveryCache
	cfg     config.RankingConfig
	logger  logger.Logger
}

// NewService builds one ranker per app mode, each on its mode's weight table
// overlaid with the env-tunable overrides.
func NewService(repo Repository, cache *DiscoveryCache, cfg config.RankingConfig, log logger.Logger) Service {
	rankers := make(map[string]*HybridRanker, len(rankingModes))
	for _, mode := range rankingModes {
		rankers[mode] = NewHybridRanker(repo, resolveWeights(mode, cfg), log)
	}

	return &service{
		repo:    repo,
		rankers: rankers,
		cache:   cache,
		cfg:     cfg,
		logger:  log,
	}
}

// resolveWeights overlays the config overrides on a mode's weight table.
func resolveWeights(mode string, cfg config.RankingConfig) RankingWeights {
	w := WeightsForMode(mode)
	w.Content = cfg.ContentWeight
	w.Collaborative = cfg.CollaborativeWeight
	w.Context = cfg.ContextWeight
	w.BatchSize = cfg.BatchSize
	return w
}

func (s *service) rankerFor(mode string) *HybridRanker {
	if r, ok := s.rankers[mode]; ok {
		return r
	}
	return s.rankers[ModeMeet]
}

func (s *service) GetRankedDiscovery(ctx context.Context, userID int64, opts *DiscoveryOptions) ([]*RankedCandidate, error) {
	start := time.Now()

	target, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		// The one fail-fast path: no target user, no feed
		return nil, fmt.Errorf("load target user %d: %w", userID, err)
	}

	if !opts.Fresh {
		if cached := s.cache.Get(ctx, userID, opts.Mode); cached != nil {
			return truncate(cached, opts.Limit), nil
		}
	}

	prefs, err := s.repo.GetUserPreferences(ctx, userID)
	if err != nil {
		// Missing preferences degrade scoring, they don't block the feed
		s.logger.Warn("preferences unavailable, ranking on neutral preferences", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		prefs = nil
	}

	pool, err := s.repo.GetCandidatePool(ctx, userID, s.cfg.ActivityWindowDays, s.cfg.CandidatePoolSize)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	rctx := &RankingContext{
		RequestID: uuid.NewString(),
		Mode:      opts.Mode,
		Now:       time.Now(),
	}

	ranked, err := s.rankerFor(opts.Mode).Rank(ctx, target, prefs, pool, rctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, userID, opts.Mode, ranked)
	RecordRanking(opts.Mode, time.Since(start))

	s.logger.Info("discovery ranking served", map[string]interface{}{
		"requestId": rctx.RequestID,
		"userId":    userID,
		"mode":      opts.Mode,
		"poolSize":  len(pool),
		"ranked":    len(ranked),
		"tookMs":    time.Since(start).Milliseconds(),
	})

	return truncate(ranked, opts.Limit), nil
}

func (s *service) CompareUsers(ctx context.Context, userID, otherID int64) (*ComparisonResult, error) {
	target, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load target user %d: %w", userID, err)
	}
	// The ranker silently drops unloadable candidates, so check the other
	// user explicitly to fail fast on not-found.
	if _, err := s.repo.GetUser(ctx, otherID); err != nil {
		return nil, fmt.Errorf("load user %d: %w", otherID, err)
	}

	prefs, err := s.repo.GetUserPreferences(ctx, userID)
	if err != nil {
		prefs = nil
	}

	rctx := &RankingContext{
		RequestID: uuid.NewString(),
		Mode:      ModeMeet,
		Now:       time.Now(),
	}

	ranked, err := s.rankerFor(ModeMeet).Rank(ctx, target, prefs, []int64{otherID}, rctx)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("score user %d against %d: %w", otherID, userID, ErrUserNotFound)
	}

	rc := ranked[0]
	return &ComparisonResult{
		UserID:      userID,
		OtherUserID: otherID,
		FinalScore:  rc.FinalScore,
		Breakdown:   rc.Breakdown,
	}, nil
}

func truncate(ranked []*RankedCandidate, limit int) []*RankedCandidate {
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
