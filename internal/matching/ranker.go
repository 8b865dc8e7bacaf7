package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shashanksGitHub/charlie-sub013/internal/common/logger"
)

// HybridRanker is the composition root of the scoring pipeline. It merges
// content, collaborative/demographic and temporal context scores into one
// final score per candidate and returns the ranked list.
type HybridRanker struct {
	repo         Repository
	profiler     *DemographicProfiler
	demographics *DemographicScorer
	temporal     *TemporalProfiler
	contextS     *ContextScorer
	content      *ContentScorer
	preference   *PreferenceScorer
	weights      RankingWeights
	logger       logger.Logger
}

func NewHybridRanker(repo Repository, weights RankingWeights, log logger.Logger) *HybridRanker {
	temporal := NewTemporalProfiler(repo, weights, log)
	return &HybridRanker{
		repo:         repo,
		profiler:     NewDemographicProfiler(),
		demographics: NewDemographicScorer(weights),
		temporal:     temporal,
		contextS:     NewContextScorer(temporal, weights, log),
		content:      NewContentScorer(weights),
		preference:   NewPreferenceScorer(weights),
		weights:      weights,
		logger:       log,
	}
}

// Rank scores every candidate in the pool against the target and returns
// them sorted by final score descending, ties broken by user ID ascending.
// A candidate whose scoring fails is dropped and logged; cancellation
// returns whatever candidates finished scoring. Pagination is the caller's
// responsibility.
func (r *HybridRanker) Rank(ctx context.Context, target *UserRecord, prefs *PreferenceRecord, pool []int64, rctx *RankingContext) ([]*RankedCandidate, error) {
	if len(pool) == 0 {
		return []*RankedCandidate{}, nil
	}

	log := r.logger.WithFields(map[string]interface{}{
		"requestId": rctx.RequestID,
		"targetId":  target.ID,
	})

	// Target-side profiles are shared across all candidates
	targetDemo := r.profiler.Profile(target, rctx.Now)
	targetTemporal := r.temporal.Profile(ctx, target, rctx.Now)
	targetDoc := profileDocument(target)

	// Phase 1: fetch candidate records, bounded concurrency
	candidates := r.fetchCandidates(ctx, pool, log)
	if len(candidates) == 0 {
		return []*RankedCandidate{}, nil
	}

	// The TF-IDF index spans all documents of this ranking call
	index := newTermIndex()
	index.Add(targetDoc)
	docs := make(map[int64][]string, len(candidates))
	for _, c := range candidates {
		doc := profileDocument(c)
		docs[c.ID] = doc
		index.Add(doc)
	}

	// Phase 2: score candidates, bounded concurrency
	ranked := make([]*RankedCandidate, 0, len(candidates))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.weights.BatchSize)

	for _, candidate := range candidates {
		candidate := candidate
		g.Go(func() error {
			if gctx.Err() != nil {
				// Cancelled: drop silently, completed candidates are kept
				return nil
			}

			rc, err := r.scoreCandidate(gctx, target, prefs, targetDemo, targetTemporal, targetDoc, docs[candidate.ID], index, candidate, rctx)
			if err != nil {
				log.Warn("candidate scoring failed, dropping from ranking", map[string]interface{}{
					"candidateId": candidate.ID,
					"error":       err.Error(),
				})
				RecordCandidateDropped()
				return nil
			}

			mu.Lock()
			ranked = append(ranked, rc)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes
	g.Wait()

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	return ranked, nil
}

// fetchCandidates loads the pool's user records; a candidate that cannot
// be loaded is skipped rather than failing the call.
func (r *HybridRanker) fetchCandidates(ctx context.Context, pool []int64, log logger.Logger) []*UserRecord {
	records := make([]*UserRecord, 0, len(pool))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.weights.BatchSize)

	for _, id := range pool {
		id := id
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			user, err := r.repo.GetUser(gctx, id)
			if err != nil {
				log.Warn("candidate record unavailable", map[string]interface{}{
					"candidateId": id,
					"error":       err.Error(),
				})
				return nil
			}
			mu.Lock()
			records = append(records, user)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	// Deterministic order for the TF-IDF corpus and downstream scoring
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// scoreCandidate computes the three component scores and their weighted
// combination for one candidate. A panic in any scorer is converted into an
// error so a single bad record cannot abort the whole ranking call.
func (r *HybridRanker) scoreCandidate(
	ctx context.Context,
	target *UserRecord,
	prefs *PreferenceRecord,
	targetDemo DemographicProfile,
	targetTemporal *TemporalProfile,
	targetDoc, candidateDoc []string,
	index *termIndex,
	candidate *UserRecord,
	rctx *RankingContext,
) (rc *RankedCandidate, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			rc = nil
			err = fmt.Errorf("scoring panic: %v", rec)
		}
	}()

	// Content: four weighted sub-scores
	jaccardScore := r.content.JaccardSimilarity(prefs, candidate)
	tfidfScore := r.content.TFIDFSimilarity(index, targetDoc, candidateDoc)
	cosineScore := r.content.CosineSimilarity(target, candidate, rctx.Now)
	prefScore, priorityScores := r.preference.Align(prefs, candidate)

	contentScore := jaccardScore.Value*r.weights.Jaccard +
		tfidfScore.Value*r.weights.TFIDF +
		cosineScore.Value*r.weights.Cosine +
		prefScore.Value*r.weights.PreferenceAlignment

	// Collaborative: demographic cluster similarity
	candidateDemo := r.profiler.Profile(candidate, rctx.Now)
	cluster := r.demographics.Similarity(targetDemo, candidateDemo)

	// Context: temporal signals modulated by activity alignment
	candidateTemporal := r.temporal.Profile(ctx, candidate, rctx.Now)
	contextScore, contextBreakdown := r.contextS.ScorePair(targetTemporal, candidateTemporal)

	final := contentScore*r.weights.Content +
		cluster.SimilarityScore*r.weights.Collaborative +
		contextScore.Value*r.weights.Context

	RecordCandidateScored(final)

	return &RankedCandidate{
		UserID:             candidate.ID,
		FinalScore:         clamp01(final),
		ContentScore:       clamp01(contentScore),
		CollaborativeScore: cluster.SimilarityScore,
		ContextScore:       contextScore.Value,
		Breakdown: &ScoreBreakdown{
			Content: ContentBreakdown{
				Jaccard:             jaccardScore,
				TFIDF:               tfidfScore,
				Cosine:              cosineScore,
				PreferenceAlignment: prefScore,
				PriorityScores:      priorityScores,
			},
			Collaborative: cluster,
			Context:       contextBreakdown,
		},
	}, nil
}
