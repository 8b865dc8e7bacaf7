package matching

// RankingWeights is the single immutable weight table injected into every
// scoring component. Tests override individual fields; production code uses
// WeightsForMode.
type RankingWeights struct {
	// Top-level hybrid combination
	Content       float64
	Collaborative float64
	Context       float64

	// Content sub-scores
	Jaccard             float64
	TFIDF               float64
	Cosine              float64
	PreferenceAlignment float64

	// Demographic cluster categories
	AgeGroup             float64
	LocationCluster      float64
	EducationLevelWeight float64
	ProfessionCategory   float64
	RelationshipGoal     float64

	// Context components
	OnlineBoost       float64
	Recency           float64
	Freshness         float64
	ActivityAlignment float64

	// Activity alignment internals
	DirectOverlap float64
	AdjacentHours float64

	// Priority-position weights for preference alignment. Positions beyond
	// the third share PriorityResidual evenly.
	PriorityFirst    float64
	PrioritySecond   float64
	PriorityThird    float64
	PriorityResidual float64

	// Placeholder heuristics (extension point: replace with learned models)
	BioCompatibility        float64
	ProfessionCompatibility float64
	UniversityPrestige      float64

	// Neutral fallback for derivations with missing data
	NeutralScore float64

	// Weighted activity count at which ActivityPatternScore saturates
	ActivityTarget float64

	// Concurrency limit for bulk scoring
	BatchSize int
}

// DefaultWeights returns the production weight table.
func DefaultWeights() RankingWeights {
	return RankingWeights{
		Content:       0.40,
		Collaborative: 0.35,
		Context:       0.25,

		Jaccard:             0.25,
		TFIDF:               0.20,
		Cosine:              0.30,
		PreferenceAlignment: 0.25,

		AgeGroup:             0.15,
		LocationCluster:      0.25,
		EducationLevelWeight: 0.20,
		ProfessionCategory:   0.20,
		RelationshipGoal:     0.20,

		OnlineBoost:       0.30,
		Recency:           0.25,
		Freshness:         0.20,
		ActivityAlignment: 0.25,

		DirectOverlap: 0.6,
		AdjacentHours: 0.3,

		PriorityFirst:    0.40,
		PrioritySecond:   0.30,
		PriorityThird:    0.20,
		PriorityResidual: 0.10,

		BioCompatibility:        0.7,
		ProfessionCompatibility: 0.6,
		UniversityPrestige:      0.3,

		NeutralScore: 0.5,

		ActivityTarget: 50,

		BatchSize: 5,
	}
}

// App modes served by the ranking engine.
const (
	ModeMeet  = "meet"
	ModeHeat  = "heat"
	ModeSuite = "suite"
)

var rankingModes = []string{ModeMeet, ModeHeat, ModeSuite}

// WeightsForMode resolves the weight table for an app mode. All three modes
// currently share the default table; the lookup is the extension point for
// per-mode tuning. Unknown modes fall back to the defaults.
func WeightsForMode(mode string) RankingWeights {
	w := DefaultWeights()
	switch mode {
	case ModeMeet, ModeHeat, ModeSuite:
		return w
	default:
		return w
	}
}
