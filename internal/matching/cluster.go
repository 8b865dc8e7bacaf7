package matching

// DemographicScorer computes the weighted cluster overlap between two
// demographic fingerprints. Pure and symmetric: the weight applied to a
// category does not depend on argument order.
type DemographicScorer struct {
	weights RankingWeights
}

func NewDemographicScorer(weights RankingWeights) *DemographicScorer {
	return &DemographicScorer{weights: weights}
}

// clusterCategory pairs a category name with its accessor and weight lookup,
// so the five categories are compared generically.
type clusterCategory struct {
	Name   string
	Value  func(DemographicProfile) string
	Weight func(RankingWeights) float64
}

var clusterCategories = []clusterCategory{
	{"age_group", func(p DemographicProfile) string { return p.AgeGroup }, func(w RankingWeights) float64 { return w.AgeGroup }},
	{"location_cluster", func(p DemographicProfile) string { return p.LocationCluster }, func(w RankingWeights) float64 { return w.LocationCluster }},
	{"education_level", func(p DemographicProfile) string { return p.EducationLevel }, func(w RankingWeights) float64 { return w.EducationLevelWeight }},
	{"profession_category", func(p DemographicProfile) string { return p.ProfessionCategory }, func(w RankingWeights) float64 { return w.ProfessionCategory }},
	{"relationship_goal", func(p DemographicProfile) string { return p.RelationshipGoal }, func(w RankingWeights) float64 { return w.RelationshipGoal }},
}

// Similarity scores the overlap of b against a. A zero score with no common
// clusters is a valid outcome, not an error.
func (s *DemographicScorer) Similarity(a, b DemographicProfile) ClusterSimilarity {
	score := 0.0
	common := []string{}

	for _, cat := range clusterCategories {
		va, vb := cat.Value(a), cat.Value(b)
		if va == CategoryUnknown || vb == CategoryUnknown {
			continue
		}
		if va == vb {
			score += cat.Weight(s.weights)
			common = append(common, cat.Name)
		}
	}

	return ClusterSimilarity{
		UserID:             b.UserID,
		SimilarityScore:    clamp01(score),
		CommonClusters:     common,
		DemographicProfile: &b,
	}
}
