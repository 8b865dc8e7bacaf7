package matching

import "strings"

// educationRank is the ordinal hierarchy used by the intellect category.
var educationRank = map[string]int{
	"high_school":  0,
	"high school":  0,
	"some_college": 1,
	"some college": 1,
	"bachelors":    2,
	"university":   2,
	"masters":      3,
	"doctorate":    4,
	"phd":          4,
}

// PreferenceScorer scores a candidate against the target's ranked
// matching-priority list. Earlier priorities weigh more; weights are
// renormalized over the categories that could actually be scored so the
// result stays a valid weighted average under missing data.
type PreferenceScorer struct {
	weights RankingWeights
}

func NewPreferenceScorer(weights RankingWeights) *PreferenceScorer {
	return &PreferenceScorer{weights: weights}
}

// Align computes the priority-weighted alignment of a candidate. The
// returned slice carries the per-category contributions for the breakdown.
func (p *PreferenceScorer) Align(prefs *PreferenceRecord, candidate *UserRecord) (Score, []PriorityWeightedScore) {
	if prefs == nil || len(prefs.MatchingPriorities) == 0 {
		return Neutral(p.weights.NeutralScore, "no matching priorities declared"), nil
	}

	positionWeights := p.positionWeights(len(prefs.MatchingPriorities))

	var breakdown []PriorityWeightedScore
	weightedSum := 0.0
	weightUsed := 0.0

	for i, category := range prefs.MatchingPriorities {
		raw, ok := p.scoreCategory(strings.ToLower(strings.TrimSpace(category)), prefs, candidate)
		if !ok {
			continue
		}
		w := positionWeights[i]
		weightedSum += raw * w
		weightUsed += w
		breakdown = append(breakdown, PriorityWeightedScore{
			Category:     category,
			RawScore:     raw,
			Weight:       w,
			Contribution: raw * w,
		})
	}

	if weightUsed == 0 {
		return Neutral(p.weights.NeutralScore, "no scorable priority categories"), nil
	}

	// Renormalize so skipped categories don't silently under-weight the rest
	return Computed(weightedSum / weightUsed), breakdown
}

// positionWeights assigns 0.40/0.30/0.20 to the first three priorities and
// splits the residual evenly over the remainder.
func (p *PreferenceScorer) positionWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		switch i {
		case 0:
			weights[i] = p.weights.PriorityFirst
		case 1:
			weights[i] = p.weights.PrioritySecond
		case 2:
			weights[i] = p.weights.PriorityThird
		default:
			weights[i] = p.weights.PriorityResidual / float64(n-3)
		}
	}
	return weights
}

// scoreCategory returns the raw category score and whether the category
// could be scored at all with the available data.
func (p *PreferenceScorer) scoreCategory(category string, prefs *PreferenceRecord, candidate *UserRecord) (float64, bool) {
	switch category {
	case "looks":
		return p.scoreLooks(prefs, candidate)
	case "personality":
		return p.scorePersonality(prefs, candidate)
	case "career":
		return p.scoreCareer(prefs, candidate)
	case "values":
		return p.scoreValues(prefs, candidate)
	case "religion":
		return p.scoreReligion(prefs, candidate)
	case "tribe":
		return p.scoreTribe(prefs, candidate)
	case "intellect":
		return p.scoreIntellect(prefs, candidate)
	default:
		return 0, false
	}
}

func (p *PreferenceScorer) scoreLooks(prefs *PreferenceRecord, candidate *UserRecord) (float64, bool) {
	total := 0.0
	factors := 0

	if len(prefs.BodyTypePreferences) > 0 && candidate.BodyType != nil {
		total += membership(prefs.BodyTypePreferences, *candidate.BodyType)
		factors++
	}

	if candidate.Height != nil && (prefs.MinHeight != nil || prefs.MaxHeight != nil) {
		inRange := 1.0
		if prefs.MinHeight != nil && *candidate.Height < *prefs.MinHeight {
			inRange = 0
		}
		if prefs.MaxHeight != nil && *candidate.Height > *prefs.MaxHeight {
			inRange = 0
		}
		total += inRange
		factors++
	}

	if factors == 0 {
		return 0, false
	}
	return total / float64(factors), true
}

func (p *PreferenceScorer) scorePersonality(prefs *PreferenceRecord, candidate *UserRecord) (float64, bool) {
	if len(prefs.InterestPreferences) == 0 || len(candidate.Interests) == 0 {
		return 0, false
	}
	overlap := jaccard(prefs.InterestPreferences, candidate.Interests)
	return (p.weights.BioCompatibility + overlap) / 2, true
}

func (p *PreferenceScorer) scoreCareer(prefs *PreferenceRecord, candidate *UserRecord) (float64, bool) {
	total := 0.0
	factors := 0

	if len(prefs.EducationLevelPreferences) > 0 && candidate.EducationLevel != nil {
		total += membership(prefs.EducationLevelPreferences, *candidate.EducationLevel)
		factors++
	}
	if candidate.Profession != nil {
		total += p.weights.ProfessionCompatibility
		factors++
	}

	if factors == 0 {
		return 0, false
	}
	return total / float64(factors), true
}

func (p *PreferenceScorer) scoreValues(prefs *PreferenceRecord, candidate *UserRecord) (float64, bool) {
	total := 0.0
	factors := 0

	if len(prefs.ReligionPreferences) > 0 && candidate.Religion != nil {
		total += membership(prefs.ReligionPreferences, *candidate.Religion)
		factors++
	}
	if len(prefs.InterestPreferences) > 0 && len(candidate.Interests) > 0 {
		total += overlapRatio(prefs.InterestPreferences, candidate.Interests)
		factors++
	}

	if factors == 0 {
		return 0, false
	}
	return total / float64(factors), true
}

func (p *PreferenceScorer) scoreReligion(prefs *PreferenceRecord, candidate *UserRecord) (float64, bool) {
	if len(prefs.ReligionPreferences) == 0 || candidate.Religion == nil {
		return 0, false
	}
	return membership(prefs.ReligionPreferences, *candidate.Religion), true
}

func (p *PreferenceScorer) scoreTribe(prefs *PreferenceRecord, candidate *UserRecord) (float64, bool) {
	if len(prefs.EthnicityPreferences) == 0 {
		return 0, false
	}

	attrs := nonEmpty(deref(candidate.Ethnicity), deref(candidate.SecondaryTribe))
	if len(attrs) == 0 {
		return 0, false
	}

	matched := 0
	for _, a := range attrs {
		if membership(prefs.EthnicityPreferences, a) == 1 {
			matched++
		}
	}
	return float64(matched) / float64(len(attrs)), true
}

func (p *PreferenceScorer) scoreIntellect(prefs *PreferenceRecord, candidate *UserRecord) (float64, bool) {
	if candidate.EducationLevel == nil {
		return 0, false
	}

	rank, ok := educationRank[strings.ToLower(strings.TrimSpace(*candidate.EducationLevel))]
	if !ok {
		return 0, false
	}

	// Education compatibility scales with rank on the fixed ordinal
	// hierarchy; blended with the prestige placeholder.
	eduScore := float64(rank) / 4.0
	return (eduScore + p.weights.UniversityPrestige) / 2, true
}

// membership is 1 when value appears (case-insensitive) in the list.
func membership(list StringList, value string) float64 {
	target := strings.ToLower(strings.TrimSpace(value))
	for _, v := range list {
		if strings.ToLower(strings.TrimSpace(v)) == target {
			return 1
		}
	}
	return 0
}

// overlapRatio is the fraction of preferred values the candidate carries.
func overlapRatio(preferred, actual []string) float64 {
	if len(preferred) == 0 {
		return 0
	}
	actualSet := toLowerSet(actual)
	matched := 0
	for _, pref := range preferred {
		if actualSet[strings.ToLower(strings.TrimSpace(pref))] {
			matched++
		}
	}
	return float64(matched) / float64(len(preferred))
}
