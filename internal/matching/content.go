package matching

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// ContentScorer holds the content-based half of the hybrid score: Jaccard
// categorical overlap, TF-IDF textual overlap and cosine numeric-feature
// similarity. The fourth sub-score (preference alignment) lives in
// PreferenceScorer.
type ContentScorer struct {
	weights RankingWeights
}

func NewContentScorer(weights RankingWeights) *ContentScorer {
	return &ContentScorer{weights: weights}
}

// ---------- Jaccard categorical overlap ----------

// JaccardSimilarity measures how the candidate's categorical attributes
// overlap the target's declared preference lists, intersection-over-union
// per attribute, averaged over the attributes with data on both sides.
func (c *ContentScorer) JaccardSimilarity(prefs *PreferenceRecord, candidate *UserRecord) Score {
	if prefs == nil {
		return Neutral(c.weights.NeutralScore, "no preference record")
	}

	total := 0.0
	scored := 0

	type setAttr struct {
		prefList  StringList
		candidate []string
	}
	attrs := []setAttr{
		{prefs.EthnicityPreferences, nonEmpty(deref(candidate.Ethnicity), deref(candidate.SecondaryTribe))},
		{prefs.ReligionPreferences, nonEmpty(deref(candidate.Religion))},
		{prefs.BodyTypePreferences, nonEmpty(deref(candidate.BodyType))},
		{prefs.EducationLevelPreferences, nonEmpty(deref(candidate.EducationLevel))},
		{prefs.LocationPreferences, nonEmpty(deref(candidate.Location))},
		{asList(prefs.RelationshipGoalPreference), nonEmpty(deref(candidate.RelationshipGoal))},
	}

	for _, attr := range attrs {
		if len(attr.prefList) == 0 || len(attr.candidate) == 0 {
			continue
		}
		total += jaccard(attr.prefList, attr.candidate)
		scored++
	}

	// Boolean attributes score as direct equality
	if prefs.HasChildrenPreference != nil && candidate.HasChildren != nil {
		total += boolMatch(*prefs.HasChildrenPreference, *candidate.HasChildren)
		scored++
	}
	if prefs.WantsChildrenPreference != nil && candidate.WantsChildren != nil {
		total += boolMatch(*prefs.WantsChildrenPreference, *candidate.WantsChildren)
		scored++
	}

	if scored == 0 {
		return Neutral(c.weights.NeutralScore, "no overlapping attribute data")
	}
	return Computed(total / float64(scored))
}

// jaccard is intersection-over-union of two case-insensitive string sets.
func jaccard(a, b []string) float64 {
	setA := toLowerSet(a)
	setB := toLowerSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for v := range setB {
		if setA[v] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// ---------- TF-IDF textual overlap ----------

// reToken extracts alphanumeric tokens, hyphenated words included.
var reToken = regexp.MustCompile(`[A-Za-z0-9]+(?:-[A-Za-z0-9]+)*`)

// tokenStopwords excludes common words that produce noisy matches.
var tokenStopwords = map[string]bool{
	"the": true, "a": true, "an": true,
	"to": true, "of": true, "in": true, "on": true, "for": true, "with": true, "by": true,
	"and": true, "or": true, "as": true, "at": true, "from": true,
	"i": true, "im": true, "my": true, "me": true, "am": true, "is": true, "are": true,
	"love": true, "like": true, "enjoy": true, "really": true, "very": true,
}

func tokenize(raw string) []string {
	parts := reToken.FindAllString(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToLower(p)
		if tokenStopwords[t] || len(t) <= 1 {
			continue
		}
		out = append(out, t)
	}
	return out
}

// profileDocument concatenates a user's free-text fields into one document.
func profileDocument(user *UserRecord) []string {
	var sb strings.Builder
	sb.WriteString(deref(user.Bio))
	sb.WriteString(" ")
	sb.WriteString(strings.Join(user.Interests, " "))
	sb.WriteString(" ")
	sb.WriteString(deref(user.Profession))
	sb.WriteString(" ")
	sb.WriteString(deref(user.EducationLevel))
	sb.WriteString(" ")
	sb.WriteString(deref(user.University))
	sb.WriteString(" ")
	sb.WriteString(deref(user.Location))
	return tokenize(sb.String())
}

// termIndex holds document frequencies over the documents of one ranking
// call, so rare terms weigh more than ubiquitous ones.
type termIndex struct {
	docCount int
	docFreq  map[string]int
}

func newTermIndex() *termIndex {
	return &termIndex{docFreq: make(map[string]int)}
}

func (ti *termIndex) Add(tokens []string) {
	ti.docCount++
	seen := map[string]bool{}
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		ti.docFreq[t]++
	}
}

func (ti *termIndex) IDF(term string) float64 {
	return math.Log(1 + float64(ti.docCount)/float64(1+ti.docFreq[term]))
}

// vector builds the tf-idf vector of a token list.
func (ti *termIndex) vector(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return nil
	}
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	vec := make(map[string]float64, len(tf))
	for t, f := range tf {
		vec[t] = (f / float64(len(tokens))) * ti.IDF(t)
	}
	return vec
}

// TFIDFSimilarity scores the textual overlap of two profile documents as the
// cosine of their tf-idf vectors over the request's term index.
func (c *ContentScorer) TFIDFSimilarity(index *termIndex, targetDoc, candidateDoc []string) Score {
	if len(targetDoc) == 0 || len(candidateDoc) == 0 {
		return Neutral(c.weights.NeutralScore, "missing profile text")
	}

	va := index.vector(targetDoc)
	vb := index.vector(candidateDoc)

	dot, normA, normB := 0.0, 0.0, 0.0
	for t, w := range va {
		normA += w * w
		if wb, ok := vb[t]; ok {
			dot += w * wb
		}
	}
	for _, w := range vb {
		normB += w * w
	}

	if normA == 0 || normB == 0 {
		return Neutral(c.weights.NeutralScore, "empty term vectors")
	}
	return Computed(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// ---------- Cosine numeric-feature similarity ----------

// featureVector maps a user onto a numeric feature vector. Missing features
// take the neutral mid-point so they neither attract nor repel.
func (c *ContentScorer) featureVector(user *UserRecord, proximity float64, now time.Time) []float64 {
	vec := make([]float64, 0, 6)

	// Age, normalized against a 100-year span
	age := c.weights.NeutralScore
	if user.DateOfBirth != nil {
		years := now.Sub(*user.DateOfBirth).Hours() / (24 * 365.25)
		age = clamp01(years / 100)
	}
	vec = append(vec, age)

	// Height, normalized against 220cm
	height := c.weights.NeutralScore
	if user.Height != nil {
		height = clamp01(float64(*user.Height) / 220)
	}
	vec = append(vec, height)

	// Profile completeness
	vec = append(vec, clamp01(float64(user.CompletionPercentage)/100))

	// Engagement: response-time patterns
	engagement := c.weights.NeutralScore
	if user.ResponseRate != nil {
		engagement = clamp01(*user.ResponseRate)
	}
	vec = append(vec, engagement)

	// Platform activity from last-active recency
	activity := 0.0
	if user.LastActive != nil {
		days := now.Sub(*user.LastActive).Hours() / 24
		activity = clamp01(1 - days/30)
	}
	vec = append(vec, activity)

	// Pairwise geographic proximity, identical on both sides of the pair
	vec = append(vec, proximity)

	return vec
}

// CosineSimilarity compares the numeric feature vectors of two users.
func (c *ContentScorer) CosineSimilarity(target, candidate *UserRecord, now time.Time) Score {
	proximity := c.geographicProximity(target, candidate)

	va := c.featureVector(target, proximity, now)
	vb := c.featureVector(candidate, proximity, now)

	dot, normA, normB := 0.0, 0.0, 0.0
	for i := range va {
		dot += va[i] * vb[i]
		normA += va[i] * va[i]
		normB += vb[i] * vb[i]
	}

	if normA == 0 || normB == 0 {
		return Neutral(c.weights.NeutralScore, "empty feature vectors")
	}
	return Computed(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// geographicProximity decays exponentially with distance; 0.5 when either
// side has no coordinates.
func (c *ContentScorer) geographicProximity(a, b *UserRecord) float64 {
	if a.Latitude == nil || a.Longitude == nil || b.Latitude == nil || b.Longitude == nil {
		return c.weights.NeutralScore
	}
	distance := haversineDistance(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
	return clamp01(math.Exp(-distance / 50))
}

func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371 // km

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// ---------- helpers ----------

func toLowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func asList(s *string) StringList {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return StringList{*s}
}

func boolMatch(want, got bool) float64 {
	if want == got {
		return 1
	}
	return 0
}
