package matching

import (
	"strings"
	"time"
)

// Category values shared by profiler and scorer.
const (
	CategoryUnknown = "Unknown"
	CategoryOther   = "Other"
)

// keywordCategory maps a category name to its match keywords. Matching is a
// case-insensitive substring scan; the first category that hits wins, so
// more specific categories go first.
type keywordCategory struct {
	Name     string
	Keywords []string
}

var locationClusters = []keywordCategory{
	{"Spain", []string{"spain", "madrid", "barcelona", "valencia", "seville"}},
	{"USA", []string{"usa", "united states", "america", "texas", "new york", "california", "chicago", "houston", "atlanta"}},
	{"Ghana", []string{"ghana", "accra", "kumasi", "tamale"}},
	{"UK", []string{"uk", "united kingdom", "england", "london", "manchester", "birmingham"}},
	{"France", []string{"france", "paris", "lyon", "marseille"}},
	{"Germany", []string{"germany", "berlin", "munich", "hamburg", "frankfurt"}},
	{"Canada", []string{"canada", "toronto", "vancouver", "montreal", "ottawa"}},
	{"Nigeria", []string{"nigeria", "lagos", "abuja", "ibadan"}},
}

var professionCategories = []keywordCategory{
	{"Creative & Arts", []string{"artist", "designer", "musician", "photographer", "writer", "actor", "painter", "dancer", "filmmaker", "illustrator", "creative"}},
	{"Technology & Engineering", []string{"engineer", "developer", "programmer", "software", "data scientist", "architect", "devops", "technician", "it ", "tech", "analyst"}},
	{"Healthcare & Medical", []string{"doctor", "nurse", "physician", "surgeon", "dentist", "pharmacist", "therapist", "psychologist", "midwife", "paramedic", "medical"}},
	{"Business & Finance", []string{"accountant", "banker", "entrepreneur", "consultant", "manager", "economist", "trader", "investor", "marketing", "finance", "business"}},
	{"Education & Research", []string{"teacher", "professor", "lecturer", "researcher", "tutor", "scientist", "academic", "librarian", "educator"}},
	{"Trades & Skilled Labor", []string{"electrician", "plumber", "carpenter", "mechanic", "welder", "builder", "mason", "tailor", "driver"}},
	{"Sports & Fitness", []string{"athlete", "coach", "trainer", "footballer", "fitness", "yoga", "instructor"}},
	{"Law & Public Service", []string{"lawyer", "attorney", "judge", "police", "soldier", "military", "civil servant", "firefighter", "barrister", "solicitor"}},
	{"Hospitality & Tourism", []string{"chef", "cook", "waiter", "hotel", "bartender", "tour guide", "flight attendant", "travel"}},
	{"Retail & Customer Service", []string{"sales", "cashier", "retail", "shopkeeper", "customer service", "merchandiser"}},
	{"Media & Communications", []string{"journalist", "reporter", "editor", "presenter", "broadcaster", "publicist", "blogger", "influencer"}},
}

var relationshipGoalGroups = []keywordCategory{
	{"Long-term", []string{"long-term", "long term", "serious", "marriage", "life partner", "settle down", "committed"}},
	{"Casual", []string{"casual", "fling", "hookup", "nothing serious", "fun"}},
	{"Friendship", []string{"friendship", "friend", "platonic", "pen pal"}},
	{"Open to possibilities", []string{"open to", "possibilities", "see where", "exploring", "not sure", "undecided"}},
	{"Romance", []string{"romance", "romantic", "love", "dating"}},
}

// educationLevelKeywords maps explicit level keywords to the canonical bands.
var educationLevelKeywords = []keywordCategory{
	{"Doctorate", []string{"doctorate", "phd", "ph.d", "doctoral"}},
	{"Masters", []string{"masters", "master's", "msc", "m.sc", "mba", "ma "}},
	{"Bachelors", []string{"bachelors", "bachelor's", "bsc", "b.sc", "ba ", "undergraduate degree"}},
	{"High School", []string{"high school", "secondary school", "shs", "a-levels"}},
}

// ageGroups are ordered bands; UpperBound is inclusive.
var ageGroups = []struct {
	Name       string
	UpperBound int
}{
	{"18-20", 20},
	{"21-24", 24},
	{"25-29", 29},
	{"30-34", 34},
	{"35-39", 39},
	{"40-44", 44},
}

const ageGroupOldest = "45+"

// DemographicProfiler derives a categorical fingerprint from a raw user
// record. It never fails: any missing or unparseable field degrades to
// Unknown (or Other, where the category defines it) for that field alone.
type DemographicProfiler struct{}

func NewDemographicProfiler() *DemographicProfiler {
	return &DemographicProfiler{}
}

// Profile derives the demographic fingerprint of a user as of now.
func (p *DemographicProfiler) Profile(user *UserRecord, now time.Time) DemographicProfile {
	return DemographicProfile{
		UserID:             user.ID,
		AgeGroup:           p.ageGroup(user.DateOfBirth, now),
		LocationCluster:    p.locationCluster(user.Location, user.CountryOfOrigin),
		EducationLevel:     p.educationLevel(user.EducationLevel, user.University, user.HighSchool),
		ProfessionCategory: p.professionCategory(user.Profession),
		RelationshipGoal:   p.relationshipGoal(user.RelationshipGoal),
	}
}

func (p *DemographicProfiler) ageGroup(dob *time.Time, now time.Time) string {
	if dob == nil {
		return CategoryUnknown
	}

	age := now.Year() - dob.Year()
	// Subtract one year if the birthday has not happened yet this year
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return CategoryUnknown
	}

	for _, band := range ageGroups {
		if age <= band.UpperBound {
			return band.Name
		}
	}
	return ageGroupOldest
}

func (p *DemographicProfiler) locationCluster(location, country *string) string {
	text := strings.ToLower(strings.TrimSpace(deref(location)))
	if text == "" {
		text = strings.ToLower(strings.TrimSpace(deref(country)))
	}
	if text == "" {
		return CategoryUnknown
	}

	if name, ok := matchKeywords(locationClusters, text); ok {
		return name
	}
	return CategoryOther
}

func (p *DemographicProfiler) educationLevel(level, university, highSchool *string) string {
	if text := strings.ToLower(strings.TrimSpace(deref(level))); text != "" {
		if name, ok := matchKeywords(educationLevelKeywords, text); ok {
			return name
		}
		return CategoryOther
	}

	if strings.TrimSpace(deref(university)) != "" {
		return "University"
	}
	if strings.TrimSpace(deref(highSchool)) != "" {
		return "High School"
	}
	return CategoryUnknown
}

func (p *DemographicProfiler) professionCategory(profession *string) string {
	text := strings.ToLower(strings.TrimSpace(deref(profession)))
	if text == "" {
		return CategoryOther
	}

	if name, ok := matchKeywords(professionCategories, text); ok {
		return name
	}
	return CategoryOther
}

func (p *DemographicProfiler) relationshipGoal(goal *string) string {
	text := strings.ToLower(strings.TrimSpace(deref(goal)))
	if text == "" {
		return CategoryUnknown
	}

	if name, ok := matchKeywords(relationshipGoalGroups, text); ok {
		return name
	}
	return CategoryOther
}

// matchKeywords returns the first category whose keyword list contains a
// substring of text.
func matchKeywords(categories []keywordCategory, text string) (string, bool) {
	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				return cat.Name, true
			}
		}
	}
	return "", false
}

func deref(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}
