package matching

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringList is a JSON-encoded text[] column
type StringList []string

// Scan implements the sql.Scanner interface for StringList
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, s)
	}
	return nil
}

// Value implements the driver.Valuer interface for StringList
func (s StringList) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// UserRecord is the read-only profile snapshot the scoring pipeline consumes.
// The profile-management service owns and mutates these rows.
type UserRecord struct {
	ID               int64      `json:"id" db:"id"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Location         *string    `json:"location,omitempty" db:"location"`
	CountryOfOrigin  *string    `json:"country_of_origin,omitempty" db:"country_of_origin"`
	EducationLevel   *string    `json:"education_level,omitempty" db:"education_level"`
	University       *string    `json:"university,omitempty" db:"university"`
	HighSchool       *string    `json:"high_school,omitempty" db:"high_school"`
	Profession       *string    `json:"profession,omitempty" db:"profession"`
	RelationshipGoal *string    `json:"relationship_goal,omitempty" db:"relationship_goal"`
	Bio              *string    `json:"bio,omitempty" db:"bio"`
	Interests        StringList `json:"interests" db:"interests"`
	Ethnicity        *string    `json:"ethnicity,omitempty" db:"ethnicity"`
	SecondaryTribe   *string    `json:"secondary_tribe,omitempty" db:"secondary_tribe"`
	Religion         *string    `json:"religion,omitempty" db:"religion"`
	BodyType         *string    `json:"body_type,omitempty" db:"body_type"`
	Height           *int       `json:"height,omitempty" db:"height"` // in cm
	HasChildren      *bool      `json:"has_children,omitempty" db:"has_children"`
	WantsChildren    *bool      `json:"wants_children,omitempty" db:"wants_children"`
	Latitude         *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64   `json:"longitude,omitempty" db:"longitude"`

	// Activity signals
	IsOnline             bool       `json:"is_online" db:"is_online"`
	LastActive           *time.Time `json:"last_active,omitempty" db:"last_active"`
	CompletionPercentage int        `json:"completion_percentage" db:"completion_percentage"`
	ResponseRate         *float64   `json:"response_rate,omitempty" db:"response_rate"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// PreferenceRecord holds a user's declared filters and ranked priorities.
type PreferenceRecord struct {
	UserID                     int64      `json:"user_id" db:"user_id"`
	MatchingPriorities         StringList `json:"matching_priorities" db:"matching_priorities"`
	ReligionPreferences        StringList `json:"religion_preferences" db:"religion_preferences"`
	EthnicityPreferences       StringList `json:"ethnicity_preferences" db:"ethnicity_preferences"`
	BodyTypePreferences        StringList `json:"body_type_preferences" db:"body_type_preferences"`
	EducationLevelPreferences  StringList `json:"education_level_preferences" db:"education_level_preferences"`
	InterestPreferences        StringList `json:"interest_preferences" db:"interest_preferences"`
	RelationshipGoalPreference *string    `json:"relationship_goal_preference,omitempty" db:"relationship_goal_preference"`
	LocationPreferences        StringList `json:"location_preferences" db:"location_preferences"`
	MinHeight                  *int       `json:"min_height,omitempty" db:"min_height"`
	MaxHeight                  *int       `json:"max_height,omitempty" db:"max_height"`
	HasChildrenPreference      *bool      `json:"has_children_preference,omitempty" db:"has_children_preference"`
	WantsChildrenPreference    *bool      `json:"wants_children_preference,omitempty" db:"wants_children_preference"`
	CreatedAt                  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                  *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// DemographicProfile is the categorical fingerprint derived from a UserRecord.
// Computed fresh per request, never persisted.
type DemographicProfile struct {
	UserID             int64  `json:"user_id"`
	AgeGroup           string `json:"age_group"`
	LocationCluster    string `json:"location_cluster"`
	EducationLevel     string `json:"education_level"`
	ProfessionCategory string `json:"profession_category"`
	RelationshipGoal   string `json:"relationship_goal"`
}

// ClusterSimilarity is the weighted demographic overlap between two profiles.
type ClusterSimilarity struct {
	UserID             int64               `json:"user_id"`
	SimilarityScore    float64             `json:"similarity_score"`
	CommonClusters     []string            `json:"common_clusters"`
	DemographicProfile *DemographicProfile `json:"demographic_profile,omitempty"`
}

// TemporalProfile captures a user's activity signals.
type TemporalProfile struct {
	UserID                int64   `json:"user_id"`
	IsOnline              bool    `json:"is_online"`
	OnlineBoost           float64 `json:"online_boost"`            // [0,1]
	LastActiveScore       float64 `json:"last_active_score"`       // [0,100]
	ProfileFreshnessScore float64 `json:"profile_freshness_score"` // [0,100]
	PeakActivityHours     []int   `json:"peak_activity_hours"`     // up to 3 hours of day
	ActivityPatternScore  float64 `json:"activity_pattern_score"`  // [0,1]
}

// ActivityBucket is an hour-of-day activity count from the message/swipe logs.
type ActivityBucket struct {
	HourOfDay int `json:"hour_of_day" db:"hour_of_day"`
	Count     int `json:"count" db:"count"`
}

// PriorityWeightedScore is the per-category contribution of the
// preference-alignment sub-scorer.
type PriorityWeightedScore struct {
	Category     string  `json:"category"`
	RawScore     float64 `json:"raw_score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ContentBreakdown carries the four content sub-scores.
type ContentBreakdown struct {
	Jaccard             Score                   `json:"jaccard"`
	TFIDF               Score                   `json:"tfidf"`
	Cosine              Score                   `json:"cosine"`
	PreferenceAlignment Score                   `json:"preference_alignment"`
	PriorityScores      []PriorityWeightedScore `json:"priority_scores,omitempty"`
}

// ContextBreakdown carries the temporal re-ranking components.
type ContextBreakdown struct {
	OnlineBoost       float64 `json:"online_boost"`
	RecencyScore      float64 `json:"recency_score"`
	FreshnessScore    float64 `json:"freshness_score"`
	ActivityAlignment Score   `json:"activity_alignment"`
}

// ScoreBreakdown is the full per-candidate explanation attached to a
// ranked result, used by clients and analysis tooling.
type ScoreBreakdown struct {
	Content       ContentBreakdown  `json:"content"`
	Collaborative ClusterSimilarity `json:"collaborative"`
	Context       ContextBreakdown  `json:"context"`
}

// RankedCandidate is one entry of the ranked discovery feed.
type RankedCandidate struct {
	UserID             int64           `json:"user_id"`
	FinalScore         float64         `json:"final_score"`
	ContentScore       float64         `json:"content_score"`
	CollaborativeScore float64         `json:"collaborative_score"`
	ContextScore       float64         `json:"context_score"`
	Breakdown          *ScoreBreakdown `json:"breakdown,omitempty"`
}

// RankingContext carries per-request state through the scoring pipeline.
type RankingContext struct {
	RequestID string
	Mode      string // "meet", "heat" or "suite"
	Now       time.Time
}
