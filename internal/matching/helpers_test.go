package matching

import (
	"context"
	"errors"
	"time"
)

// fakeRepo is an in-memory Repository for scorer and ranker tests.
type fakeRepo struct {
	users    map[int64]*UserRecord
	prefs    map[int64]*PreferenceRecord
	messages map[int64][]ActivityBucket
	swipes   map[int64][]ActivityBucket
	pool     []int64

	failUsers    map[int64]bool // GetUser errors for these IDs
	failActivity bool           // activity queries error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     map[int64]*UserRecord{},
		prefs:     map[int64]*PreferenceRecord{},
		messages:  map[int64][]ActivityBucket{},
		swipes:    map[int64][]ActivityBucket{},
		failUsers: map[int64]bool{},
	}
}

func (f *fakeRepo) GetUser(ctx context.Context, id int64) (*UserRecord, error) {
	if f.failUsers[id] {
		return nil, errors.New("storage offline")
	}
	user, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepo) GetUserPreferences(ctx context.Context, id int64) (*PreferenceRecord, error) {
	prefs, ok := f.prefs[id]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	return prefs, nil
}

func (f *fakeRepo) GetRecentMessageActivity(ctx context.Context, userID int64, since time.Time) ([]ActivityBucket, error) {
	if f.failActivity {
		return nil, errors.New("activity log unavailable")
	}
	return f.messages[userID], nil
}

func (f *fakeRepo) GetRecentSwipeActivity(ctx context.Context, userID int64, since time.Time) ([]ActivityBucket, error) {
	if f.failActivity {
		return nil, errors.New("activity log unavailable")
	}
	return f.swipes[userID], nil
}

func (f *fakeRepo) GetCandidatePool(ctx context.Context, excludeUserID int64, activityWindowDays, limit int) ([]int64, error) {
	return f.pool, nil
}

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func boolPtr(b bool) *bool           { return &b }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

// testNow is the fixed reference time used across tests.
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

// testUser builds a fully populated user record.
func testUser(id int64) *UserRecord {
	return &UserRecord{
		ID:                   id,
		DateOfBirth:          timePtr(testNow.AddDate(-28, 0, 0)),
		Location:             strPtr("Madrid, Spain"),
		EducationLevel:       strPtr("Masters"),
		Profession:           strPtr("Software Engineer"),
		RelationshipGoal:     strPtr("Looking for something serious"),
		Bio:                  strPtr("Hiking trips and live jazz on weekends"),
		Interests:            StringList{"hiking", "jazz", "cooking"},
		Ethnicity:            strPtr("Ashanti"),
		Religion:             strPtr("Christian"),
		BodyType:             strPtr("athletic"),
		Height:               intPtr(175),
		Latitude:             floatPtr(40.4168),
		Longitude:            floatPtr(-3.7038),
		CompletionPercentage: 90,
		ResponseRate:         floatPtr(0.8),
		LastActive:           timePtr(testNow.Add(-30 * time.Minute)),
		CreatedAt:            testNow.AddDate(-1, 0, 0),
		UpdatedAt:            timePtr(testNow.AddDate(0, 0, -2)),
	}
}

func testPreferences(userID int64) *PreferenceRecord {
	return &PreferenceRecord{
		UserID:               userID,
		MatchingPriorities:   StringList{"personality", "looks", "religion"},
		ReligionPreferences:  StringList{"Christian"},
		EthnicityPreferences: StringList{"Ashanti", "Ewe"},
		BodyTypePreferences:  StringList{"athletic", "average"},
		InterestPreferences:  StringList{"hiking", "jazz"},
		MinHeight:            intPtr(160),
		MaxHeight:            intPtr(190),
	}
}
