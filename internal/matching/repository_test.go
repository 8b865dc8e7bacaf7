package matching

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var userColumns = []string{
	"id", "date_of_birth", "location", "country_of_origin",
	"education_level", "university", "high_school", "profession",
	"relationship_goal", "bio", "interests", "ethnicity", "secondary_tribe",
	"religion", "body_type", "height", "has_children", "wants_children",
	"latitude", "longitude", "is_online", "last_active",
	"completion_percentage", "response_rate", "created_at", "updated_at",
}

func TestGetUserScansFullRecord(t *testing.T) {
	repo, mock := newMockRepository(t)

	dob := testNow.AddDate(-28, 0, 0)
	lastActive := testNow.Add(-10 * time.Minute)
	rows := sqlmock.NewRows(userColumns).AddRow(
		int64(7), dob, "Madrid, Spain", "Spain",
		"Masters", nil, nil, "Software Engineer",
		"Looking for something serious", "Hiking and jazz", []byte(`["hiking","jazz"]`), "Ashanti", nil,
		"Christian", "athletic", 175, true, nil,
		40.4168, -3.7038, false, lastActive,
		90, 0.8, testNow.AddDate(-1, 0, 0), testNow.AddDate(0, 0, -2),
	)

	mock.ExpectQuery("FROM users").WithArgs(int64(7)).WillReturnRows(rows)

	user, err := repo.GetUser(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Madrid, Spain", *user.Location)
	assert.Equal(t, StringList{"hiking", "jazz"}, user.Interests)
	assert.Equal(t, 175, *user.Height)
	assert.True(t, *user.HasChildren)
	assert.Nil(t, user.WantsChildren)
	assert.Equal(t, 90, user.CompletionPercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM users").WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	user, err := repo.GetUser(context.Background(), 404)

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserPropagatesQueryErrors(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM users").WillReturnError(errors.New("connection reset"))

	_, err := repo.GetUser(context.Background(), 7)

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUserNotFound))
}

func TestGetUserPreferencesScansLists(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{
		"user_id", "matching_priorities", "religion_preferences",
		"ethnicity_preferences", "body_type_preferences",
		"education_level_preferences", "interest_preferences",
		"relationship_goal_preference", "location_preferences",
		"min_height", "max_height", "has_children_preference",
		"wants_children_preference", "created_at", "updated_at",
	}).AddRow(
		int64(7), []byte(`["religion","looks"]`), []byte(`["Christian"]`),
		[]byte(`["Ashanti"]`), []byte(`["athletic"]`),
		nil, []byte(`["hiking"]`),
		"Long-term", nil,
		160, 190, nil,
		nil, testNow.AddDate(-1, 0, 0), nil,
	)

	mock.ExpectQuery("FROM user_preferences").WithArgs(int64(7)).WillReturnRows(rows)

	prefs, err := repo.GetUserPreferences(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, StringList{"religion", "looks"}, prefs.MatchingPriorities)
	assert.Equal(t, StringList{"Christian"}, prefs.ReligionPreferences)
	assert.Nil(t, prefs.EducationLevelPreferences)
	assert.Equal(t, "Long-term", *prefs.RelationshipGoalPreference)
	assert.Equal(t, 160, *prefs.MinHeight)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserPreferencesNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM user_preferences").WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	prefs, err := repo.GetUserPreferences(context.Background(), 404)

	assert.Nil(t, prefs)
	assert.True(t, errors.Is(err, ErrPreferencesNotFound))
}

func TestGetRecentMessageActivityGroupsByHour(t *testing.T) {
	repo, mock := newMockRepository(t)

	since := testNow.AddDate(0, 0, -30)
	rows := sqlmock.NewRows([]string{"hour_of_day", "count"}).
		AddRow(9, 12).
		AddRow(21, 30)

	mock.ExpectQuery("FROM messages").WithArgs(int64(7), since).WillReturnRows(rows)

	buckets, err := repo.GetRecentMessageActivity(context.Background(), 7, since)

	require.NoError(t, err)
	assert.Equal(t, []ActivityBucket{{HourOfDay: 9, Count: 12}, {HourOfDay: 21, Count: 30}}, buckets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecentSwipeActivityEmptyResult(t *testing.T) {
	repo, mock := newMockRepository(t)

	since := testNow.AddDate(0, 0, -30)
	mock.ExpectQuery("FROM swipes").WithArgs(int64(7), since).
		WillReturnRows(sqlmock.NewRows([]string{"hour_of_day", "count"}))

	buckets, err := repo.GetRecentSwipeActivity(context.Background(), 7, since)

	require.NoError(t, err)
	assert.Empty(t, buckets)
	assert.NotNil(t, buckets)
}

func TestGetCandidatePoolExcludesTargetAndLimits(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(2)).AddRow(int64(5)).AddRow(int64(9))
	mock.ExpectQuery("SELECT DISTINCT").WithArgs(int64(1), 30, 100).WillReturnRows(rows)

	ids, err := repo.GetCandidatePool(context.Background(), 1, 30, 100)

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
