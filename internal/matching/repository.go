package matching

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrPreferencesNotFound = errors.New("user preferences not found")
)

// Repository is the read-only data access the ranking engine needs. The
// profile-management subsystem owns the tables; this interface only issues
// the logical read queries of the scoring pipeline.
type Repository interface {
	GetUser(ctx context.Context, id int64) (*UserRecord, error)
	GetUserPreferences(ctx context.Context, id int64) (*PreferenceRecord, error)
	GetRecentMessageActivity(ctx context.Context, userID int64, since time.Time) ([]ActivityBucket, error)
	GetRecentSwipeActivity(ctx context.Context, userID int64, since time.Time) ([]ActivityBucket, error)
	GetCandidatePool(ctx context.Context, excludeUserID int64, activityWindowDays, limit int) ([]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetUser(ctx context.Context, id int64) (*UserRecord, error) {
	var user UserRecord
	query := `
        SELECT id, date_of_birth, location, country_of_origin,
               education_level, university, high_school, profession,
               relationship_goal, bio, interests, ethnicity, secondary_tribe,
               religion, body_type, height, has_children, wants_children,
               latitude, longitude, is_online, last_active,
               completion_percentage, response_rate, created_at, updated_at
        FROM users
        WHERE id = $1
    `

	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresRepository) GetUserPreferences(ctx context.Context, id int64) (*PreferenceRecord, error) {
	var prefs PreferenceRecord
	query := `
        SELECT user_id, matching_priorities, religion_preferences,
               ethnicity_preferences, body_type_preferences,
               education_level_preferences, interest_preferences,
               relationship_goal_preference, location_preferences,
               min_height, max_height, has_children_preference,
               wants_children_preference, created_at, updated_at
        FROM user_preferences
        WHERE user_id = $1
    `

	err := r.db.GetContext(ctx, &prefs, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPreferencesNotFound
	}
	if err != nil {
		return nil, err
	}

	return &prefs, nil
}

func (r *postgresRepository) GetRecentMessageActivity(ctx context.Context, userID int64, since time.Time) ([]ActivityBucket, error) {
	query := `
        SELECT EXTRACT(HOUR FROM created_at)::int AS hour_of_day,
               COUNT(*)::int AS count
        FROM messages
        WHERE sender_id = $1 AND created_at >= $2
        GROUP BY 1
        ORDER BY 1
    `

	buckets := []ActivityBucket{}
	err := r.db.SelectContext(ctx, &buckets, query, userID, since)
	if err != nil {
		return nil, err
	}

	return buckets, nil
}

func (r *postgresRepository) GetRecentSwipeActivity(ctx context.Context, userID int64, since time.Time) ([]ActivityBucket, error) {
	query := `
        SELECT EXTRACT(HOUR FROM created_at)::int AS hour_of_day,
               COUNT(*)::int AS count
        FROM swipes
        WHERE swiper_id = $1 AND created_at >= $2
        GROUP BY 1
        ORDER BY 1
    `

	buckets := []ActivityBucket{}
	err := r.db.SelectContext(ctx, &buckets, query, userID, since)
	if err != nil {
		return nil, err
	}

	return buckets, nil
}

func (r *postgresRepository) GetCandidatePool(ctx context.Context, excludeUserID int64, activityWindowDays, limit int) ([]int64, error) {
	// A candidate is any user who swiped or messaged within the window.
	query := `
        SELECT DISTINCT u.id
        FROM users u
        WHERE u.id != $1
          AND (
              EXISTS (
                  SELECT 1 FROM swipes s
                  WHERE s.swiper_id = u.id
                    AND s.created_at >= NOW() - ($2 || ' days')::interval
              )
              OR EXISTS (
                  SELECT 1 FROM messages m
                  WHERE m.sender_id = u.id
                    AND m.created_at >= NOW() - ($2 || ' days')::interval
              )
          )
        ORDER BY u.id
        LIMIT $3
    `

	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, query, excludeUserID, activityWindowDays, limit)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
