package repository

import (
	"context"
	"fmt"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/jackc/pgx/v5"
)

type BuddyPreferenceRepository struct {
	db DBTX
}

func NewBuddyPreferenceRepository(db DBTX) *BuddyPreferenceRepository {
	return &BuddyPreferenceRepository{db: db}
}

const preferenceColumns = `
	user_id, start_time, end_time, timezone, preferred_days,
	fitness_goals, workout_types, communication_preference, experience_level, bio,
	age_min, age_max, preferred_gender, location_preference, max_distance,
	longitude, latitude, is_active, created_at, updated_at`

// Upsert writes the whole preference in one statement and reactivates it.
func (r *BuddyPreferenceRepository) Upsert(
	ctx context.Context,
	pref *models.BuddyPreference,
) (*models.BuddyPreference, error) {
	var ageMin, ageMax *int
	if pref.MatchPreferences.AgeRange != nil {
		ageMin = pref.MatchPreferences.AgeRange.Min
		ageMax = pref.MatchPreferences.AgeRange.Max
	}

	query := `
		INSERT INTO buddy_preferences (
			user_id, start_time, end_time, timezone, preferred_days,
			fitness_goals, workout_types, communication_preference, experience_level, bio,
			age_min, age_max, preferred_gender, location_preference, max_distance,
			longitude, latitude, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, TRUE)
		ON CONFLICT (user_id) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			timezone = EXCLUDED.timezone,
			preferred_days = EXCLUDED.preferred_days,
			fitness_goals = EXCLUDED.fitness_goals,
			workout_types = EXCLUDED.workout_types,
			communication_preference = EXCLUDED.communication_preference,
			experience_level = EXCLUDED.experience_level,
			bio = EXCLUDED.bio,
			age_min = EXCLUDED.age_min,
			age_max = EXCLUDED.age_max,
			preferred_gender = EXCLUDED.preferred_gender,
			location_preference = EXCLUDED.location_preference,
			max_distance = EXCLUDED.max_distance,
			longitude = EXCLUDED.longitude,
			latitude = EXCLUDED.latitude,
			is_active = TRUE,
			updated_at = NOW()
		RETURNING ` + preferenceColumns

	return scanPreference(r.db.QueryRow(
		ctx,
		query,
		pref.UserID,
		pref.WorkoutTimePreference.StartTime,
		pref.WorkoutTimePreference.EndTime,
		pref.WorkoutTimePreference.Timezone,
		nonNilStrings(pref.WorkoutTimePreference.PreferredDays),
		nonNilStrings(pref.FitnessGoals),
		nonNilStrings(pref.WorkoutTypes),
		pref.CommunicationPreference,
		pref.ExperienceLevel,
		pref.Bio,
		ageMin,
		ageMax,
		pref.MatchPreferences.PreferredGender,
		pref.MatchPreferences.LocationPreference,
		pref.MatchPreferences.MaxDistance,
		pref.Location.Longitude(),
		pref.Location.Latitude(),
	))
}

func (r *BuddyPreferenceRepository) GetByUserID(ctx context.Context, userID int64) (*models.BuddyPreference, error) {
	return scanPreference(r.db.QueryRow(ctx,
		`SELECT `+preferenceColumns+` FROM buddy_preferences WHERE user_id = $1`, userID))
}

func (r *BuddyPreferenceRepository) Deactivate(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE buddy_preferences
		SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	return err
}

func (r *BuddyPreferenceRepository) FindCandidates(
	ctx context.Context,
	criteria CandidateCriteria,
) ([]models.BuddyPreference, error) {
	q := criteria.toSQL()
	limit := q.bind(criteria.EffectiveLimit())

	query := fmt.Sprintf(`
		SELECT %s
		FROM buddy_preferences
		WHERE %s
		ORDER BY %s
		LIMIT %s
	`, preferenceColumns, q.whereClause(), q.orderBy, limit)

	rows, err := r.db.Query(ctx, query, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]models.BuddyPreference, 0)
	for rows.Next() {
		pref, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *pref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}

func scanPreference(row pgx.Row) (*models.BuddyPreference, error) {
	var (
		pref           models.BuddyPreference
		ageMin, ageMax *int
		lng, lat       float64
	)
	err := row.Scan(
		&pref.UserID,
		&pref.WorkoutTimePreference.StartTime,
		&pref.WorkoutTimePreference.EndTime,
		&pref.WorkoutTimePreference.Timezone,
		&pref.WorkoutTimePreference.PreferredDays,
		&pref.FitnessGoals,
		&pref.WorkoutTypes,
		&pref.CommunicationPreference,
		&pref.ExperienceLevel,
		&pref.Bio,
		&ageMin,
		&ageMax,
		&pref.MatchPreferences.PreferredGender,
		&pref.MatchPreferences.LocationPreference,
		&pref.MatchPreferences.MaxDistance,
		&lng,
		&lat,
		&pref.IsActive,
		&pref.CreatedAt,
		&pref.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	if ageMin != nil || ageMax != nil {
		pref.MatchPreferences.AgeRange = &models.AgeRange{Min: ageMin, Max: ageMax}
	}
	pref.Location = models.NewGeoPoint(lng, lat)

	return &pref, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
