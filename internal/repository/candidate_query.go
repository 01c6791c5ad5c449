package repository

import (
	"fmt"
	"strings"

	"github.com/fittrack/fittrack-back/internal/models"
)

const (
	MaxCandidates = 20
	earthRadiusM  = 6371000.0
)

// RadiusPredicate keeps candidates within MaxDistanceM meters of Center.
type RadiusPredicate struct {
	Center       models.GeoPoint
	MaxDistanceM float64
}

// WindowPredicate keeps candidates whose "HH:MM" window touches [Start, End].
type WindowPredicate struct {
	Start string
	End   string
}

// CandidateCriteria is the AND of every predicate used to find buddy
// candidates. Each builder step returns a copy so steps can be composed and
// tested on their own.
type CandidateCriteria struct {
	ExcludeUserID int64
	ActiveOnly    bool
	Radius        *RadiusPredicate
	Window        *WindowPredicate
	Limit         int
}

// NewCandidateCriteria composes the criteria for a requester's preference.
func NewCandidateCriteria(requester *models.BuddyPreference) CandidateCriteria {
	return CandidateCriteria{}.
		ExcludingUser(requester.UserID).
		OnlyActive().
		WithinRadius(requester).
		OverlappingWindow(requester.WorkoutTimePreference).
		Limited(MaxCandidates)
}

func (c CandidateCriteria) ExcludingUser(userID int64) CandidateCriteria {
	c.ExcludeUserID = userID
	return c
}

func (c CandidateCriteria) OnlyActive() CandidateCriteria {
	c.ActiveOnly = true
	return c
}

// WithinRadius adds the distance filter unless the requester only wants
// remote buddies. Distance is configured in km.
func (c CandidateCriteria) WithinRadius(requester *models.BuddyPreference) CandidateCriteria {
	if requester.MatchPreferences.LocationPreference == models.LocationRemote {
		c.Radius = nil
		return c
	}
	c.Radius = &RadiusPredicate{
		Center:       requester.Location,
		MaxDistanceM: requester.MatchPreferences.MaxDistance * 1000,
	}
	return c
}

func (c CandidateCriteria) OverlappingWindow(window models.WorkoutTimePreference) CandidateCriteria {
	c.Window = &WindowPredicate{Start: window.StartTime, End: window.EndTime}
	return c
}

func (c CandidateCriteria) Limited(limit int) CandidateCriteria {
	if limit <= 0 || limit > MaxCandidates {
		limit = MaxCandidates
	}
	c.Limit = limit
	return c
}

func (c CandidateCriteria) EffectiveLimit() int {
	if c.Limit <= 0 || c.Limit > MaxCandidates {
		return MaxCandidates
	}
	return c.Limit
}

// Matches evaluates the non-spatial predicates in memory. Stores use it as a
// second check over rows returned by their native query.
func (c CandidateCriteria) Matches(candidate *models.BuddyPreference) bool {
	if candidate.UserID == c.ExcludeUserID {
		return false
	}
	if c.ActiveOnly && !candidate.IsActive {
		return false
	}
	if c.Window != nil {
		w := candidate.WorkoutTimePreference
		if w.StartTime > c.Window.End || w.EndTime < c.Window.Start {
			return false
		}
	}
	return true
}

type sqlCandidateQuery struct {
	where   []string
	orderBy string
	args    []any
}

func (q *sqlCandidateQuery) bind(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

// haversineSQL renders the great-circle distance in meters between the
// longitude/latitude columns and the given point.
func haversineSQL(lng, lat string) string {
	return fmt.Sprintf(
		"(%.1f * 2 * ASIN(LEAST(1.0, SQRT(POWER(SIN(RADIANS(latitude - %s) / 2), 2) + "+
			"COS(RADIANS(%s)) * COS(RADIANS(latitude)) * POWER(SIN(RADIANS(longitude - %s) / 2), 2)))))",
		earthRadiusM, lat, lat, lng,
	)
}

func (c CandidateCriteria) toSQL() sqlCandidateQuery {
	var q sqlCandidateQuery

	q.where = append(q.where, "user_id <> "+q.bind(c.ExcludeUserID))
	if c.ActiveOnly {
		q.where = append(q.where, "is_active = TRUE")
	}

	q.orderBy = "user_id ASC"
	if c.Radius != nil {
		lng := q.bind(c.Radius.Center.Longitude()) + "::float8"
		lat := q.bind(c.Radius.Center.Latitude()) + "::float8"
		distance := haversineSQL(lng, lat)
		q.where = append(q.where, distance+" <= "+q.bind(c.Radius.MaxDistanceM)+"::float8")
		q.orderBy = distance + " ASC, user_id ASC"
	}

	if c.Window != nil {
		q.where = append(q.where,
			`start_time COLLATE "C" <= `+q.bind(c.Window.End),
			`end_time COLLATE "C" >= `+q.bind(c.Window.Start),
		)
	}

	return q
}

func (q sqlCandidateQuery) whereClause() string {
	return strings.Join(q.where, " AND ")
}
