package handlers

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/tidwall/gjson"
)

const (
	maxBioLength = 500
	minBuddyAge  = 18
	maxBuddyAge  = 100
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// validateBuddyPreference checks the decoded preference. body is the raw
// request, used to tell an omitted field from an explicit zero.
func validateBuddyPreference(pref *models.BuddyPreference, body []byte) string {
	window := pref.WorkoutTimePreference
	if strings.TrimSpace(window.Timezone) == "" {
		return "workoutTimePreference timezone is required"
	}
	if !clockPattern.MatchString(window.StartTime) || !clockPattern.MatchString(window.EndTime) {
		return "workoutTimePreference startTime and endTime must be HH:MM"
	}
	if window.StartTime >= window.EndTime {
		return "workoutTimePreference startTime must be before endTime"
	}
	if msg := validateChoices("preferredDays", window.PreferredDays, models.WeekdayOptions); msg != "" {
		return msg
	}
	if msg := validateChoices("fitnessGoals", pref.FitnessGoals, models.FitnessGoalOptions); msg != "" {
		return msg
	}
	if msg := validateChoices("workoutTypes", pref.WorkoutTypes, models.WorkoutTypeOptions); msg != "" {
		return msg
	}
	if pref.CommunicationPreference != "" && !slices.Contains(models.CommunicationOptions, pref.CommunicationPreference) {
		return "communicationPreference is not supported"
	}
	if !slices.Contains(models.ExperienceLevels, pref.ExperienceLevel) {
		return "experienceLevel must be Beginner, Intermediate or Advanced"
	}
	if len([]rune(pref.Bio)) > maxBioLength {
		return fmt.Sprintf("bio must be at most %d characters", maxBioLength)
	}

	match := pref.MatchPreferences
	if match.PreferredGender != "" && !slices.Contains(models.GenderOptions, match.PreferredGender) {
		return "matchPreferences preferredGender is not supported"
	}
	if match.LocationPreference != "" && !slices.Contains(models.LocationPreferenceOptions, match.LocationPreference) {
		return "matchPreferences locationPreference must be Local, Remote or Both"
	}
	if distance := gjson.GetBytes(body, "matchPreferences.maxDistance"); distance.Exists() && match.MaxDistance <= 0 {
		return "matchPreferences maxDistance must be greater than 0"
	}
	if age := match.AgeRange; age != nil {
		if !validAge(age.Min) || !validAge(age.Max) {
			return fmt.Sprintf("matchPreferences ageRange must be between %d and %d", minBuddyAge, maxBuddyAge)
		}
		if age.Min != nil && age.Max != nil && *age.Min > *age.Max {
			return "matchPreferences ageRange min must not exceed max"
		}
	}

	if len(pref.Location.Coordinates) != 2 {
		return "location coordinates must be [longitude, latitude]"
	}
	if lng, lat := pref.Location.Longitude(), pref.Location.Latitude(); lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return "location coordinates are out of range"
	}
	return ""
}

func validAge(age *int) bool {
	return age == nil || (*age >= minBuddyAge && *age <= maxBuddyAge)
}

func validateChoices(field string, values []string, allowed []string) string {
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			return field + " must not contain empty values"
		}
		if !slices.Contains(allowed, value) {
			return fmt.Sprintf("%s contains unsupported value %q", field, value)
		}
	}
	return ""
}
