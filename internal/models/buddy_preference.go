package models

import "time"

const (
	LocationLocal  = "Local"
	LocationRemote = "Remote"
	LocationBoth   = "Both"

	CommunicationChatOnly = "Chat Only"
	CommunicationVideo    = "Video Calls"
	CommunicationInPerson = "In-Person Meetups"
	CommunicationAll      = "All"

	ExperienceBeginner     = "Beginner"
	ExperienceIntermediate = "Intermediate"
	ExperienceAdvanced     = "Advanced"

	GenderAny = "Any"

	DefaultMaxDistanceKM = 50
)

var (
	FitnessGoalOptions = []string{
		"Weight Loss", "Muscle Gain", "Flexibility", "Endurance", "General Fitness", "Strength",
	}
	WorkoutTypeOptions = []string{
		"Home Workout", "Gym", "Yoga", "Running", "Swimming", "Cycling", "Crossfit", "Other",
	}
	CommunicationOptions = []string{
		CommunicationChatOnly, CommunicationVideo, CommunicationInPerson, CommunicationAll,
	}
	ExperienceLevels = []string{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced}
	WeekdayOptions   = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
	GenderOptions             = []string{GenderAny, "Male", "Female", "Other"}
	LocationPreferenceOptions = []string{LocationLocal, LocationRemote, LocationBoth}
)

type WorkoutTimePreference struct {
	StartTime     string   `json:"startTime" bson:"start_time"`
	EndTime       string   `json:"endTime" bson:"end_time"`
	Timezone      string   `json:"timezone" bson:"timezone"`
	PreferredDays []string `json:"preferredDays" bson:"preferred_days"`
}

type AgeRange struct {
	Min *int `json:"min,omitempty" bson:"min,omitempty"`
	Max *int `json:"max,omitempty" bson:"max,omitempty"`
}

type MatchPreferences struct {
	AgeRange           *AgeRange `json:"ageRange,omitempty" bson:"age_range,omitempty"`
	PreferredGender    string    `json:"preferredGender" bson:"preferred_gender"`
	LocationPreference string    `json:"locationPreference" bson:"location_preference"`
	MaxDistance        float64   `json:"maxDistance" bson:"max_distance"`
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 1 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

type BuddyPreference struct {
	UserID                  int64                 `json:"userId" bson:"user_id"`
	WorkoutTimePreference   WorkoutTimePreference `json:"workoutTimePreference" bson:"workout_time_preference"`
	FitnessGoals            []string              `json:"fitnessGoals" bson:"fitness_goals"`
	WorkoutTypes            []string              `json:"workoutTypes" bson:"workout_types"`
	CommunicationPreference string                `json:"communicationPreference" bson:"communication_preference"`
	ExperienceLevel         string                `json:"experienceLevel" bson:"experience_level"`
	Bio                     string                `json:"bio" bson:"bio"`
	MatchPreferences        MatchPreferences      `json:"matchPreferences" bson:"match_preferences"`
	Location                GeoPoint              `json:"location" bson:"location"`
	IsActive                bool                  `json:"isActive" bson:"is_active"`
	CreatedAt               time.Time             `json:"createdAt" bson:"created_at"`
	UpdatedAt               time.Time             `json:"updatedAt" bson:"updated_at"`
}

type BuddyMatch struct {
	BuddyPreference
	User               *PublicUser `json:"user,omitempty"`
	CompatibilityScore int         `json:"compatibilityScore"`
}
