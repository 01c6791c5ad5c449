package models

import "time"

const (
	MoodHappy     = "happy"
	MoodSatisfied = "satisfied"
	MoodNeutral   = "neutral"
	MoodSad       = "sad"

	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
)

var (
	MoodOptions      = []string{MoodHappy, MoodSatisfied, MoodNeutral, MoodSad}
	LevelOptions     = []string{"low", "medium", "high"}
	MoodGoalTypes    = []string{"feel_energized", "reduce_stress", "improve_mood", "better_sleep"}
	TimeOfDayBuckets = []string{TimeOfDayMorning, TimeOfDayAfternoon, TimeOfDayEvening}
	moodValues       = map[string]int{MoodSad: 1, MoodNeutral: 2, MoodSatisfied: 3, MoodHappy: 4}
)

// MoodValue maps a mood label onto 1..4. Unknown labels map to 0.
func MoodValue(mood string) int {
	return moodValues[mood]
}

func TimeOfDay(ts time.Time) string {
	switch hour := ts.Hour(); {
	case hour < 12:
		return TimeOfDayMorning
	case hour < 17:
		return TimeOfDayAfternoon
	default:
		return TimeOfDayEvening
	}
}

type MoodEntry struct {
	ID              string    `json:"id" bson:"_id"`
	UserID          int64     `json:"userId" bson:"user_id"`
	Mood            string    `json:"mood" bson:"mood"`
	MotivationLevel string    `json:"motivationLevel" bson:"motivation_level"`
	WorkoutType     string    `json:"workoutType" bson:"workout_type"`
	JournalEntry    *string   `json:"journalEntry,omitempty" bson:"journal_entry,omitempty"`
	Timestamp       time.Time `json:"timestamp" bson:"timestamp"`
	IsPreWorkout    bool      `json:"isPreWorkout" bson:"is_pre_workout"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
}

type MoodSnapshot struct {
	Mood            string    `json:"mood"`
	MotivationLevel string    `json:"motivationLevel,omitempty"`
	EnergyLevel     string    `json:"energyLevel,omitempty"`
	Journal         *string   `json:"journal,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

type WorkoutMoodRecord struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"userId"`
	WorkoutID       int64         `json:"workoutId"`
	WorkoutCategory string        `json:"workoutCategory,omitempty"`
	PreWorkout      *MoodSnapshot `json:"preWorkout,omitempty"`
	PostWorkout     *MoodSnapshot `json:"postWorkout,omitempty"`
	MoodImprovement float64       `json:"moodImprovement"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Improvement is the percentage change from the pre to the post mood.
// It is 0 until both sides are recorded.
func (r *WorkoutMoodRecord) Improvement() float64 {
	if r.PreWorkout == nil || r.PostWorkout == nil {
		return 0
	}
	pre := MoodValue(r.PreWorkout.Mood)
	post := MoodValue(r.PostWorkout.Mood)
	if pre == 0 || post == 0 {
		return 0
	}
	return float64(post-pre) / float64(pre) * 100
}

type MoodGoal struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Type      string    `json:"type"`
	Target    float64   `json:"target"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Achieved  bool      `json:"achieved"`
	CreatedAt time.Time `json:"createdAt"`
}

func (g *MoodGoal) IsActive(now time.Time) bool {
	return !g.Achieved && !g.EndDate.Before(now)
}

type MoodGoalProgress struct {
	MoodGoal
	CurrentProgress float64 `json:"currentProgress"`
}

type TrendInsight struct {
	MoodImprovement float64 `json:"moodImprovement"`
	CommonTime      string  `json:"commonTime"`
	TotalWorkouts   int     `json:"totalWorkouts"`
}

type WorkoutTypeScore struct {
	Type               string  `json:"type"`
	AverageImprovement float64 `json:"averageImprovement"`
}

type MoodTrends struct {
	Trends                 []MoodEntry             `json:"trends"`
	Insights               map[string]TrendInsight `json:"insights"`
	BestWorkoutTypes       []WorkoutTypeScore      `json:"bestWorkoutTypes"`
	OverallMoodImprovement float64                 `json:"overallMoodImprovement"`
	HasData                bool                    `json:"hasData"`
}

type ImprovementStat struct {
	Count              int     `json:"count"`
	TotalImprovement   float64 `json:"totalImprovement"`
	AverageImprovement float64 `json:"averageImprovement"`
}

type WorkoutTrendReport struct {
	OverallMoodImprovement float64                    `json:"overallMoodImprovement"`
	WorkoutTypeMoodImpact  map[string]ImprovementStat `json:"workoutTypeMoodImpact"`
	TimeOfDayImpact        map[string]ImprovementStat `json:"timeOfDayImpact"`
	MotivationPatterns     map[string]ImprovementStat `json:"motivationPatterns"`
	BestWorkoutTypes       []WorkoutTypeScore         `json:"bestWorkoutTypes"`
	HasData                bool                       `json:"hasData"`
}
