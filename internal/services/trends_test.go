package services

import (
	"testing"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2024, time.March, 6, hour, 15, 0, 0, time.UTC)
}

func entry(workoutType, mood string, hour int) models.MoodEntry {
	return models.MoodEntry{WorkoutType: workoutType, Mood: mood, Timestamp: at(hour)}
}

func TestTimeRangeStart(t *testing.T) {
	// Wednesday 6 March 2024.
	now := time.Date(2024, time.March, 6, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), TimeRangeStart("week", now))
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), TimeRangeStart("month", now))
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), TimeRangeStart("quarter", now))
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), TimeRangeStart("year", now))
	assert.Equal(t, TimeRangeStart("month", now), TimeRangeStart("fortnight", now))
	assert.Equal(t, TimeRangeStart("month", now), TimeRangeStart("", now))

	autumn := time.Date(2024, time.November, 20, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), TimeRangeStart("quarter", autumn))
}

func TestEndOfDay(t *testing.T) {
	now := time.Date(2024, time.March, 6, 18, 30, 0, 0, time.UTC)
	end := EndOfDay(now)

	assert.Equal(t, 6, end.Day())
	assert.Equal(t, time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC), end.Add(time.Nanosecond))
}

func TestAggregateSingleHappyEntry(t *testing.T) {
	trends := AggregateMoodTrends([]models.MoodEntry{entry("Gym", models.MoodHappy, 7)}, time.UTC)

	require.True(t, trends.HasData)
	insight := trends.Insights["Gym"]
	assert.Equal(t, 100.0, insight.MoodImprovement)
	assert.Equal(t, models.TimeOfDayMorning, insight.CommonTime)
	assert.Equal(t, 1, insight.TotalWorkouts)
}

func TestAggregateAveragesMoodValues(t *testing.T) {
	trends := AggregateMoodTrends([]models.MoodEntry{
		entry("Yoga", models.MoodSad, 8),
		entry("Yoga", models.MoodHappy, 13),
	}, time.UTC)

	assert.Equal(t, 62.5, trends.Insights["Yoga"].MoodImprovement)
	assert.Equal(t, 62.5, trends.OverallMoodImprovement)
}

func TestAggregateRoundsToOneDecimal(t *testing.T) {
	trends := AggregateMoodTrends([]models.MoodEntry{
		entry("Run", models.MoodSad, 8),
		entry("Run", models.MoodSad, 9),
		entry("Run", models.MoodNeutral, 10),
	}, time.UTC)

	// avg 4/3 -> 33.333...
	assert.Equal(t, 33.3, trends.Insights["Run"].MoodImprovement)
}

func TestAggregateCommonTimeTieGoesToFirstBucket(t *testing.T) {
	trends := AggregateMoodTrends([]models.MoodEntry{
		entry("Gym", models.MoodHappy, 19),
		entry("Gym", models.MoodHappy, 9),
		entry("Gym", models.MoodHappy, 14),
		entry("Gym", models.MoodHappy, 10),
		entry("Gym", models.MoodHappy, 20),
	}, time.UTC)

	assert.Equal(t, models.TimeOfDayEvening, trends.Insights["Gym"].CommonTime)
}

func TestAggregateBucketBoundaries(t *testing.T) {
	trends := AggregateMoodTrends([]models.MoodEntry{
		entry("A", models.MoodHappy, 11),
		entry("B", models.MoodHappy, 12),
		entry("C", models.MoodHappy, 16),
		entry("D", models.MoodHappy, 17),
	}, time.UTC)

	assert.Equal(t, models.TimeOfDayMorning, trends.Insights["A"].CommonTime)
	assert.Equal(t, models.TimeOfDayAfternoon, trends.Insights["B"].CommonTime)
	assert.Equal(t, models.TimeOfDayAfternoon, trends.Insights["C"].CommonTime)
	assert.Equal(t, models.TimeOfDayEvening, trends.Insights["D"].CommonTime)
}

func TestAggregateBestWorkoutTypesKeepsGroupOrderOnTies(t *testing.T) {
	trends := AggregateMoodTrends([]models.MoodEntry{
		entry("Walk", models.MoodNeutral, 7),
		entry("Swim", models.MoodHappy, 7),
		entry("Row", models.MoodSatisfied, 7),
		entry("Bike", models.MoodHappy, 7),
		entry("Lift", models.MoodSatisfied, 7),
	}, time.UTC)

	require.Len(t, trends.BestWorkoutTypes, 3)
	assert.Equal(t, "Swim", trends.BestWorkoutTypes[0].Type)
	assert.Equal(t, "Bike", trends.BestWorkoutTypes[1].Type)
	assert.Equal(t, "Row", trends.BestWorkoutTypes[2].Type)
}

func TestAggregateEmptyRangeHasNoData(t *testing.T) {
	trends := AggregateMoodTrends(nil, time.UTC)

	assert.False(t, trends.HasData)
	assert.Equal(t, 0.0, trends.OverallMoodImprovement)
	assert.Empty(t, trends.Insights)
	assert.NotNil(t, trends.Trends)
	assert.NotNil(t, trends.BestWorkoutTypes)
}

func pairedRecord(category, pre, post, level string, hour int) models.WorkoutMoodRecord {
	return models.WorkoutMoodRecord{
		WorkoutCategory: category,
		PreWorkout:      &models.MoodSnapshot{Mood: pre, MotivationLevel: level, Timestamp: at(hour)},
		PostWorkout:     &models.MoodSnapshot{Mood: post, Timestamp: at(hour + 1)},
	}
}

func TestWorkoutTrendReport(t *testing.T) {
	report := BuildWorkoutTrendReport([]models.WorkoutMoodRecord{
		pairedRecord("Legs", models.MoodSad, models.MoodNeutral, "low", 7),
		pairedRecord("Legs", models.MoodNeutral, models.MoodNeutral, "high", 18),
		pairedRecord("Cardio", models.MoodNeutral, models.MoodHappy, "low", 13),
		{WorkoutCategory: "Back", PreWorkout: &models.MoodSnapshot{Mood: models.MoodSad, Timestamp: at(7)}},
	}, time.UTC)

	require.True(t, report.HasData)
	assert.InDelta(t, (100.0+0+100)/3, report.OverallMoodImprovement, 1e-9)

	legs := report.WorkoutTypeMoodImpact["Legs"]
	assert.Equal(t, 2, legs.Count)
	assert.InDelta(t, 50, legs.AverageImprovement, 1e-9)
	assert.NotContains(t, report.WorkoutTypeMoodImpact, "Back")

	assert.Equal(t, 1, report.TimeOfDayImpact[models.TimeOfDayMorning].Count)
	assert.Equal(t, 1, report.TimeOfDayImpact[models.TimeOfDayAfternoon].Count)
	assert.Equal(t, 1, report.TimeOfDayImpact[models.TimeOfDayEvening].Count)

	assert.Equal(t, 2, report.MotivationPatterns["low"].Count)
	assert.InDelta(t, 100, report.MotivationPatterns["low"].AverageImprovement, 1e-9)

	require.Len(t, report.BestWorkoutTypes, 2)
	assert.Equal(t, "Cardio", report.BestWorkoutTypes[0].Type)
}

func TestWorkoutTrendReportWithoutRecords(t *testing.T) {
	report := BuildWorkoutTrendReport(nil, time.UTC)

	assert.False(t, report.HasData)
	assert.Equal(t, 0.0, report.OverallMoodImprovement)
	assert.Len(t, report.TimeOfDayImpact, 3)
	assert.Empty(t, report.BestWorkoutTypes)
}

func TestGoalProgress(t *testing.T) {
	now := at(23)
	goal := models.MoodGoal{Target: 50, StartDate: at(0)}
	records := []models.WorkoutMoodRecord{
		pairedRecord("Legs", models.MoodSad, models.MoodNeutral, "low", 7),
		pairedRecord("Legs", models.MoodNeutral, models.MoodNeutral, "low", 9),
	}

	assert.InDelta(t, 100, goalProgress(goal, records, now), 1e-9)

	goal.StartDate = at(9)
	assert.InDelta(t, 0, goalProgress(goal, records, now), 1e-9)
	assert.InDelta(t, 0, goalProgress(goal, nil, now), 1e-9)
}
