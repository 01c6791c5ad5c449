package services

import (
	"math"
	"sort"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
)

const bestWorkoutTypesLimit = 3

// TimeRangeStart returns the first instant of the current calendar week
// (Sunday), month, quarter or year. Anything else is treated as month.
func TimeRangeStart(timeRange string, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()

	switch timeRange {
	case "week":
		return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
	case "quarter":
		first := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, loc)
	case "year":
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// EndOfDay returns the last nanosecond of now's calendar day.
func EndOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)
}

// RollingWindowStart backs the paired-record report. Unknown values mean
// the last 30 days.
func RollingWindowStart(timeframe string, now time.Time) time.Time {
	switch timeframe {
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -30)
	}
}

type trendGroup struct {
	workoutType string
	count       int
	moodSum     int
	buckets     map[string]int
	bucketOrder []string
}

func (g *trendGroup) commonTime() string {
	best := ""
	for _, bucket := range g.bucketOrder {
		if best == "" || g.buckets[bucket] > g.buckets[best] {
			best = bucket
		}
	}
	return best
}

func moodPercent(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return roundTo(float64(sum)/float64(count)/4*100, 1)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// AggregateMoodTrends groups entries by workout type. Entries must already be
// sorted by ascending timestamp; group and bucket order follow first appearance.
// Hours are read in loc.
func AggregateMoodTrends(entries []models.MoodEntry, loc *time.Location) models.MoodTrends {
	result := models.MoodTrends{
		Trends:           entries,
		Insights:         map[string]models.TrendInsight{},
		BestWorkoutTypes: []models.WorkoutTypeScore{},
	}
	if result.Trends == nil {
		result.Trends = []models.MoodEntry{}
	}
	if len(entries) == 0 {
		return result
	}
	if loc == nil {
		loc = time.Local
	}

	groups := map[string]*trendGroup{}
	order := make([]*trendGroup, 0)
	totalMood := 0

	for _, entry := range entries {
		g, ok := groups[entry.WorkoutType]
		if !ok {
			g = &trendGroup{workoutType: entry.WorkoutType, buckets: map[string]int{}}
			groups[entry.WorkoutType] = g
			order = append(order, g)
		}

		value := models.MoodValue(entry.Mood)
		g.count++
		g.moodSum += value
		totalMood += value

		bucket := models.TimeOfDay(entry.Timestamp.In(loc))
		if _, seen := g.buckets[bucket]; !seen {
			g.bucketOrder = append(g.bucketOrder, bucket)
		}
		g.buckets[bucket]++
	}

	scores := make([]models.WorkoutTypeScore, 0, len(order))
	for _, g := range order {
		improvement := moodPercent(g.moodSum, g.count)
		result.Insights[g.workoutType] = models.TrendInsight{
			MoodImprovement: improvement,
			CommonTime:      g.commonTime(),
			TotalWorkouts:   g.count,
		}
		scores = append(scores, models.WorkoutTypeScore{Type: g.workoutType, AverageImprovement: improvement})
	}

	result.BestWorkoutTypes = topWorkoutTypes(scores)
	result.OverallMoodImprovement = moodPercent(totalMood, len(entries))
	result.HasData = true
	return result
}

func topWorkoutTypes(scores []models.WorkoutTypeScore) []models.WorkoutTypeScore {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].AverageImprovement > scores[j].AverageImprovement
	})
	if len(scores) > bestWorkoutTypesLimit {
		scores = scores[:bestWorkoutTypesLimit]
	}
	return scores
}

type statAccumulator struct {
	stats map[string]models.ImprovementStat
	order []string
}

func newStatAccumulator() *statAccumulator {
	return &statAccumulator{stats: map[string]models.ImprovementStat{}}
}

func (a *statAccumulator) add(key string, improvement float64) {
	stat, ok := a.stats[key]
	if !ok {
		a.order = append(a.order, key)
	}
	stat.Count++
	stat.TotalImprovement += improvement
	stat.AverageImprovement = stat.TotalImprovement / float64(stat.Count)
	a.stats[key] = stat
}

// BuildWorkoutTrendReport summarises completed pre/post records.
func BuildWorkoutTrendReport(records []models.WorkoutMoodRecord, loc *time.Location) models.WorkoutTrendReport {
	if loc == nil {
		loc = time.Local
	}

	byCategory := newStatAccumulator()
	byMotivation := newStatAccumulator()
	byTime := newStatAccumulator()
	for _, bucket := range models.TimeOfDayBuckets {
		byTime.stats[bucket] = models.ImprovementStat{}
	}

	report := models.WorkoutTrendReport{
		BestWorkoutTypes: []models.WorkoutTypeScore{},
	}

	total := 0.0
	completed := 0
	for i := range records {
		r := &records[i]
		if r.PreWorkout == nil || r.PostWorkout == nil {
			continue
		}
		improvement := r.Improvement()
		total += improvement
		completed++

		category := r.WorkoutCategory
		if category == "" {
			category = "Uncategorized"
		}
		byCategory.add(category, improvement)
		byTime.add(models.TimeOfDay(r.PreWorkout.Timestamp.In(loc)), improvement)
		if r.PreWorkout.MotivationLevel != "" {
			byMotivation.add(r.PreWorkout.MotivationLevel, improvement)
		}
	}

	report.WorkoutTypeMoodImpact = byCategory.stats
	report.TimeOfDayImpact = byTime.stats
	report.MotivationPatterns = byMotivation.stats
	if completed == 0 {
		return report
	}

	report.HasData = true
	report.OverallMoodImprovement = total / float64(completed)

	scores := make([]models.WorkoutTypeScore, 0, len(byCategory.order))
	for _, category := range byCategory.order {
		scores = append(scores, models.WorkoutTypeScore{
			Type:               category,
			AverageImprovement: byCategory.stats[category].AverageImprovement,
		})
	}
	report.BestWorkoutTypes = topWorkoutTypes(scores)
	return report
}

// goalProgress averages the improvement of records completed since the goal
// started and expresses it as a percentage of the target.
func goalProgress(goal models.MoodGoal, records []models.WorkoutMoodRecord, now time.Time) float64 {
	total := 0.0
	count := 0
	for i := range records {
		r := &records[i]
		if r.PostWorkout == nil || r.PreWorkout == nil {
			continue
		}
		at := r.PostWorkout.Timestamp
		if at.Before(goal.StartDate) || at.After(now) {
			continue
		}
		total += r.Improvement()
		count++
	}
	if count == 0 || goal.Target == 0 {
		return 0
	}
	return total / float64(count) / goal.Target * 100
}
