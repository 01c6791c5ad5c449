package models

import "time"

type Workout struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	Category       string    `json:"category"`
	WorkoutName    string    `json:"workoutName"`
	Sets           int       `json:"sets"`
	Reps           int       `json:"reps"`
	Weight         float64   `json:"weight"`
	Duration       float64   `json:"duration"`
	CaloriesBurned float64   `json:"caloriesBurned"`
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"createdAt"`
}

type PieSlice struct {
	ID    int     `json:"id"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

type WeeklyCalories struct {
	Weeks          []string  `json:"weeks"`
	CaloriesBurned []float64 `json:"caloriesBurned"`
}

type Dashboard struct {
	TotalCaloriesBurnt         float64        `json:"totalCaloriesBurnt"`
	TotalWorkouts              int            `json:"totalWorkouts"`
	AvgCaloriesBurntPerWorkout float64        `json:"avgCaloriesBurntPerWorkout"`
	TotalWeeksCaloriesBurnt    WeeklyCalories `json:"totalWeeksCaloriesBurnt"`
	PieChartData               []PieSlice     `json:"pieChartData"`
}

type DailyWorkouts struct {
	TodaysWorkouts     []Workout `json:"todaysWorkouts"`
	TotalCaloriesBurnt float64   `json:"totalCaloriesBurnt"`
}
