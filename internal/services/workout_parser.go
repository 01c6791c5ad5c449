package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fittrack/fittrack-back/internal/models"
)

const caloriesPerMinutePerKg = 5

var ErrInvalidWorkoutString = errors.New("invalid workout string")

var (
	setsRepsPattern = regexp.MustCompile(`(?i)^(\d+)\s*sets?\s*[^\d\s]?\s*(\d+)\s*reps?$`)
	weightPattern   = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*kgs?$`)
	durationPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*min(?:s|utes?)?$`)
)

// WorkoutFormatError reports the 1-based block that failed to parse.
type WorkoutFormatError struct {
	Block  int
	Reason string
}

func (e *WorkoutFormatError) Error() string {
	if e.Block == 0 {
		return e.Reason
	}
	return fmt.Sprintf("workout %d: %s", e.Block, e.Reason)
}

func (e *WorkoutFormatError) Is(target error) bool {
	return target == ErrInvalidWorkoutString
}

// ParseWorkoutString reads ';'-separated blocks of the form
//
//	#Category
//	-Workout name
//	-5 setsX15 reps
//	-30 kg
//	-10 min
//
// Empty blocks, such as the one after a trailing ';', are skipped.
func ParseWorkoutString(input string) ([]models.Workout, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &WorkoutFormatError{Reason: "workout string is missing"}
	}

	blocks := strings.Split(input, ";")
	workouts := make([]models.Workout, 0, len(blocks))
	for i, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		workout, err := parseWorkoutBlock(block)
		if err != nil {
			return nil, &WorkoutFormatError{Block: i + 1, Reason: err.Error()}
		}
		workouts = append(workouts, workout)
	}

	if len(workouts) == 0 {
		return nil, &WorkoutFormatError{Reason: "no categories found in workout string"}
	}
	return workouts, nil
}

func parseWorkoutBlock(block string) (models.Workout, error) {
	var w models.Workout

	if !strings.HasPrefix(block, "#") {
		return w, errors.New("block must start with #category")
	}

	lines := make([]string, 0, 5)
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 5 {
		return w, errors.New("expected category, name, sets/reps, weight and duration lines")
	}

	w.Category = strings.TrimSpace(strings.TrimPrefix(lines[0], "#"))
	w.WorkoutName = detail(lines[1])
	if w.Category == "" || w.WorkoutName == "" {
		return w, errors.New("category and workout name are required")
	}

	match := setsRepsPattern.FindStringSubmatch(detail(lines[2]))
	if match == nil {
		return w, fmt.Errorf("cannot read sets and reps from %q", lines[2])
	}
	var err error
	if w.Sets, err = count(match[1]); err != nil {
		return w, fmt.Errorf("sets %s is out of range", match[1])
	}
	if w.Reps, err = count(match[2]); err != nil {
		return w, fmt.Errorf("reps %s is out of range", match[2])
	}

	if w.Weight, err = number(weightPattern, lines[3]); err != nil {
		return w, fmt.Errorf("cannot read weight from %q", lines[3])
	}
	if w.Duration, err = number(durationPattern, lines[4]); err != nil {
		return w, fmt.Errorf("cannot read duration from %q", lines[4])
	}

	w.CaloriesBurned = CaloriesBurned(w.Duration, w.Weight)
	return w, nil
}

func detail(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, "-"))
}

// count parses a sets or reps value. Values must fit the INTEGER column.
func count(digits string) (int, error) {
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func number(pattern *regexp.Regexp, line string) (float64, error) {
	match := pattern.FindStringSubmatch(detail(line))
	if match == nil {
		return 0, ErrInvalidWorkoutString
	}
	return strconv.ParseFloat(match[1], 64)
}

func CaloriesBurned(durationMinutes, weightKg float64) float64 {
	return durationMinutes * caloriesPerMinutePerKg * weightKg
}
