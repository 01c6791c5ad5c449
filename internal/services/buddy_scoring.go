package services

import (
	"math"
	"sort"

	"github.com/fittrack/fittrack-back/internal/models"
)

const (
	goalWeight          = 30
	workoutTypeWeight   = 30
	experienceWeight    = 20
	communicationWeight = 20
)

var experienceOrdinal = map[string]int{
	models.ExperienceBeginner:     0,
	models.ExperienceIntermediate: 1,
	models.ExperienceAdvanced:     2,
}

// ScoreCompatibility rates how well candidate fits requester on a 0-100 scale.
func ScoreCompatibility(requester, candidate *models.BuddyPreference) int {
	score := overlapPoints(requester.FitnessGoals, candidate.FitnessGoals, goalWeight) +
		overlapPoints(requester.WorkoutTypes, candidate.WorkoutTypes, workoutTypeWeight) +
		experiencePoints(requester.ExperienceLevel, candidate.ExperienceLevel) +
		communicationPoints(requester.CommunicationPreference, candidate.CommunicationPreference)

	return int(math.Round(score))
}

// overlapPoints is |candidate ∩ requester| / |requester| of weight. An empty
// requester set scores 0.
func overlapPoints(requester, candidate []string, weight float64) float64 {
	wanted := make(map[string]struct{}, len(requester))
	for _, v := range requester {
		wanted[v] = struct{}{}
	}
	if len(wanted) == 0 {
		return 0
	}

	common := 0
	seen := make(map[string]struct{}, len(candidate))
	for _, v := range candidate {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := wanted[v]; ok {
			common++
		}
	}

	return float64(common) / float64(len(wanted)) * weight
}

func experiencePoints(requester, candidate string) float64 {
	r, okR := experienceOrdinal[requester]
	c, okC := experienceOrdinal[candidate]
	if !okR || !okC {
		return 0
	}
	diff := math.Abs(float64(r - c))
	return (1 - diff/2) * experienceWeight
}

func communicationPoints(requester, candidate string) float64 {
	if requester == candidate || requester == models.CommunicationAll || candidate == models.CommunicationAll {
		return communicationWeight
	}
	return 0
}

// RankCandidates scores every candidate and orders them best first. Equal
// scores keep the candidate order.
func RankCandidates(requester *models.BuddyPreference, candidates []models.BuddyPreference) []models.BuddyMatch {
	matches := make([]models.BuddyMatch, 0, len(candidates))
	for i := range candidates {
		matches = append(matches, models.BuddyMatch{
			BuddyPreference:    candidates[i],
			CompatibilityScore: ScoreCompatibility(requester, &candidates[i]),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CompatibilityScore > matches[j].CompatibilityScore
	})

	return matches
}
