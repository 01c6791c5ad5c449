package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fittrack/fittrack-back/internal/logger"
	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"go.uber.org/zap"
)

type PreferenceStore interface {
	Upsert(ctx context.Context, pref *models.BuddyPreference) (*models.BuddyPreference, error)
	GetByUserID(ctx context.Context, userID int64) (*models.BuddyPreference, error)
	Deactivate(ctx context.Context, userID int64) error
	FindCandidates(ctx context.Context, criteria repository.CandidateCriteria) ([]models.BuddyPreference, error)
}

// MatchCache stores ranked lists per generation. InvalidateMatches starts a
// new generation, dropping every cached list at once.
type MatchCache interface {
	MatchGeneration(ctx context.Context) (int64, error)
	GetMatches(ctx context.Context, generation, userID int64) ([]models.BuddyMatch, bool, error)
	SetMatches(ctx context.Context, generation, userID int64, matches []models.BuddyMatch, ttl time.Duration) error
	InvalidateMatches(ctx context.Context) error
}

type BuddyDirectory interface {
	GetPublicByIDs(ctx context.Context, ids []int64) (map[int64]models.PublicUser, error)
}

type BuddyService struct {
	prefs    PreferenceStore
	users    BuddyDirectory
	cache    MatchCache
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewBuddyService wires the preference store and the user directory used to
// attach profiles to matches. cache may be nil.
func NewBuddyService(prefs PreferenceStore, users BuddyDirectory, cache MatchCache, cacheTTL time.Duration, log *zap.Logger) *BuddyService {
	return &BuddyService{
		prefs:    prefs,
		users:    users,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      logger.OrNop(log).Named("buddy"),
	}
}

func (s *BuddyService) UpsertPreferences(
	ctx context.Context,
	userID int64,
	pref *models.BuddyPreference,
) (*models.BuddyPreference, error) {
	pref.UserID = userID
	applyPreferenceDefaults(pref)

	saved, err := s.prefs.Upsert(ctx, pref)
	if err != nil {
		return nil, fmt.Errorf("upsert buddy preferences: %w", err)
	}

	s.invalidate(ctx)
	return saved, nil
}

func (s *BuddyService) GetPreferences(ctx context.Context, userID int64) (*models.BuddyPreference, error) {
	pref, err := s.prefs.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPreferencesMissing
	}
	return pref, err
}

func (s *BuddyService) Deactivate(ctx context.Context, userID int64) error {
	if err := s.prefs.Deactivate(ctx, userID); err != nil {
		return fmt.Errorf("deactivate buddy matching: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// FindMatches returns up to 20 candidates ranked by compatibility.
func (s *BuddyService) FindMatches(ctx context.Context, userID int64) ([]models.BuddyMatch, error) {
	generation, cacheable := s.matchGeneration(ctx)
	if cacheable {
		cached, ok, err := s.cache.GetMatches(ctx, generation, userID)
		if err != nil {
			s.log.Warn("match cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	requester, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	criteria := repository.NewCandidateCriteria(requester)
	candidates, err := s.prefs.FindCandidates(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCandidateQueryFailed, err)
	}

	eligible := make([]models.BuddyPreference, 0, len(candidates))
	for i := range candidates {
		if len(eligible) == criteria.EffectiveLimit() {
			break
		}
		if criteria.Matches(&candidates[i]) {
			eligible = append(eligible, candidates[i])
		}
	}

	matches := RankCandidates(requester, eligible)
	if err := s.attachUsers(ctx, matches); err != nil {
		return nil, fmt.Errorf("load buddy profiles: %w", err)
	}

	if cacheable {
		if err := s.cache.SetMatches(ctx, generation, userID, matches, s.cacheTTL); err != nil {
			s.log.Warn("match cache write failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	s.log.Debug("buddy matches ranked",
		zap.Int64("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
		zap.Bool("distance_filtered", criteria.Radius != nil),
	)
	return matches, nil
}

func (s *BuddyService) attachUsers(ctx context.Context, matches []models.BuddyMatch) error {
	if s.users == nil || len(matches) == 0 {
		return nil
	}

	ids := make([]int64, len(matches))
	for i := range matches {
		ids[i] = matches[i].UserID
	}
	users, err := s.users.GetPublicByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range matches {
		if user, ok := users[matches[i].UserID]; ok {
			matches[i].User = &user
		}
	}
	return nil
}

// matchGeneration reports false when the cache is absent or unreadable.
// A list is only written back under the generation read before the candidates were loaded.
func (s *BuddyService) matchGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	generation, err := s.cache.MatchGeneration(ctx)
	if err != nil {
		s.log.Warn("match cache generation read failed", zap.Error(err))
		return 0, false
	}
	return generation, true
}

// invalidate drops every cached list. Any preference change can add or
// remove this user from other requesters' results.
func (s *BuddyService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateMatches(ctx); err != nil {
		s.log.Warn("match cache invalidation failed", zap.Error(err))
	}
}

func applyPreferenceDefaults(pref *models.BuddyPreference) {
	if pref.CommunicationPreference == "" {
		pref.CommunicationPreference = models.CommunicationChatOnly
	}
	if pref.MatchPreferences.PreferredGender == "" {
		pref.MatchPreferences.PreferredGender = models.GenderAny
	}
	if pref.MatchPreferences.LocationPreference == "" {
		pref.MatchPreferences.LocationPreference = models.LocationBoth
	}
	if pref.MatchPreferences.MaxDistance <= 0 {
		pref.MatchPreferences.MaxDistance = models.DefaultMaxDistanceKM
	}
	if pref.Location.Type == "" {
		pref.Location.Type = "Point"
	}
	if pref.WorkoutTimePreference.PreferredDays == nil {
		pref.WorkoutTimePreference.PreferredDays = []string{}
	}
	if pref.FitnessGoals == nil {
		pref.FitnessGoals = []string{}
	}
	if pref.WorkoutTypes == nil {
		pref.WorkoutTypes = []string{}
	}
}
