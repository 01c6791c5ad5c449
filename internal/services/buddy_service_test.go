package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fittrack/fittrack-back/internal/cache"
	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPreferenceStore struct {
	prefs          map[int64]*models.BuddyPreference
	candidates     []models.BuddyPreference
	findErr        error
	findCalls      int
	lastCriteria   repository.CandidateCriteria
	deactivated    []int64
	upsertedUserID int64
}

func newStubPreferenceStore() *stubPreferenceStore {
	return &stubPreferenceStore{prefs: map[int64]*models.BuddyPreference{}}
}

func (s *stubPreferenceStore) Upsert(_ context.Context, pref *models.BuddyPreference) (*models.BuddyPreference, error) {
	s.upsertedUserID = pref.UserID
	copied := *pref
	copied.IsActive = true
	s.prefs[pref.UserID] = &copied
	return &copied, nil
}

func (s *stubPreferenceStore) GetByUserID(_ context.Context, userID int64) (*models.BuddyPreference, error) {
	pref, ok := s.prefs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return pref, nil
}

func (s *stubPreferenceStore) Deactivate(_ context.Context, userID int64) error {
	s.deactivated = append(s.deactivated, userID)
	if pref, ok := s.prefs[userID]; ok {
		pref.IsActive = false
	}
	for i := range s.candidates {
		if s.candidates[i].UserID == userID {
			s.candidates[i].IsActive = false
		}
	}
	return nil
}

func (s *stubPreferenceStore) FindCandidates(_ context.Context, criteria repository.CandidateCriteria) ([]models.BuddyPreference, error) {
	s.findCalls++
	s.lastCriteria = criteria
	return s.candidates, s.findErr
}

type stubBuddyDirectory struct {
	users map[int64]models.PublicUser
	err   error
	calls int
	ids   []int64
}

func (d *stubBuddyDirectory) GetPublicByIDs(_ context.Context, ids []int64) (map[int64]models.PublicUser, error) {
	d.calls++
	d.ids = ids
	return d.users, d.err
}

func window(start, end string) models.WorkoutTimePreference {
	return models.WorkoutTimePreference{StartTime: start, EndTime: end}
}

func requester() *models.BuddyPreference {
	return &models.BuddyPreference{
		UserID:                  1,
		WorkoutTimePreference:   window("06:00", "09:00"),
		FitnessGoals:            []string{"Strength"},
		WorkoutTypes:            []string{"Gym"},
		ExperienceLevel:         "Beginner",
		CommunicationPreference: "Chat Only",
		MatchPreferences:        models.MatchPreferences{LocationPreference: models.LocationRemote},
		IsActive:                true,
	}
}

func newMatchCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestFindMatchesRequiresPreferences(t *testing.T) {
	service := NewBuddyService(newStubPreferenceStore(), nil, nil, time.Minute, nil)

	_, err := service.FindMatches(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPreferencesMissing)
}

func TestFindMatchesWrapsStoreFailure(t *testing.T) {
	store := newStubPreferenceStore()
	store.prefs[1] = requester()
	store.findErr = errors.New("connection reset")
	service := NewBuddyService(store, nil, nil, time.Minute, nil)

	_, err := service.FindMatches(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCandidateQueryFailed)
}

func TestFindMatchesDropsIneligibleAndCapsAtTwenty(t *testing.T) {
	store := newStubPreferenceStore()
	store.prefs[1] = requester()

	store.candidates = append(store.candidates,
		models.BuddyPreference{UserID: 1, IsActive: true, WorkoutTimePreference: window("06:00", "07:00")},
		models.BuddyPreference{UserID: 2, IsActive: false, WorkoutTimePreference: window("06:00", "07:00")},
	)
	for i := 0; i < 30; i++ {
		store.candidates = append(store.candidates, models.BuddyPreference{
			UserID:                int64(100 + i),
			IsActive:              true,
			WorkoutTimePreference: window("08:00", "10:00"),
		})
	}

	service := NewBuddyService(store, nil, nil, time.Minute, nil)
	matches, err := service.FindMatches(context.Background(), 1)
	require.NoError(t, err)

	assert.Len(t, matches, repository.MaxCandidates)
	for _, m := range matches {
		assert.NotEqual(t, int64(1), m.UserID)
		assert.True(t, m.IsActive)
	}
	assert.Nil(t, store.lastCriteria.Radius)
}

func TestFindMatchesUsesCacheAndUpsertInvalidates(t *testing.T) {
	store := newStubPreferenceStore()
	store.prefs[1] = requester()
	store.candidates = []models.BuddyPreference{
		{UserID: 2, IsActive: true, WorkoutTimePreference: window("07:00", "08:00"), FitnessGoals: []string{"Strength"}},
	}
	matchCache, mr := newMatchCache(t)
	service := NewBuddyService(store, nil, matchCache, time.Minute, nil)
	ctx := context.Background()

	first, err := service.FindMatches(ctx, 1)
	require.NoError(t, err)
	second, err := service.FindMatches(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, store.findCalls, "second call should be served from redis")
	assert.Equal(t, first[0].CompatibilityScore, second[0].CompatibilityScore)
	assert.True(t, mr.Exists(cache.KeyForMatches(0, 1)))

	_, err = service.UpsertPreferences(ctx, 1, requester())
	require.NoError(t, err)
	generation, err := matchCache.MatchGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), generation)

	_, err = service.FindMatches(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, store.findCalls)
}

func TestDeactivateInvalidatesCache(t *testing.T) {
	store := newStubPreferenceStore()
	store.prefs[1] = requester()
	matchCache, mr := newMatchCache(t)
	service := NewBuddyService(store, nil, matchCache, time.Minute, nil)
	ctx := context.Background()

	_, err := service.FindMatches(ctx, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.KeyForMatches(0, 1)))

	require.NoError(t, service.Deactivate(ctx, 1))
	assert.Equal(t, []int64{1}, store.deactivated)

	_, err = service.FindMatches(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, store.findCalls)
}

func TestCandidateChangesInvalidateOtherUsersMatches(t *testing.T) {
	store := newStubPreferenceStore()
	store.prefs[1] = requester()
	candidate := models.BuddyPreference{UserID: 2, IsActive: true, WorkoutTimePreference: window("07:00", "08:00")}
	store.prefs[2] = &candidate
	store.candidates = []models.BuddyPreference{candidate}
	matchCache, _ := newMatchCache(t)
	service := NewBuddyService(store, nil, matchCache, time.Minute, nil)
	ctx := context.Background()

	before, err := service.FindMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, before, 1)
	require.Equal(t, int64(2), before[0].UserID)

	require.NoError(t, service.Deactivate(ctx, 2))

	after, err := service.FindMatches(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, after, "a deactivated buddy must not be served from another user's cached list")
	assert.Equal(t, 2, store.findCalls)
}

func TestFindMatchesAttachesBuddyProfiles(t *testing.T) {
	store := newStubPreferenceStore()
	store.prefs[1] = requester()
	store.candidates = []models.BuddyPreference{
		{UserID: 2, IsActive: true, WorkoutTimePreference: window("07:00", "08:00"), FitnessGoals: []string{"Strength"}},
		{UserID: 3, IsActive: true, WorkoutTimePreference: window("07:00", "08:00")},
	}
	avatar := "https://cdn.test/avatars/2.png"
	directory := &stubBuddyDirectory{users: map[int64]models.PublicUser{
		2: {ID: 2, Name: "Sam", Email: "sam@example.com", Img: &avatar},
	}}
	matchCache, _ := newMatchCache(t)
	service := NewBuddyService(store, directory, matchCache, time.Minute, nil)
	ctx := context.Background()

	matches, err := service.FindMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, 1, directory.calls, "profiles load in one batch")
	assert.ElementsMatch(t, []int64{2, 3}, directory.ids)
	require.Equal(t, int64(2), matches[0].UserID)
	require.NotNil(t, matches[0].User)
	assert.Equal(t, "Sam", matches[0].User.Name)
	assert.Equal(t, avatar, *matches[0].User.Img)
	assert.Nil(t, matches[1].User)

	cached, err := service.FindMatches(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, directory.calls)
	require.NotNil(t, cached[0].User)
	assert.Equal(t, "sam@example.com", cached[0].User.Email)
}

func TestFindMatchesFailsWhenProfilesCannotLoad(t *testing.T) {
	store := newStubPreferenceStore()
	store.prefs[1] = requester()
	store.candidates = []models.BuddyPreference{
		{UserID: 2, IsActive: true, WorkoutTimePreference: window("07:00", "08:00")},
	}
	directory := &stubBuddyDirectory{err: errors.New("connection reset")}
	service := NewBuddyService(store, directory, nil, time.Minute, nil)

	_, err := service.FindMatches(context.Background(), 1)
	assert.Error(t, err)
}

func TestUpsertAppliesDefaults(t *testing.T) {
	store := newStubPreferenceStore()
	service := NewBuddyService(store, nil, nil, time.Minute, nil)

	saved, err := service.UpsertPreferences(context.Background(), 9, &models.BuddyPreference{
		UserID:          12345,
		ExperienceLevel: "Advanced",
		Location:        models.GeoPoint{Coordinates: []float64{1, 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), store.upsertedUserID, "user id comes from the caller")
	assert.Equal(t, models.CommunicationChatOnly, saved.CommunicationPreference)
	assert.Equal(t, models.LocationBoth, saved.MatchPreferences.LocationPreference)
	assert.Equal(t, models.GenderAny, saved.MatchPreferences.PreferredGender)
	assert.Equal(t, float64(models.DefaultMaxDistanceKM), saved.MatchPreferences.MaxDistance)
	assert.Equal(t, "Point", saved.Location.Type)
}

func TestGetPreferencesMapsNotFound(t *testing.T) {
	service := NewBuddyService(newStubPreferenceStore(), nil, nil, time.Minute, nil)

	_, err := service.GetPreferences(context.Background(), 77)
	assert.True(t, errors.Is(err, ErrPreferencesMissing), fmt.Sprintf("unexpected error %v", err))
}
