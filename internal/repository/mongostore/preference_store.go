package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PreferenceStore struct {
	coll *mongo.Collection
}

func NewPreferenceStore(coll *mongo.Collection) *PreferenceStore {
	return &PreferenceStore{coll: coll}
}

func (s *PreferenceStore) Upsert(ctx context.Context, pref *models.BuddyPreference) (*models.BuddyPreference, error) {
	now := time.Now().UTC()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "workout_time_preference", Value: pref.WorkoutTimePreference},
			{Key: "fitness_goals", Value: pref.FitnessGoals},
			{Key: "workout_types", Value: pref.WorkoutTypes},
			{Key: "communication_preference", Value: pref.CommunicationPreference},
			{Key: "experience_level", Value: pref.ExperienceLevel},
			{Key: "bio", Value: pref.Bio},
			{Key: "match_preferences", Value: pref.MatchPreferences},
			{Key: "location", Value: models.NewGeoPoint(pref.Location.Longitude(), pref.Location.Latitude())},
			{Key: "is_active", Value: true},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "user_id", Value: pref.UserID},
			{Key: "created_at", Value: now},
		}},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var saved models.BuddyPreference
	err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "user_id", Value: pref.UserID}}, update, opts).Decode(&saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *PreferenceStore) GetByUserID(ctx context.Context, userID int64) (*models.BuddyPreference, error) {
	var pref models.BuddyPreference
	err := s.coll.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}).Decode(&pref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (s *PreferenceStore) Deactivate(ctx context.Context, userID int64) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "is_active", Value: false},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	)
	return err
}

func (s *PreferenceStore) FindCandidates(
	ctx context.Context,
	criteria repository.CandidateCriteria,
) ([]models.BuddyPreference, error) {
	opts := options.Find().SetLimit(int64(criteria.EffectiveLimit()))
	if criteria.Radius == nil {
		opts.SetSort(bson.D{{Key: "user_id", Value: 1}})
	}

	cursor, err := s.coll.Find(ctx, candidateFilter(criteria), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	candidates := make([]models.BuddyPreference, 0)
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}
