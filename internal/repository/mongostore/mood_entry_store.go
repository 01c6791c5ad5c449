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

type MoodEntryStore struct {
	coll *mongo.Collection
}

func NewMoodEntryStore(coll *mongo.Collection) *MoodEntryStore {
	return &MoodEntryStore{coll: coll}
}

func (s *MoodEntryStore) Create(ctx context.Context, entry *models.MoodEntry) error {
	entry.CreatedAt = time.Now().UTC()
	_, err := s.coll.InsertOne(ctx, entry)
	return err
}

func (s *MoodEntryStore) ListInRange(
	ctx context.Context,
	userID int64,
	from time.Time,
	to time.Time,
) ([]models.MoodEntry, error) {
	filter := bson.D{
		{Key: "user_id", Value: userID},
		{Key: "timestamp", Value: bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: to}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "created_at", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]models.MoodEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *MoodEntryStore) Latest(ctx context.Context, userID int64) (*models.MoodEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "created_at", Value: -1}})

	var entry models.MoodEntry
	err := s.coll.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}, opts).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &entry, nil
}
