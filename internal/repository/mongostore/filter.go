package mongostore

import (
	"github.com/fittrack/fittrack-back/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
)

// candidateFilter renders the criteria as a find filter. With a radius the
// $near operator also sorts results nearest first.
func candidateFilter(c repository.CandidateCriteria) bson.D {
	filter := bson.D{
		{Key: "user_id", Value: bson.D{{Key: "$ne", Value: c.ExcludeUserID}}},
	}
	if c.ActiveOnly {
		filter = append(filter, bson.E{Key: "is_active", Value: true})
	}

	if c.Radius != nil {
		filter = append(filter, bson.E{Key: "location", Value: bson.D{
			{Key: "$near", Value: bson.D{
				{Key: "$geometry", Value: bson.D{
					{Key: "type", Value: "Point"},
					{Key: "coordinates", Value: bson.A{
						c.Radius.Center.Longitude(),
						c.Radius.Center.Latitude(),
					}},
				}},
				{Key: "$maxDistance", Value: c.Radius.MaxDistanceM},
			}},
		}})
	}

	if c.Window != nil {
		filter = append(filter,
			bson.E{Key: "workout_time_preference.start_time", Value: bson.D{{Key: "$lte", Value: c.Window.End}}},
			bson.E{Key: "workout_time_preference.end_time", Value: bson.D{{Key: "$gte", Value: c.Window.Start}}},
		)
	}

	return filter
}
