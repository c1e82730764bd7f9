package activity

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

const MongoCollectionName = "userActivity"

type MongoRecorder struct {
	Collection *mongo.Collection
}

func MakeMongoRecorder(db *mongo.Database) *MongoRecorder {
	return &MongoRecorder{Collection: db.Collection(MongoCollectionName)}
}

func (r *MongoRecorder) Record(ctx context.Context, event Event) error {
	_, err := r.Collection.InsertOne(ctx, event)
	if err != nil {
		return errors.Wrapf(err, "failed to insert activity %v", event.EventID)
	}
	return nil
}
