package repository

import (
	"context"
	"errors"

	"github.com/walaz05/vivomejor/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// watchOwner opens a change stream on a collection scoped to one owner and
// adapts it to a change-signal channel: one (coalesced) signal per remote
// change, and at most one terminal error. The consumer refetches the full
// owner-filtered set on every signal; it never sees the raw events.
//
// Delete events carry no full document, so the pipeline lets every delete
// through and the owner filter on the refetch decides whether anything
// actually changed for this user.
func watchOwner(ctx context.Context, coll *mongo.Collection, userID primitive.ObjectID) (<-chan struct{}, <-chan error, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"$or": []bson.M{
				{"fullDocument.user_id": userID},
				{"operationType": "delete"},
			},
		}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := coll.Watch(ctx, pipeline, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("collection", coll.Name()).Error("Failed to open change stream")
		return nil, nil, err
	}

	signals := make(chan struct{}, 1)
	errs := make(chan error, 1)

	go func() {
		defer stream.Close(context.Background())
		defer close(signals)

		for stream.Next(ctx) {
			select {
			case signals <- struct{}{}:
			default: // a refetch is already pending
			}
		}
		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).WithField("collection", coll.Name()).Error("Change stream terminated")
			errs <- err
		}
	}()

	return signals, errs, nil
}
