package remote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	eventsCollection      = "time_events"
	membershipsCollection = "memberships"

	connectTimeout = 10 * time.Second
)

// Connect dials the MongoDB deployment behind uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// MongoStore implements RecordStore on top of a MongoDB database.
type MongoStore struct {
	events      *mongo.Collection
	memberships *mongo.Collection
}

// Ensure MongoStore implements RecordStore at compile time.
var _ RecordStore = (*MongoStore)(nil)

// NewMongoStore wraps the given client and database name.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		events:      db.Collection(eventsCollection),
		memberships: db.Collection(membershipsCollection),
	}
}

// AppendEvent inserts one event into the time_events collection.
func (s *MongoStore) AppendEvent(ctx context.Context, ev TimeEvent) error {
	if _, err := s.events.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("append %s event: %w", ev.EntryType, err)
	}
	return nil
}

// LatestByType finds the newest event of entryType for the user/company pair.
func (s *MongoStore) LatestByType(ctx context.Context, userID, companyID string, entryType EntryType, before time.Time) (*TimeEvent, error) {
	filter := bson.M{
		"user_id":    userID,
		"company_id": companyID,
		"entry_type": entryType,
	}
	if !before.IsZero() {
		filter["entry_time"] = bson.M{"$lt": before}
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "entry_time", Value: -1}})
	var ev TimeEvent
	err := s.events.FindOne(ctx, filter, opts).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest %s: %w", entryType, err)
	}
	return &ev, nil
}

// Watch opens a change stream over inserts for the user and forwards the new
// events on the returned channel. The channel closes when ctx is cancelled or
// the stream fails; callers treat closure as "realtime unavailable" and fall
// back to polling triggers.
func (s *MongoStore) Watch(ctx context.Context, userID string) (<-chan TimeEvent, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: "insert"},
			{Key: "fullDocument.user_id", Value: userID},
		}}},
	}
	stream, err := s.events.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("watch time_events: %w", err)
	}

	ch := make(chan TimeEvent, 1)
	go func() {
		defer close(ch)
		defer func() { _ = stream.Close(context.Background()) }()
		for stream.Next(ctx) {
			var change struct {
				FullDocument TimeEvent `bson:"fullDocument"`
			}
			if err := stream.Decode(&change); err != nil {
				log.Printf("decode change event: %v", err)
				continue
			}
			select {
			case ch <- change.FullDocument:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Membership returns the company the user belongs to, or an empty string when
// the user has no active membership.
func (s *MongoStore) Membership(ctx context.Context, userID string) (string, error) {
	var doc struct {
		CompanyID string `bson:"company_id"`
	}
	err := s.memberships.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query membership: %w", err)
	}
	return doc.CompanyID, nil
}
