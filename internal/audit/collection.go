package audit

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetflow/internal/events"
)

// EventCollection defines the storage operations for audit events.
type EventCollection interface {
	InsertEvent(ctx context.Context, event events.Event) error
	FindByTrip(ctx context.Context, tripID string) ([]events.Event, error)
}

// ConnectMongo connects to MongoDB and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoCollection stores audit events in a MongoDB collection.
type MongoCollection struct {
	Collection *mongo.Collection
}

// NewMongoCollection returns the trip_events collection of db.
func NewMongoCollection(client *mongo.Client, db string) *MongoCollection {
	return &MongoCollection{Collection: client.Database(db).Collection("trip_events")}
}

// InsertEvent inserts an event document.
func (c *MongoCollection) InsertEvent(ctx context.Context, event events.Event) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, event)
	return err
}

// FindByTrip returns the events of a trip in the order they occurred.
func (c *MongoCollection) FindByTrip(ctx context.Context, tripID string) ([]events.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"trip_id": tripID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []events.Event{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MemoryCollection keeps audit events in process.
type MemoryCollection struct {
	mu     sync.RWMutex
	events []events.Event
}

// NewMemoryCollection creates an empty MemoryCollection.
func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{}
}

func (c *MemoryCollection) InsertEvent(ctx context.Context, event events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *MemoryCollection) FindByTrip(ctx context.Context, tripID string) ([]events.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []events.Event{}
	for _, e := range c.events {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

var (
	_ EventCollection = (*MongoCollection)(nil)
	_ EventCollection = (*MemoryCollection)(nil)
)
