package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

// MongoEventRepository implements EventRepository over the events collection
type MongoEventRepository struct {
	coll *mongo.Collection
}

// NewMongoEventRepository creates a new MongoEventRepository
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{coll: db.Collection("events")}
}

// Create inserts a new event
func (r *MongoEventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.event.create")
	defer span.End()
	span.SetAttributes(attribute.String("vendor_id", event.VendorID))

	_, err := r.coll.InsertOne(ctx, event)
	return err
}

// GetByEventID retrieves an event by its public id
func (r *MongoEventRepository) GetByEventID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.event.get_by_id")
	defer span.End()

	event := &domain.Event{}
	err := r.coll.FindOne(ctx, bson.M{"eventId": eventID}).Decode(event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// Update replaces the mutable fields of an event
func (r *MongoEventRepository) Update(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.event.update")
	defer span.End()

	event.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":       event.Title,
		"description": event.Description,
		"category":    event.Category,
		"status":      event.Status,
		"date":        event.Date,
		"venue":       event.Venue,
		"address":     event.Address,
		"price":       event.Price,
		"totalSeats":  event.TotalSeats,
		"updatedAt":   event.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"eventId": event.EventID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateStatus sets the lifecycle status of an event
func (r *MongoEventRepository) UpdateStatus(ctx context.Context, eventID string, status domain.EventStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.event.update_status")
	defer span.End()
	span.SetAttributes(attribute.String("status", string(status)))

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"eventId": eventID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an event
func (r *MongoEventRepository) Delete(ctx context.Context, eventID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.event.delete")
	defer span.End()

	res, err := r.coll.DeleteOne(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func buildEventQuery(filter *EventFilter) bson.M {
	query := bson.M{}
	if filter.VendorID != "" {
		query["vendorId"] = filter.VendorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		// Literal substring match; never let user input act as a pattern
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}
	return query
}

// List returns a page of events matching the filter, newest first
func (r *MongoEventRepository) List(ctx context.Context, filter *EventFilter) ([]*domain.Event, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.event.list")
	defer span.End()

	filter.SetDefaults()
	query := buildEventQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(filter.Limit)).
		SetSkip(int64(filter.Offset))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var events []*domain.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
