package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds MongoDB connection configuration
type Config struct {
	URI         string
	Database    string
	ConnTimeout time.Duration

	// Retry configuration
	MaxRetries    int
	RetryInterval time.Duration
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() *Config {
	return &Config{
		URI:           "mongodb://localhost:27017",
		Database:      "planzo",
		ConnTimeout:   10 * time.Second,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	}
}

// DB wraps a mongo.Database with connection management
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *Config
}

// New creates a new MongoDB connection with retry logic
func New(ctx context.Context, cfg *Config) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnTimeout)

	var client *mongo.Client
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(cfg.RetryInterval)
		}

		client, lastErr = mongo.Connect(ctx, opts)
		if lastErr != nil {
			continue
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
		lastErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if lastErr != nil {
			_ = client.Disconnect(ctx)
			continue
		}

		return &DB{
			client:   client,
			database: client.Database(cfg.Database),
			config:   cfg,
		}, nil
	}

	return nil, fmt.Errorf("failed to connect to mongodb after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

// Client returns the underlying mongo.Client
func (db *DB) Client() *mongo.Client {
	return db.client
}

// Database returns the underlying mongo.Database
func (db *DB) Database() *mongo.Database {
	return db.database
}

// Collection returns a handle to the named collection
func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// IsConnected returns true if the database connection is alive
func (db *DB) IsConnected(ctx context.Context) bool {
	return db.Ping(ctx) == nil
}

// Close disconnects from MongoDB gracefully
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and query indexes the application relies on
func (db *DB) EnsureIndexes(ctx context.Context) error {
	principalIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	for _, coll := range []string{"clients", "vendors", "admins"} {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, principalIndexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}

	eventIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vendorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}}},
	}
	if _, err := db.Collection("events").Indexes().CreateMany(ctx, eventIndexes); err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}

	return nil
}
