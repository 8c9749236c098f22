package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for establishing a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// selects the portal database and ensures its indexes.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := ensureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, err
	}
	return client, db, nil
}

// ensureIndexes creates the unique indexes the repositories rely on: duplicate
// signups and duplicate enrollments are caught as key collisions, and weekly
// attendance upserts need a stable (group, student, week) key.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		collectionUsers: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: unique,
		},
		collectionEnrollments: {
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "student_email", Value: 1}},
			Options: unique,
		},
		collectionAttendance: {
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "student_email", Value: 1}, {Key: "week_start", Value: 1}},
			Options: unique,
		},
		collectionGroups: {
			Keys: bson.D{{Key: "instructor_email", Value: 1}},
		},
	}

	for collection, model := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("mongo index on %s: %w", collection, err)
		}
	}
	return nil
}
