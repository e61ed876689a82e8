// Package mongo provides the MongoDB implementation of the audit event
// store. The store is append-only: the core writes events and trims old
// ones, and never reads them back.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lifesim-bank/internal/domain/audit"
)

const (
	// AuditCollectionName is the name of the audit event collection in MongoDB
	AuditCollectionName = "audit_events"
)

// AuditRepository implements the audit.Store interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit event store
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) audit.Store {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends one audit event.
func (r *AuditRepository) Insert(ctx context.Context, event *audit.Event) error {
	collection := r.db.Collection(AuditCollectionName)

	_, err := collection.InsertOne(ctx, event)
	if err != nil {
		r.logger.Error("Failed to insert audit event",
			"component", event.Component,
			"action", event.Action,
			"error", err)
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}

// Trim deletes the oldest events beyond the retention count.
func (r *AuditRepository) Trim(ctx context.Context, retention int64) error {
	collection := r.db.Collection(AuditCollectionName)

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count audit events: %w", err)
	}
	if total <= retention {
		return nil
	}

	excess := total - retention
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(excess).
		SetProjection(bson.M{"_id": 1})

	cursor, err := collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return fmt.Errorf("failed to find oldest audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var oldest []bson.M
	if err := cursor.All(ctx, &oldest); err != nil {
		return fmt.Errorf("failed to decode oldest audit events: %w", err)
	}

	ids := make([]interface{}, 0, len(oldest))
	for _, doc := range oldest {
		ids = append(ids, doc["_id"])
	}
	if len(ids) == 0 {
		return nil
	}

	if _, err := collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("failed to trim audit events: %w", err)
	}

	return nil
}
