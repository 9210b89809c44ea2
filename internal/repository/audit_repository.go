package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/profitpilotai/controlplane/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Insert(entry *models.AuditEntry) error
	List(limit int64) ([]*models.AuditEntry, error)
	ListByLogin(loginID string, limit int64) ([]*models.AuditEntry, error)
}

type MongoAuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName, collectionName string) *MongoAuditRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoAuditRepository{collection: collection}
}

func (r *MongoAuditRepository) Insert(entry *models.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *MongoAuditRepository) List(limit int64) ([]*models.AuditEntry, error) {
	return r.find(bson.M{}, limit)
}

func (r *MongoAuditRepository) ListByLogin(loginID string, limit int64) ([]*models.AuditEntry, error) {
	return r.find(bson.M{"login_id": loginID}, limit)
}

func (r *MongoAuditRepository) find(filter bson.M, limit int64) ([]*models.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
