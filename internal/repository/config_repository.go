package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/profitpilotai/controlplane/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConfigRepository interface {
	Get(loginID string) (*models.UserConfig, error)
	Save(config *models.UserConfig) error
	Delete(loginID string) error
}

type MongoConfigRepository struct {
	collection *mongo.Collection
}

func NewConfigRepository(client *mongo.Client, dbName, collectionName string) *MongoConfigRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoConfigRepository{collection: collection}
}

func (r *MongoConfigRepository) Get(loginID string) (*models.UserConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var config models.UserConfig
	err := r.collection.FindOne(ctx, bson.M{"login_id": loginID}).Decode(&config)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Save replaces the whole config document; there is no partial merge.
func (r *MongoConfigRepository) Save(config *models.UserConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx, bson.M{"login_id": config.LoginID}, config, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (r *MongoConfigRepository) Delete(loginID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"login_id": loginID})
	return err
}
