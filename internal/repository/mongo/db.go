package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// ConnectDB connects to MongoDB and pings the primary before returning.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), pingTimeout)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection used by the app.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := EnsureUserIndexes(ctx, db.Collection(userCollectionName)); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := EnsureRequestIndexes(ctx, db.Collection(requestCollectionName)); err != nil {
		return fmt.Errorf("requests indexes: %w", err)
	}
	if err := EnsureCampaignIndexes(ctx, db.Collection(campaignCollectionName)); err != nil {
		return fmt.Errorf("campaigns indexes: %w", err)
	}
	return nil
}
