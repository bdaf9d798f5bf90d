package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herd-admin/internal/repository"
)

const (
	establishmentsCollection    = "establishments"
	subscriptionTypesCollection = "subscription_types"
	auditsCollection            = "audits"
)

// Store owns the MongoDB connection shared by the repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens and verifies a MongoDB connection.
func Connect(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(establishmentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "cuig", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create establishment cuig index: %w", err)
	}

	_, err = s.db.Collection(subscriptionTypesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}, {Key: "creation_date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription type index: %w", err)
	}

	_, err = s.db.Collection(auditsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "establishment_cuig", Value: 1}, {Key: "audit_date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create audit index: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// assignID copies a driver generated ObjectID back onto the document.
func assignID(inserted any, target *primitive.ObjectID) {
	if id, ok := inserted.(primitive.ObjectID); ok {
		*target = id
	}
}

// notFound maps the driver's no-documents error to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}
