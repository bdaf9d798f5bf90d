package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/repository"
)

// EstablishmentRepository implements repository.EstablishmentRepository.
type EstablishmentRepository struct {
	coll *mongo.Collection
}

// NewEstablishmentRepository binds the establishments collection.
func NewEstablishmentRepository(store *Store) *EstablishmentRepository {
	return &EstablishmentRepository{coll: store.db.Collection(establishmentsCollection)}
}

// Insert stores a new establishment.
func (r *EstablishmentRepository) Insert(ctx context.Context, establishment *models.Establishment) error {
	res, err := r.coll.InsertOne(ctx, establishment)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert establishment: %w", err)
	}
	assignID(res.InsertedID, &establishment.ID)
	return nil
}

// FindByCuig loads one establishment.
func (r *EstablishmentRepository) FindByCuig(ctx context.Context, cuig string) (*models.Establishment, error) {
	var out models.Establishment
	if err := r.coll.FindOne(ctx, bson.M{"cuig": cuig}).Decode(&out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// FindAll lists every establishment by name.
func (r *EstablishmentRepository) FindAll(ctx context.Context) ([]models.Establishment, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list establishments: %w", err)
	}
	out := []models.Establishment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode establishments: %w", err)
	}
	return out, nil
}

// Replace overwrites the document with the same cuig.
func (r *EstablishmentRepository) Replace(ctx context.Context, establishment *models.Establishment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"cuig": establishment.Cuig}, establishment)
	if err != nil {
		return fmt.Errorf("failed to replace establishment: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByCuig removes one establishment.
func (r *EstablishmentRepository) DeleteByCuig(ctx context.Context, cuig string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"cuig": cuig})
	if err != nil {
		return fmt.Errorf("failed to delete establishment: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
