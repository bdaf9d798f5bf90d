package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/repository"
)

// SubscriptionTypeRepository implements repository.SubscriptionTypeRepository.
type SubscriptionTypeRepository struct {
	coll *mongo.Collection
}

// NewSubscriptionTypeRepository binds the subscription_types collection.
func NewSubscriptionTypeRepository(store *Store) *SubscriptionTypeRepository {
	return &SubscriptionTypeRepository{coll: store.db.Collection(subscriptionTypesCollection)}
}

// Insert stores a new subscription type.
func (r *SubscriptionTypeRepository) Insert(ctx context.Context, subscriptionType *models.SubscriptionType) error {
	res, err := r.coll.InsertOne(ctx, subscriptionType)
	if err != nil {
		return fmt.Errorf("failed to insert subscription type: %w", err)
	}
	assignID(res.InsertedID, &subscriptionType.ID)
	return nil
}

// FindLatestByName returns the newest type named name, ignoring case.
func (r *SubscriptionTypeRepository) FindLatestByName(ctx context.Context, name string) (*models.SubscriptionType, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "creation_date", Value: -1}})

	var out models.SubscriptionType
	if err := r.coll.FindOne(ctx, nameFilter(name), opts).Decode(&out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// Replace overwrites the document with the same id.
func (r *SubscriptionTypeRepository) Replace(ctx context.Context, subscriptionType *models.SubscriptionType) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": subscriptionType.ID}, subscriptionType)
	if err != nil {
		return fmt.Errorf("failed to replace subscription type: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// nameFilter matches the whole name case-insensitively.
func nameFilter(name string) bson.M {
	return bson.M{"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}}
}
