package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

// AuditRepository implements repository.AuditRepository.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository binds the audits collection.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{coll: store.db.Collection(auditsCollection)}
}

// Insert stores one audit entry.
func (r *AuditRepository) Insert(ctx context.Context, audit *models.Audit) error {
	res, err := r.coll.InsertOne(ctx, audit)
	if err != nil {
		return fmt.Errorf("failed to insert audit: %w", err)
	}
	assignID(res.InsertedID, &audit.ID)
	return nil
}

// List returns a page of audits, newest first.
func (r *AuditRepository) List(ctx context.Context, cuig string, page, size int64) ([]models.Audit, int64, error) {
	filter := auditFilter(cuig)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audits: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, pageOptions(page, size))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audits: %w", err)
	}
	out := []models.Audit{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("failed to decode audits: %w", err)
	}
	return out, total, nil
}

func auditFilter(cuig string) bson.M {
	if cuig == "" {
		return bson.M{}
	}
	return bson.M{"establishment_cuig": cuig}
}

func pageOptions(page, size int64) *options.FindOptions {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}
	return options.Find().
		SetSort(bson.D{{Key: "audit_date", Value: -1}}).
		SetSkip(page * size).
		SetLimit(size)
}
