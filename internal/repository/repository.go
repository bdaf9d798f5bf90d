// Package repository declares the persistence ports of the administration
// module. The mongodb sub-package implements them.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("document already exists")
)

// EstablishmentRepository stores establishments keyed by cuig.
type EstablishmentRepository interface {
	Insert(ctx context.Context, establishment *models.Establishment) error
	FindByCuig(ctx context.Context, cuig string) (*models.Establishment, error)
	FindAll(ctx context.Context) ([]models.Establishment, error)
	Replace(ctx context.Context, establishment *models.Establishment) error
	DeleteByCuig(ctx context.Context, cuig string) error
}

// SubscriptionTypeRepository stores subscription plans. Names are not unique.
type SubscriptionTypeRepository interface {
	Insert(ctx context.Context, subscriptionType *models.SubscriptionType) error
	// FindLatestByName returns the most recently created type whose name
	// matches case-insensitively.
	FindLatestByName(ctx context.Context, name string) (*models.SubscriptionType, error)
	Replace(ctx context.Context, subscriptionType *models.SubscriptionType) error
}

// AuditRepository stores request audits.
type AuditRepository interface {
	Insert(ctx context.Context, audit *models.Audit) error
	// List returns one page of audits, newest first, plus the total count.
	// An empty cuig matches every establishment.
	List(ctx context.Context, cuig string, page, size int64) ([]models.Audit, int64, error)
}
