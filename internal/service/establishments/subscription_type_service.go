package establishments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/repository"
)

// SubscriptionTypeService manages the commercial plans.
type SubscriptionTypeService struct {
	types  repository.SubscriptionTypeRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewSubscriptionTypeService wires the service. now may be nil.
func NewSubscriptionTypeService(types repository.SubscriptionTypeRepository, now func() time.Time, logger *zap.Logger) *SubscriptionTypeService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionTypeService{types: types, now: now, logger: logger}
}

// Register creates a new version of a plan. It fails while an unexpired plan
// with the same name exists.
func (s *SubscriptionTypeService) Register(ctx context.Context, subscriptionType models.SubscriptionType) (*models.SubscriptionType, error) {
	subscriptionType.Name = strings.TrimSpace(subscriptionType.Name)
	if subscriptionType.Name == "" {
		return nil, invalid("name is required")
	}
	if subscriptionType.Duration <= 0 {
		return nil, invalid("duration must be a positive number of days")
	}

	now := s.now()
	current, err := s.types.FindLatestByName(ctx, subscriptionType.Name)
	switch {
	case err == nil && !current.IsExpired(now):
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionTypeExists, subscriptionType.Name)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	subscriptionType.CreationDate = now
	subscriptionType.ExpirationDate = nil
	if err := s.types.Insert(ctx, &subscriptionType); err != nil {
		return nil, err
	}

	s.logger.Info("subscription type registered", zap.String("name", subscriptionType.Name))
	return &subscriptionType, nil
}

// Get returns the current plan named name.
func (s *SubscriptionTypeService) Get(ctx context.Context, name string) (*models.SubscriptionType, error) {
	subscriptionType, err := s.types.FindLatestByName(ctx, name)
	if err != nil {
		return nil, notFoundAs(ErrSubscriptionTypeNotFound, name, err)
	}
	return subscriptionType, nil
}

// Update overwrites price, duration and description of the current plan when
// they are set.
func (s *SubscriptionTypeService) Update(ctx context.Context, name string, changes models.SubscriptionType) (*models.SubscriptionType, error) {
	subscriptionType, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if changes.Price > 0 {
		subscriptionType.Price = changes.Price
	}
	if changes.Duration > 0 {
		subscriptionType.Duration = changes.Duration
	}
	if strings.TrimSpace(changes.Description) != "" {
		subscriptionType.Description = changes.Description
	}

	if err := s.types.Replace(ctx, subscriptionType); err != nil {
		return nil, err
	}
	return subscriptionType, nil
}

// Invalidate expires the current plan immediately.
func (s *SubscriptionTypeService) Invalidate(ctx context.Context, name string) (*models.SubscriptionType, error) {
	subscriptionType, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	subscriptionType.ExpirationDate = &now
	if err := s.types.Replace(ctx, subscriptionType); err != nil {
		return nil, err
	}

	s.logger.Info("subscription type invalidated", zap.String("name", subscriptionType.Name))
	return subscriptionType, nil
}

// Validate fails with a *ValidationError when the current plan is expired.
func (s *SubscriptionTypeService) Validate(ctx context.Context, name string) (*models.SubscriptionType, error) {
	subscriptionType, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if subscriptionType.IsExpired(s.now()) {
		return nil, invalid("subscription type %s is expired", subscriptionType.Name)
	}
	return subscriptionType, nil
}
