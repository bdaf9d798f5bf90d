package establishments

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/repository"
)

// EstablishmentService manages establishments and their subscriptions.
type EstablishmentService struct {
	establishments repository.EstablishmentRepository
	types          repository.SubscriptionTypeRepository
	now            func() time.Time
	logger         *zap.Logger
}

// NewEstablishmentService wires the service. now may be nil.
func NewEstablishmentService(establishments repository.EstablishmentRepository, types repository.SubscriptionTypeRepository, now func() time.Time, logger *zap.Logger) *EstablishmentService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstablishmentService{establishments: establishments, types: types, now: now, logger: logger}
}

// Register stores a new establishment.
func (s *EstablishmentService) Register(ctx context.Context, establishment models.Establishment) (*models.Establishment, error) {
	establishment.Cuig = strings.TrimSpace(establishment.Cuig)
	if establishment.Cuig == "" {
		return nil, invalid("cuig is required")
	}
	if strings.TrimSpace(establishment.Name) == "" {
		return nil, invalid("name is required")
	}

	establishment.CreationDate = s.now()
	if establishment.Subscriptions == nil {
		establishment.Subscriptions = []models.Subscription{}
	}

	if err := s.establishments.Insert(ctx, &establishment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrEstablishmentExists, establishment.Cuig)
		}
		return nil, err
	}

	s.logger.Info("establishment registered", zap.String("cuig", establishment.Cuig))
	return &establishment, nil
}

// Get loads one establishment.
func (s *EstablishmentService) Get(ctx context.Context, cuig string) (*models.Establishment, error) {
	establishment, err := s.establishments.FindByCuig(ctx, cuig)
	if err != nil {
		return nil, notFoundAs(ErrEstablishmentNotFound, cuig, err)
	}
	return establishment, nil
}

// List returns every establishment.
func (s *EstablishmentService) List(ctx context.Context) ([]models.Establishment, error) {
	return s.establishments.FindAll(ctx)
}

// Update overwrites the non-empty descriptive fields. The cuig never changes.
func (s *EstablishmentService) Update(ctx context.Context, cuig string, changes models.Establishment) (*models.Establishment, error) {
	establishment, err := s.Get(ctx, cuig)
	if err != nil {
		return nil, err
	}

	overwrite(&establishment.Name, changes.Name)
	overwrite(&establishment.Location, changes.Location)
	overwrite(&establishment.Phone, changes.Phone)
	overwrite(&establishment.Email, changes.Email)
	overwrite(&establishment.OwnerUserName, changes.OwnerUserName)

	if err := s.establishments.Replace(ctx, establishment); err != nil {
		return nil, notFoundAs(ErrEstablishmentNotFound, cuig, err)
	}
	return establishment, nil
}

// Delete removes an establishment.
func (s *EstablishmentService) Delete(ctx context.Context, cuig string) error {
	if err := s.establishments.DeleteByCuig(ctx, cuig); err != nil {
		return notFoundAs(ErrEstablishmentNotFound, cuig, err)
	}
	s.logger.Info("establishment deleted", zap.String("cuig", cuig))
	return nil
}

// AddSubscription subscribes an establishment to the current plan named
// typeName. A nil startingDate means now.
func (s *EstablishmentService) AddSubscription(ctx context.Context, cuig, typeName string, startingDate *time.Time) (*models.Establishment, error) {
	establishment, err := s.Get(ctx, cuig)
	if err != nil {
		return nil, err
	}

	subscriptionType, err := s.types.FindLatestByName(ctx, typeName)
	if err != nil {
		return nil, notFoundAs(ErrSubscriptionTypeNotFound, typeName, err)
	}

	now := s.now()
	if subscriptionType.IsExpired(now) {
		return nil, invalid("subscription type %s is expired", subscriptionType.Name)
	}

	start := now
	if startingDate != nil {
		start = *startingDate
	}

	establishment.Subscriptions = append(establishment.Subscriptions, models.Subscription{
		StartingDate:     start,
		SubscriptionType: *subscriptionType,
	})
	if err := s.establishments.Replace(ctx, establishment); err != nil {
		return nil, notFoundAs(ErrEstablishmentNotFound, cuig, err)
	}

	s.logger.Info("subscription added",
		zap.String("cuig", cuig),
		zap.String("subscription_type", subscriptionType.Name),
		zap.Time("starting_date", start))
	return establishment, nil
}

// Subscriptions returns the subscriptions of an establishment, latest start
// first.
func (s *EstablishmentService) Subscriptions(ctx context.Context, cuig string) ([]models.Subscription, error) {
	establishment, err := s.Get(ctx, cuig)
	if err != nil {
		return nil, err
	}

	subscriptions := slices.Clone(establishment.Subscriptions)
	slices.SortStableFunc(subscriptions, func(a, b models.Subscription) int {
		return b.StartingDate.Compare(a.StartingDate)
	})
	if subscriptions == nil {
		subscriptions = []models.Subscription{}
	}
	return subscriptions, nil
}

// Validate returns the active subscription or a *ValidationError when the
// establishment has none or it has run out.
func (s *EstablishmentService) Validate(ctx context.Context, cuig string) (*models.Subscription, error) {
	establishment, err := s.Get(ctx, cuig)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := establishment.ActiveSubscription(now)
	if active == nil {
		return nil, invalid("establishment %s has no active subscription", cuig)
	}
	if active.EndingDate().Before(now) {
		return nil, invalid("subscription of establishment %s expired on %s", cuig, active.EndingDate().Format(time.DateOnly))
	}
	return active, nil
}

func notFoundAs(sentinel error, key string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", sentinel, key)
	}
	return err
}

func overwrite(field *string, value string) {
	if strings.TrimSpace(value) != "" {
		*field = value
	}
}
