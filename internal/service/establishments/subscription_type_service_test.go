package establishments

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

func TestRegisterSubscriptionType(t *testing.T) {
	types := &memTypes{}
	svc := NewSubscriptionTypeService(types, fixedNow, nil)

	got, err := svc.Register(context.Background(), models.SubscriptionType{Name: "Gold", Price: 100, Duration: 30})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !got.CreationDate.Equal(clock) || got.ExpirationDate != nil {
		t.Fatalf("registered: %+v", got)
	}

	if _, err := svc.Register(context.Background(), models.SubscriptionType{Name: "gold", Duration: 10}); !errors.Is(err, ErrSubscriptionTypeExists) {
		t.Fatalf("active duplicate: want ErrSubscriptionTypeExists, got %v", err)
	}

	var verr *ValidationError
	if _, err := svc.Register(context.Background(), models.SubscriptionType{Name: "Zero"}); !errors.As(err, &verr) {
		t.Fatalf("zero duration: want *ValidationError, got %v", err)
	}
}

func TestRegisterAfterInvalidateCreatesNewVersion(t *testing.T) {
	types := &memTypes{types: []models.SubscriptionType{
		{Name: "Gold", Price: 100, Duration: 30, CreationDate: clock.Add(-days(30))},
	}}
	svc := NewSubscriptionTypeService(types, fixedNow, nil)

	invalidated, err := svc.Invalidate(context.Background(), "gold")
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if invalidated.ExpirationDate == nil || !invalidated.ExpirationDate.Equal(clock) {
		t.Fatalf("expiration: %+v", invalidated.ExpirationDate)
	}

	var verr *ValidationError
	if _, err := svc.Validate(context.Background(), "Gold"); !errors.As(err, &verr) {
		t.Fatalf("Validate expired: want *ValidationError, got %v", err)
	}

	if _, err := svc.Register(context.Background(), models.SubscriptionType{Name: "Gold", Price: 200, Duration: 60}); err != nil {
		t.Fatalf("Register new version: %v", err)
	}
	current, err := svc.Validate(context.Background(), "gold")
	if err != nil {
		t.Fatalf("Validate new version: %v", err)
	}
	if current.Price != 200 {
		t.Fatalf("current version price: want=200 got=%d", current.Price)
	}
}

func TestUpdateSubscriptionType(t *testing.T) {
	types := &memTypes{types: []models.SubscriptionType{
		{Name: "Gold", Price: 100, Duration: 30, Description: "base", CreationDate: clock.Add(-days(1))},
	}}
	svc := NewSubscriptionTypeService(types, fixedNow, nil)

	got, err := svc.Update(context.Background(), "GOLD", models.SubscriptionType{Price: 120})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Price != 120 || got.Duration != 30 || got.Description != "base" {
		t.Fatalf("updated: %+v", got)
	}

	if _, err := svc.Update(context.Background(), "Platinum", models.SubscriptionType{Price: 1}); !errors.Is(err, ErrSubscriptionTypeNotFound) {
		t.Fatalf("missing: want ErrSubscriptionTypeNotFound, got %v", err)
	}
}
