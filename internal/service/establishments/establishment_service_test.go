package establishments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

var clock = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return clock }

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func newEstablishmentService(est *memEstablishments, types *memTypes) *EstablishmentService {
	return NewEstablishmentService(est, types, fixedNow, nil)
}

func TestRegisterEstablishment(t *testing.T) {
	est := newMemEstablishments()
	svc := newEstablishmentService(est, &memTypes{})

	got, err := svc.Register(context.Background(), models.Establishment{Name: "La Esperanza", Cuig: " AB123 ", OwnerUserName: "ana"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got.Cuig != "AB123" || !got.CreationDate.Equal(clock) {
		t.Fatalf("registered: %+v", got)
	}

	_, err = svc.Register(context.Background(), models.Establishment{Name: "Otra", Cuig: "AB123"})
	if !errors.Is(err, ErrEstablishmentExists) {
		t.Fatalf("duplicate: want ErrEstablishmentExists, got %v", err)
	}

	var verr *ValidationError
	if _, err := svc.Register(context.Background(), models.Establishment{Name: "Sin cuig"}); !errors.As(err, &verr) {
		t.Fatalf("blank cuig: want *ValidationError, got %v", err)
	}
}

func TestUpdateKeepsCuigAndBlankFields(t *testing.T) {
	est := newMemEstablishments(models.Establishment{Name: "Vieja", Cuig: "AB123", Location: "Tandil", Phone: "111"})
	svc := newEstablishmentService(est, &memTypes{})

	got, err := svc.Update(context.Background(), "AB123", models.Establishment{Name: "Nueva", Cuig: "ZZ999", Phone: "  "})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Nueva" || got.Cuig != "AB123" || got.Location != "Tandil" || got.Phone != "111" {
		t.Fatalf("updated: %+v", got)
	}
	if est.byCuig["AB123"].Name != "Nueva" {
		t.Fatalf("update not persisted")
	}
}

func TestGetAndDeleteMissing(t *testing.T) {
	svc := newEstablishmentService(newMemEstablishments(), &memTypes{})

	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrEstablishmentNotFound) {
		t.Fatalf("Get: want ErrEstablishmentNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, ErrEstablishmentNotFound) {
		t.Fatalf("Delete: want ErrEstablishmentNotFound, got %v", err)
	}
}

func TestAddSubscriptionUsesLatestTypeVersion(t *testing.T) {
	est := newMemEstablishments(models.Establishment{Name: "E", Cuig: "AB123"})
	types := &memTypes{types: []models.SubscriptionType{
		{Name: "Gold", Price: 100, Duration: 30, CreationDate: clock.Add(-days(60))},
		{Name: "gold", Price: 150, Duration: 90, CreationDate: clock.Add(-days(5))},
	}}
	svc := newEstablishmentService(est, types)

	got, err := svc.AddSubscription(context.Background(), "AB123", "GOLD", nil)
	if err != nil {
		t.Fatalf("AddSubscription: %v", err)
	}
	if len(got.Subscriptions) != 1 {
		t.Fatalf("subscriptions: %+v", got.Subscriptions)
	}
	sub := got.Subscriptions[0]
	if sub.SubscriptionType.Price != 150 || !sub.StartingDate.Equal(clock) {
		t.Fatalf("subscription: %+v", sub)
	}
}

func TestAddSubscriptionRejectsExpiredOrMissingType(t *testing.T) {
	expired := clock.Add(-time.Hour)
	est := newMemEstablishments(models.Establishment{Name: "E", Cuig: "AB123"})
	types := &memTypes{types: []models.SubscriptionType{
		{Name: "Silver", Duration: 30, CreationDate: clock.Add(-days(10)), ExpirationDate: &expired},
	}}
	svc := newEstablishmentService(est, types)

	var verr *ValidationError
	if _, err := svc.AddSubscription(context.Background(), "AB123", "silver", nil); !errors.As(err, &verr) {
		t.Fatalf("expired type: want *ValidationError, got %v", err)
	}
	if _, err := svc.AddSubscription(context.Background(), "AB123", "bronze", nil); !errors.Is(err, ErrSubscriptionTypeNotFound) {
		t.Fatalf("missing type: want ErrSubscriptionTypeNotFound, got %v", err)
	}
	if _, err := svc.AddSubscription(context.Background(), "XX000", "silver", nil); !errors.Is(err, ErrEstablishmentNotFound) {
		t.Fatalf("missing establishment: want ErrEstablishmentNotFound, got %v", err)
	}
}

func TestSubscriptionsSortedLatestFirst(t *testing.T) {
	plan := models.SubscriptionType{Name: "Gold", Duration: 30}
	est := newMemEstablishments(models.Establishment{Cuig: "AB123", Subscriptions: []models.Subscription{
		{StartingDate: clock.Add(-days(90)), SubscriptionType: plan},
		{StartingDate: clock.Add(days(5)), SubscriptionType: plan},
		{StartingDate: clock.Add(-days(10)), SubscriptionType: plan},
	}})
	svc := newEstablishmentService(est, &memTypes{})

	got, err := svc.Subscriptions(context.Background(), "AB123")
	if err != nil {
		t.Fatalf("Subscriptions: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartingDate.After(got[i-1].StartingDate) {
			t.Fatalf("not sorted descending: %v", got)
		}
	}
}

func TestValidateEstablishment(t *testing.T) {
	plan := models.SubscriptionType{Name: "Gold", Duration: 30}
	cases := []struct {
		name    string
		subs    []models.Subscription
		wantErr bool
	}{
		{"no subscriptions", nil, true},
		{"only future subscription", []models.Subscription{{StartingDate: clock.Add(days(3)), SubscriptionType: plan}}, true},
		{"running", []models.Subscription{{StartingDate: clock.Add(-days(10)), SubscriptionType: plan}}, false},
		{"ran out", []models.Subscription{{StartingDate: clock.Add(-days(31)), SubscriptionType: plan}}, true},
		{"latest started wins", []models.Subscription{
			{StartingDate: clock.Add(-days(100)), SubscriptionType: plan},
			{StartingDate: clock.Add(-days(1)), SubscriptionType: plan},
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			est := newMemEstablishments(models.Establishment{Cuig: "AB123", Subscriptions: tc.subs})
			svc := newEstablishmentService(est, &memTypes{})

			_, err := svc.Validate(context.Background(), "AB123")
			var verr *ValidationError
			if tc.wantErr != errors.As(err, &verr) {
				t.Fatalf("wantErr=%v got %v", tc.wantErr, err)
			}
		})
	}
}
