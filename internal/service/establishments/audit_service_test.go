package establishments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

func TestRecordStampsDateAndModule(t *testing.T) {
	audits := &memAudits{}
	svc := NewAuditService(audits, fixedNow, nil)

	got, err := svc.Record(context.Background(), models.Audit{URI: "/v1/establishment/AB123", RequestorUsername: "ana"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.Module != AuditModule || !got.AuditDate.Equal(clock) {
		t.Fatalf("audit: %+v", got)
	}
}

func TestRecordQuietlySwallowsFailures(t *testing.T) {
	svc := NewAuditService(&memAudits{err: errors.New("mongo down")}, fixedNow, nil)
	svc.RecordQuietly(context.Background(), models.Audit{URI: "/x"})
}

func TestListPagesNewestFirst(t *testing.T) {
	audits := &memAudits{}
	for i := 0; i < 5; i++ {
		audits.audits = append(audits.audits, models.Audit{
			EstablishmentCuig: "AB123",
			URI:               "/v1/establishment",
			AuditDate:         clock.Add(time.Duration(i) * time.Minute),
		})
	}
	audits.audits = append(audits.audits, models.Audit{EstablishmentCuig: "ZZ999", AuditDate: clock})
	svc := NewAuditService(audits, fixedNow, nil)

	page, err := svc.List(context.Background(), "AB123", 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalElements != 5 || page.TotalPages != 3 || page.CurrentPage != 1 {
		t.Fatalf("page meta: %+v", page)
	}
	if len(page.Audits) != 2 || !page.Audits[0].AuditDate.Equal(clock.Add(2*time.Minute)) {
		t.Fatalf("page content: %+v", page.Audits)
	}

	all, err := svc.List(context.Background(), "", -1, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if all.TotalElements != 6 || all.CurrentPage != 0 || len(all.Audits) != 6 {
		t.Fatalf("defaults: %+v", all)
	}
}
