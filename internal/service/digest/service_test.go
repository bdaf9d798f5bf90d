package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/service/reporting"
	"github.com/mamadbah2/herd-admin/pkg/clients/upstream"
	"github.com/mamadbah2/herd-admin/pkg/clients/whatsapp"
)

type stubReporter struct {
	tokens []string
	years  [][2]int
}

func (s *stubReporter) ComputeReport(ctx context.Context, rt reporting.ReportType, from, to int) (*models.YearlyReport, error) {
	s.tokens = append(s.tokens, upstream.AuthToken(ctx))
	s.years = append(s.years, [2]int{from, to})

	switch rt {
	case reporting.ReportIncome:
		return nil, &reporting.UpstreamError{Operation: "list economic operations", Message: "down"}
	case reporting.ReportPregnancy:
		return models.NewYearlyReport(string(rt), "", models.ByYear, []models.Reported{
			models.Pregnancy{Year: from, Percentage: 50},
		}), nil
	case reporting.ReportLiveCost:
		return models.NewYearlyReport(string(rt), "", models.ByYear, []models.Reported{
			models.LiveCost{Year: from, Spending: 14, Cost: -1},
		}), nil
	default:
		return models.NewYearlyReport(string(rt), "", models.ByYear, nil), nil
	}
}

type stubSender struct {
	sent []whatsapp.SendTextMessageRequest
	err  error
}

func (s *stubSender) SendTextMessage(_ context.Context, req whatsapp.SendTextMessageRequest) (*whatsapp.SendTextMessageResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, req)
	return &whatsapp.SendTextMessageResponse{}, nil
}

func TestBuildListsEverySectionAndFailures(t *testing.T) {
	reporter := &stubReporter{}
	svc := NewService(reporter, &stubSender{}, Options{ServiceToken: "Bearer svc"}, nil)

	text := svc.Build(context.Background(), 2024)

	if !strings.HasPrefix(text, "*Resumen anual 2024*") {
		t.Fatalf("header missing:\n%s", text)
	}
	for _, want := range []string{"2024: 50.00% preñadas", "2024: gasto 14, sin peso registrado", unavailable, "sin datos"} {
		if !strings.Contains(text, want) {
			t.Fatalf("digest lacks %q:\n%s", want, text)
		}
	}
	if len(reporter.years) != len(reporting.ReportTypes()) {
		t.Fatalf("reports computed: want=%d got=%d", len(reporting.ReportTypes()), len(reporter.years))
	}
	for i, y := range reporter.years {
		if y != [2]int{2024, 2024} {
			t.Fatalf("range: got %v", y)
		}
		if reporter.tokens[i] != "Bearer svc" {
			t.Fatalf("token: got %q", reporter.tokens[i])
		}
	}
}

func TestBuildKeepsCallerToken(t *testing.T) {
	reporter := &stubReporter{}
	svc := NewService(reporter, &stubSender{}, Options{ServiceToken: "Bearer svc"}, nil)

	svc.Build(upstream.WithAuthToken(context.Background(), "Bearer user"), 2024)
	if reporter.tokens[0] != "Bearer user" {
		t.Fatalf("token: want caller token, got %q", reporter.tokens[0])
	}
}

func TestSendUsesConfiguredRecipient(t *testing.T) {
	sender := &stubSender{}
	svc := NewService(&stubReporter{}, sender, Options{Recipient: "5491100000000"}, nil)

	if err := svc.Send(context.Background(), "", 2023); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "5491100000000" {
		t.Fatalf("sent: %+v", sender.sent)
	}

	if err := svc.Send(context.Background(), "5491199999999", 2023); err != nil {
		t.Fatalf("Send override: %v", err)
	}
	if sender.sent[1].To != "5491199999999" {
		t.Fatalf("override recipient ignored: %+v", sender.sent[1])
	}
}

func TestSendErrors(t *testing.T) {
	svc := NewService(&stubReporter{}, &stubSender{}, Options{}, nil)
	if err := svc.Send(context.Background(), "", 2023); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("want ErrNoRecipient, got %v", err)
	}

	failing := &stubSender{err: errors.New("rejected")}
	svc = NewService(&stubReporter{}, failing, Options{Recipient: "1"}, nil)
	if err := svc.Send(context.Background(), "", 2023); err == nil {
		t.Fatalf("want send error")
	}
}

func TestCurrentYearUsesLocation(t *testing.T) {
	svc := NewService(&stubReporter{}, &stubSender{}, Options{Location: time.FixedZone("ART", -3*3600)}, nil)
	svc.now = func() time.Time { return time.Date(2025, time.January, 1, 1, 0, 0, 0, time.UTC) }
	if got := svc.CurrentYear(); got != 2024 {
		t.Fatalf("year: want=2024 got=%d", got)
	}
}
