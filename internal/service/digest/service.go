// Package digest renders the yearly reports as a plain text summary and
// delivers it over WhatsApp.
package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/service/reporting"
	"github.com/mamadbah2/herd-admin/pkg/clients/upstream"
	"github.com/mamadbah2/herd-admin/pkg/clients/whatsapp"
)

const unavailable = "no disponible"

// ErrNoRecipient is returned when a digest has nowhere to go.
var ErrNoRecipient = errors.New("digest recipient not configured")

// Reporter computes one yearly report.
type Reporter interface {
	ComputeReport(ctx context.Context, reportType reporting.ReportType, yearFrom, yearTo int) (*models.YearlyReport, error)
}

// Options configures a Service.
type Options struct {
	Recipient    string
	ServiceToken string
	Location     *time.Location
}

// Service builds and sends yearly digests.
type Service struct {
	reporter Reporter
	sender   whatsapp.Client
	opts     Options
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires a digest service.
func NewService(reporter Reporter, sender whatsapp.Client, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Service{reporter: reporter, sender: sender, opts: opts, now: time.Now, logger: logger}
}

// CurrentYear is the year a scheduled digest covers.
func (s *Service) CurrentYear() int {
	return models.YearIn(s.now(), s.opts.Location)
}

// Build renders every report restricted to year. Reports that fail are
// listed as unavailable.
func (s *Service) Build(ctx context.Context, year int) string {
	if upstream.AuthToken(ctx) == "" && s.opts.ServiceToken != "" {
		ctx = upstream.WithAuthToken(ctx, s.opts.ServiceToken)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Resumen anual %d*\n", year)

	for _, reportType := range reporting.ReportTypes() {
		description, _ := reporting.Description(reportType)
		fmt.Fprintf(&b, "\n*%s*\n", description)

		report, err := s.reporter.ComputeReport(ctx, reportType, year, year)
		if err != nil {
			s.logger.Warn("digest section unavailable",
				zap.String("report", string(reportType)),
				zap.Error(err))
			b.WriteString(unavailable + "\n")
			continue
		}
		if len(report.Reported) == 0 {
			b.WriteString("sin datos\n")
			continue
		}
		for _, row := range report.Reported {
			b.WriteString("- " + formatRow(row) + "\n")
		}
	}
	return b.String()
}

// Send builds the digest for year and delivers it to to, or to the
// configured recipient when to is empty.
func (s *Service) Send(ctx context.Context, to string, year int) error {
	if to == "" {
		to = s.opts.Recipient
	}
	if to == "" {
		return ErrNoRecipient
	}

	body := s.Build(ctx, year)
	resp, err := s.sender.SendTextMessage(ctx, whatsapp.SendTextMessageRequest{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	messageID := ""
	if resp != nil && len(resp.Messages) > 0 {
		messageID = resp.Messages[0].ID
	}
	s.logger.Info("digest sent",
		zap.Int("year", year),
		zap.String("message_id", messageID))
	return nil
}

func formatRow(row models.Reported) string {
	switch r := row.(type) {
	case models.Pregnancy:
		return fmt.Sprintf("%d: %.2f%% preñadas", r.Year, r.Percentage)
	case models.Disease:
		return fmt.Sprintf("%d %s: %d infecciones", r.Year, r.Name, r.Infections)
	case models.Weight:
		return fmt.Sprintf("%d %s: %d kg", r.Year, r.Category, r.Weight)
	case models.BatchWeight:
		return fmt.Sprintf("%d %s: %d kg", r.Year, r.BatchName, r.Weight)
	case models.FoodConsumption:
		return fmt.Sprintf("%d %s: %d", r.Year, r.Category, r.FoodEaten)
	case models.LiveCost:
		if r.LiveWeight == 0 {
			return fmt.Sprintf("%d: gasto %d, sin peso registrado", r.Year, r.Spending)
		}
		return fmt.Sprintf("%d: gasto %d, peso %d kg, costo %.3f por kg", r.Year, r.Spending, r.LiveWeight, r.Cost)
	case models.Live:
		return fmt.Sprintf("%d %s: %d animales", r.Year, r.Category, r.Count)
	case models.Income:
		return fmt.Sprintf("%d: ingresos %d, gastos %d", r.Year, r.Earnings, r.Spending)
	default:
		return fmt.Sprintf("%d: %+v", row.ReportYear(), row)
	}
}
