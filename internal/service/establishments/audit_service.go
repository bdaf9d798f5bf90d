package establishments

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/repository"
)

// AuditModule tags the audits written by this service.
const AuditModule = "administration"

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 200
)

// AuditPage is one page of audit entries.
type AuditPage struct {
	Audits        []models.Audit
	TotalElements int64
	TotalPages    int64
	CurrentPage   int64
}

// AuditService records and lists request audits.
type AuditService struct {
	audits repository.AuditRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewAuditService wires the service. now may be nil.
func NewAuditService(audits repository.AuditRepository, now func() time.Time, logger *zap.Logger) *AuditService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{audits: audits, now: now, logger: logger}
}

// Record stores an audit entry, stamping the date and module when missing.
func (s *AuditService) Record(ctx context.Context, audit models.Audit) (*models.Audit, error) {
	if audit.AuditDate.IsZero() {
		audit.AuditDate = s.now()
	}
	if audit.Module == "" {
		audit.Module = AuditModule
	}
	if err := s.audits.Insert(ctx, &audit); err != nil {
		return nil, err
	}
	return &audit, nil
}

// RecordQuietly stores an audit entry and only logs failures.
func (s *AuditService) RecordQuietly(ctx context.Context, audit models.Audit) {
	if _, err := s.Record(ctx, audit); err != nil {
		s.logger.Warn("failed to store audit",
			zap.String("uri", audit.URI),
			zap.String("requestor", audit.RequestorUsername),
			zap.Error(err))
	}
}

// List returns one page of audits, newest first. An empty cuig lists every
// establishment.
func (s *AuditService) List(ctx context.Context, cuig string, page, size int64) (*AuditPage, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = defaultAuditPageSize
	}
	if size > maxAuditPageSize {
		size = maxAuditPageSize
	}

	audits, total, err := s.audits.List(ctx, cuig, page, size)
	if err != nil {
		return nil, err
	}

	return &AuditPage{
		Audits:        audits,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
		CurrentPage:   page,
	}, nil
}
