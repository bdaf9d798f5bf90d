package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/service/establishments"
)

// AuditService records and lists audits.
type AuditService interface {
	Record(ctx context.Context, audit models.Audit) (*models.Audit, error)
	RecordQuietly(ctx context.Context, audit models.Audit)
	List(ctx context.Context, cuig string, page, size int64) (*establishments.AuditPage, error)
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	svc    AuditService
	logger *zap.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(svc AuditService, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{svc: svc, logger: logger}
}

func (h *AuditHandler) Record(c *gin.Context) {
	var req models.Audit
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	out, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// List pages through audits with ?cuig=&page=&size= and reports paging in
// the total-elements, total-pages and current-page headers.
func (h *AuditHandler) List(c *gin.Context) {
	page, err := int64Query(c, "page", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	size, err := int64Query(c, "size", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	out, err := h.svc.List(c.Request.Context(), c.Query("cuig"), page, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("total-elements", strconv.FormatInt(out.TotalElements, 10))
	c.Header("total-pages", strconv.FormatInt(out.TotalPages, 10))
	c.Header("current-page", strconv.FormatInt(out.CurrentPage, 10))
	c.JSON(http.StatusOK, out.Audits)
}

func int64Query(c *gin.Context, name string, fallback int64) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}
