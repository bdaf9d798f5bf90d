package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/service/digest"
	"github.com/mamadbah2/herd-admin/internal/service/reporting"
)

// ReportRoutes maps the public path segment of each report to its type.
var ReportRoutes = []struct {
	Path string
	Type reporting.ReportType
}{
	{"pregnancy", reporting.ReportPregnancy},
	{"disease", reporting.ReportDisease},
	{"weight", reporting.ReportWeight},
	{"batch", reporting.ReportBatch},
	{"feed", reporting.ReportFoodConsumption},
	{"performance", reporting.ReportLiveCost},
	{"live", reporting.ReportLive},
	{"income", reporting.ReportIncome},
}

// ReportComputer computes yearly reports.
type ReportComputer interface {
	ComputeReport(ctx context.Context, reportType reporting.ReportType, yearFrom, yearTo int) (*models.YearlyReport, error)
}

// DigestSender builds and delivers the yearly digest.
type DigestSender interface {
	CurrentYear() int
	Send(ctx context.Context, to string, year int) error
}

// ReportingHandler serves the yearly reports.
type ReportingHandler struct {
	reports ReportComputer
	digest  DigestSender
	logger  *zap.Logger
}

// NewReportingHandler constructs the handler. digest may be nil when no
// WhatsApp credentials are configured.
func NewReportingHandler(reports ReportComputer, digest DigestSender, logger *zap.Logger) *ReportingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportingHandler{reports: reports, digest: digest, logger: logger}
}

type reportDescriptor struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// List describes the available reports.
func (h *ReportingHandler) List(c *gin.Context) {
	out := make([]reportDescriptor, 0, len(ReportRoutes))
	for _, route := range ReportRoutes {
		description, _ := reporting.Description(route.Type)
		out = append(out, reportDescriptor{Path: route.Path, Type: string(route.Type), Description: description})
	}
	c.JSON(http.StatusOK, out)
}

// Report returns a handler computing reportType for the yearFrom/yearTo
// query range.
func (h *ReportingHandler) Report(reportType reporting.ReportType) gin.HandlerFunc {
	return func(c *gin.Context) {
		yearFrom, err := yearParam(c, "yearFrom")
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		yearTo, err := yearParam(c, "yearTo")
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		report, err := h.reports.ComputeReport(c.Request.Context(), reportType, yearFrom, yearTo)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

type digestRequest struct {
	To   string `json:"to"`
	Year int    `json:"year"`
}

// SendDigest sends the yearly digest on demand. The year defaults to the
// current one and the recipient to the configured one.
func (h *ReportingHandler) SendDigest(c *gin.Context) {
	if h.digest == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorBody{
			Error:   http.StatusText(http.StatusServiceUnavailable),
			Message: "digest delivery is not configured",
		})
		return
	}

	var req digestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	if req.Year == 0 {
		req.Year = h.digest.CurrentYear()
	}

	if err := h.digest.Send(c.Request.Context(), req.To, req.Year); err != nil {
		if errors.Is(err, digest.ErrNoRecipient) {
			badRequest(c, err.Error())
			return
		}
		h.logger.Error("failed sending digest", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, errorBody{Error: http.StatusText(http.StatusBadGateway), Message: "unable to send digest"})
		return
	}
	c.Status(http.StatusAccepted)
}

func yearParam(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return models.UnboundedYear, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer year")
	}
	return year, nil
}
