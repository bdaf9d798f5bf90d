package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

const dateLayout = "2006-01-02"

// EstablishmentService is the establishment use case surface.
type EstablishmentService interface {
	Register(ctx context.Context, establishment models.Establishment) (*models.Establishment, error)
	Get(ctx context.Context, cuig string) (*models.Establishment, error)
	List(ctx context.Context) ([]models.Establishment, error)
	Update(ctx context.Context, cuig string, changes models.Establishment) (*models.Establishment, error)
	Delete(ctx context.Context, cuig string) error
	AddSubscription(ctx context.Context, cuig, typeName string, startingDate *time.Time) (*models.Establishment, error)
	Subscriptions(ctx context.Context, cuig string) ([]models.Subscription, error)
	Validate(ctx context.Context, cuig string) (*models.Subscription, error)
}

// EstablishmentHandler serves establishment administration.
type EstablishmentHandler struct {
	svc    EstablishmentService
	logger *zap.Logger
}

// NewEstablishmentHandler constructs the handler.
func NewEstablishmentHandler(svc EstablishmentService, logger *zap.Logger) *EstablishmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstablishmentHandler{svc: svc, logger: logger}
}

func (h *EstablishmentHandler) Register(c *gin.Context) {
	var req models.Establishment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	out, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *EstablishmentHandler) Get(c *gin.Context) {
	out, err := h.svc.Get(c.Request.Context(), c.Param("cuig"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *EstablishmentHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// establishmentChanges is the partial payload accepted by Update.
type establishmentChanges struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	OwnerUserName string `json:"ownerUserName"`
}

func (h *EstablishmentHandler) Update(c *gin.Context) {
	var req establishmentChanges
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	changes := models.Establishment{
		Name:          req.Name,
		Location:      req.Location,
		Phone:         req.Phone,
		Email:         req.Email,
		OwnerUserName: req.OwnerUserName,
	}
	out, err := h.svc.Update(c.Request.Context(), c.Param("cuig"), changes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *EstablishmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("cuig")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSubscription subscribes the establishment to ?name= from the optional
// ?startingDate= (yyyy-MM-dd).
func (h *EstablishmentHandler) AddSubscription(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		badRequest(c, "name is required")
		return
	}

	var startingDate *time.Time
	if raw := c.Query("startingDate"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			badRequest(c, "startingDate must be formatted as yyyy-MM-dd")
			return
		}
		startingDate = &parsed
	}

	out, err := h.svc.AddSubscription(c.Request.Context(), c.Param("cuig"), name, startingDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *EstablishmentHandler) Subscriptions(c *gin.Context) {
	out, err := h.svc.Subscriptions(c.Request.Context(), c.Param("cuig"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Validate answers 200 with the active subscription or 422.
func (h *EstablishmentHandler) Validate(c *gin.Context) {
	out, err := h.svc.Validate(c.Request.Context(), c.Param("cuig"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
