package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

// SubscriptionTypeService is the subscription plan use case surface.
type SubscriptionTypeService interface {
	Register(ctx context.Context, subscriptionType models.SubscriptionType) (*models.SubscriptionType, error)
	Get(ctx context.Context, name string) (*models.SubscriptionType, error)
	Update(ctx context.Context, name string, changes models.SubscriptionType) (*models.SubscriptionType, error)
	Invalidate(ctx context.Context, name string) (*models.SubscriptionType, error)
	Validate(ctx context.Context, name string) (*models.SubscriptionType, error)
}

// SubscriptionHandler serves subscription plans.
type SubscriptionHandler struct {
	svc    SubscriptionTypeService
	logger *zap.Logger
}

// NewSubscriptionHandler constructs the handler.
func NewSubscriptionHandler(svc SubscriptionTypeService, logger *zap.Logger) *SubscriptionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionHandler{svc: svc, logger: logger}
}

type subscriptionTypeChanges struct {
	Price       int64  `json:"price"`
	Duration    int64  `json:"duration"`
	Description string `json:"description"`
}

func (h *SubscriptionHandler) Register(c *gin.Context) {
	var req models.SubscriptionType
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.respond(c, http.StatusCreated)(h.svc.Register(c.Request.Context(), req))
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.svc.Get(c.Request.Context(), c.Param("name")))
}

func (h *SubscriptionHandler) Update(c *gin.Context) {
	var req subscriptionTypeChanges
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	changes := models.SubscriptionType{Price: req.Price, Duration: req.Duration, Description: req.Description}
	h.respond(c, http.StatusOK)(h.svc.Update(c.Request.Context(), c.Param("name"), changes))
}

// Invalidate expires the current plan; it backs DELETE.
func (h *SubscriptionHandler) Invalidate(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.svc.Invalidate(c.Request.Context(), c.Param("name")))
}

func (h *SubscriptionHandler) Validate(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.svc.Validate(c.Request.Context(), c.Param("name")))
}

func (h *SubscriptionHandler) respond(c *gin.Context, status int) func(*models.SubscriptionType, error) {
	return func(out *models.SubscriptionType, err error) {
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(status, out)
	}
}
