package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/server/handlers"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Reporting      *handlers.ReportingHandler
	Establishments *handlers.EstablishmentHandler
	Subscriptions  *handlers.SubscriptionHandler
	Audits         *handlers.AuditHandler
	// Webhook is optional; the WhatsApp routes are only mounted when set.
	Webhook *handlers.WebhookHandler
}

// Deps are the collaborators of the middlewares.
type Deps struct {
	Auditor AuditRecorder
	Store   Pinger
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, deps Deps, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(authTokenMiddleware())

	r.GET("/healthz", healthz(deps.Store))

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
	}

	v1 := r.Group("/v1")

	reports := v1.Group("/reporting")
	reports.GET("", h.Reporting.List)
	for _, route := range handlers.ReportRoutes {
		reports.GET("/"+route.Path, h.Reporting.Report(route.Type))
	}
	reports.POST("/digest", h.Reporting.SendDigest)

	admin := v1.Group("")
	admin.Use(auditMiddleware(deps.Auditor))

	establishments := admin.Group("/establishment")
	establishments.POST("/", h.Establishments.Register)
	establishments.GET("/list", h.Establishments.List)
	establishments.GET("/validate/:cuig", h.Establishments.Validate)
	establishments.GET("/:cuig", h.Establishments.Get)
	establishments.PUT("/:cuig", h.Establishments.Update)
	establishments.DELETE("/:cuig", h.Establishments.Delete)
	establishments.POST("/:cuig/subscription", h.Establishments.AddSubscription)
	establishments.GET("/:cuig/subscriptions", h.Establishments.Subscriptions)

	subscriptions := admin.Group("/subscription")
	subscriptions.POST("/", h.Subscriptions.Register)
	subscriptions.GET("/validate/:name", h.Subscriptions.Validate)
	subscriptions.GET("/:name", h.Subscriptions.Get)
	subscriptions.PUT("/:name", h.Subscriptions.Update)
	subscriptions.DELETE("/:name", h.Subscriptions.Invalidate)

	audits := v1.Group("/audit")
	audits.POST("/", h.Audits.Record)
	audits.GET("/list", h.Audits.List)

	logger.Info("router initialized")

	return r
}

func healthz(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongodb": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
