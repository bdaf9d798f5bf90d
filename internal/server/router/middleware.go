package router

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/pkg/clients/upstream"
)

const (
	headerRequestID = "X-Request-Id"
	headerUserName  = "X-User-Name"
	headerUserRole  = "X-User-Role"
	headerCuig      = "X-Establishment-Cuig"

	requestIDKey = "request_id"
)

// AuditRecorder stores audit entries without failing the request.
type AuditRecorder interface {
	RecordQuietly(ctx context.Context, audit models.Audit)
}

// requestIDMiddleware tags every request with an id, reusing the caller's.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Request = c.Request.WithContext(upstream.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		}

		switch {
		case status >= 500:
			logger.Error("request completed", fields...)
		case status >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// authTokenMiddleware forwards the caller's Authorization header to the
// upstream services.
func authTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader("Authorization"); token != "" {
			c.Request = c.Request.WithContext(upstream.WithAuthToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

// auditMiddleware records requests made on behalf of a named user.
func auditMiddleware(recorder AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		user := c.GetHeader(headerUserName)
		if recorder == nil || user == "" {
			return
		}

		cuig := c.Param("cuig")
		if cuig == "" {
			cuig = c.GetHeader(headerCuig)
		}

		recorder.RecordQuietly(context.WithoutCancel(c.Request.Context()), models.Audit{
			URI:               c.Request.URL.RequestURI(),
			HTTPMethod:        c.Request.Method,
			ResponseStatus:    strconv.Itoa(c.Writer.Status()),
			RequestorUsername: user,
			Role:              c.GetHeader(headerUserRole),
			EstablishmentCuig: cuig,
			Method:            c.HandlerName(),
			LocalAddress:      c.Request.Host,
		})
	}
}
