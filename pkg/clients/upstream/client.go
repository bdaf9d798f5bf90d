package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-Id"
)

// ErrNotFound is returned by single-entity lookups when the remote service
// answers 404.
var ErrNotFound = errors.New("upstream entity not found")

// RemoteError describes a failed call to an upstream service: a transport
// error, a non-2xx reply or an undecodable payload.
type RemoteError struct {
	Service    string
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status=%d, message=%s", e.Service, e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Service, e.Operation, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// errorResponse is the error payload returned by the platform services.
type errorResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type authTokenKey struct{}

// WithAuthToken returns a context carrying the caller's token. Every upstream
// call made with that context forwards it as the Authorization header.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, authTokenKey{}, token)
}

// AuthToken returns the token stored by WithAuthToken.
func AuthToken(ctx context.Context) string {
	token, _ := ctx.Value(authTokenKey{}).(string)
	return token
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the id of the inbound request so
// upstream calls can be correlated with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type baseClient struct {
	service    string
	httpClient *resty.Client
	logger     *zap.Logger
}

func newBaseClient(service, baseURL string, timeout time.Duration, logger *zap.Logger) baseClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return baseClient{service: service, httpClient: restyClient, logger: logger}
}

func (c *baseClient) request(ctx context.Context) *resty.Request {
	req := c.httpClient.R().SetContext(ctx)
	if token := AuthToken(ctx); token != "" {
		req.SetHeader(authorizationHeader, token)
	}
	if id := RequestID(ctx); id != "" {
		req.SetHeader(requestIDHeader, id)
	}
	return req
}

// check turns the outcome of a resty call into the package errors. When
// notFound is true a 404 reply maps to ErrNotFound.
func (c *baseClient) check(operation string, resp *resty.Response, err error, notFound bool) error {
	if err != nil {
		return &RemoteError{Service: c.service, Operation: operation, Message: err.Error(), Err: err}
	}

	c.logger.Debug("upstream call completed",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()))

	if !resp.IsError() {
		return nil
	}

	if notFound && resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}

	return &RemoteError{
		Service:    c.service,
		Operation:  operation,
		StatusCode: resp.StatusCode(),
		Message:    remoteMessage(resp),
	}
}

func remoteMessage(resp *resty.Response) string {
	body := resp.Body()
	var payload errorResponse
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode())
}
