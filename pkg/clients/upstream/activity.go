package upstream

import (
	"context"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/config"
	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

const (
	fullPageSize   = "999"
	recentPageSize = "10"
)

// ActivityClient queries the activity service.
type ActivityClient struct {
	baseClient
}

// NewActivityClient builds a client for cfg.ActivityURL.
func NewActivityClient(cfg config.UpstreamConfig, logger *zap.Logger) *ActivityClient {
	return &ActivityClient{baseClient: newBaseClient("activity", cfg.ActivityURL, cfg.Timeout, logger)}
}

// ListUltrasounds returns every ultrasound visible to the caller.
func (c *ActivityClient) ListUltrasounds(ctx context.Context) ([]models.Ultrasound, error) {
	var out []models.Ultrasound
	resp, err := c.request(ctx).
		SetQueryParam("size", fullPageSize).
		SetBody(map[string]any{}).
		SetResult(&out).
		Post("ultrasounds/search")
	if err := c.check("list ultrasounds", resp, err, false); err != nil {
		return nil, err
	}
	return out, nil
}

// ListWeighings returns every weighing visible to the caller.
func (c *ActivityClient) ListWeighings(ctx context.Context) ([]models.Weighing, error) {
	var out []models.Weighing
	resp, err := c.request(ctx).
		SetQueryParam("size", fullPageSize).
		SetBody(map[string]any{}).
		SetResult(&out).
		Post("weightings/search")
	if err := c.check("list weighings", resp, err, false); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFeedings returns every feeding visible to the caller.
func (c *ActivityClient) ListFeedings(ctx context.Context) ([]models.Feeding, error) {
	var out []models.Feeding
	resp, err := c.request(ctx).
		SetQueryParam("size", fullPageSize).
		SetBody(map[string]any{}).
		SetResult(&out).
		Post("feedings/search")
	if err := c.check("list feedings", resp, err, false); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecentWeighings returns the latest weighings of one bovine.
func (c *ActivityClient) ListRecentWeighings(ctx context.Context, bovineTag string) ([]models.Weighing, error) {
	var out []models.Weighing
	resp, err := c.request(ctx).
		SetQueryParam("size", recentPageSize).
		SetBody(map[string]any{"bovineTag": bovineTag}).
		SetResult(&out).
		Post("weightings/search")
	if err := c.check("list recent weighings", resp, err, false); err != nil {
		return nil, err
	}
	return out, nil
}
