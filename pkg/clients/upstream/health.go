package upstream

import (
	"context"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/config"
	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

// HealthClient queries the health service.
type HealthClient struct {
	baseClient
}

// NewHealthClient builds a client for cfg.HealthURL.
func NewHealthClient(cfg config.UpstreamConfig, logger *zap.Logger) *HealthClient {
	return &HealthClient{baseClient: newBaseClient("health", cfg.HealthURL, cfg.Timeout, logger)}
}

// ListIllnesses returns every illness episode visible to the caller.
func (c *HealthClient) ListIllnesses(ctx context.Context) ([]models.Illness, error) {
	var out []models.Illness
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{"size": "9999", "page": "0"}).
		SetResult(&out).
		Get("illness/list")
	if err := c.check("list illnesses", resp, err, true); err != nil {
		return emptyOnNotFound[models.Illness](err)
	}
	return out, nil
}
