package upstream

import (
	"context"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/config"
	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

// EconomicClient queries the economic service.
type EconomicClient struct {
	baseClient
}

// NewEconomicClient builds a client for cfg.EconomicURL.
func NewEconomicClient(cfg config.UpstreamConfig, logger *zap.Logger) *EconomicClient {
	return &EconomicClient{baseClient: newBaseClient("economic", cfg.EconomicURL, cfg.Timeout, logger)}
}

// GetSupply fetches a supply by name. A missing supply is reported as a
// RemoteError since prices are required to value operations.
func (c *EconomicClient) GetSupply(ctx context.Context, name string) (*models.Supply, error) {
	out := new(models.Supply)
	resp, err := c.request(ctx).
		SetPathParam("name", name).
		SetResult(out).
		Get("supply/{name}")
	if err := c.check("get supply", resp, err, false); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSupplyOperations returns every supply operation visible to the caller.
func (c *EconomicClient) ListSupplyOperations(ctx context.Context) ([]models.SupplyOperation, error) {
	var out []models.SupplyOperation
	resp, err := c.request(ctx).
		SetQueryParam("size", fullPageSize).
		SetResult(&out).
		Get("supply-operations/list")
	if err := c.check("list supply operations", resp, err, false); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBovineOperations returns every bovine operation visible to the caller.
func (c *EconomicClient) ListBovineOperations(ctx context.Context) ([]models.BovineOperation, error) {
	var out []models.BovineOperation
	resp, err := c.request(ctx).
		SetQueryParam("size", fullPageSize).
		SetResult(&out).
		Get("bovine-operations/list")
	if err := c.check("list bovine operations", resp, err, false); err != nil {
		return nil, err
	}
	return out, nil
}
