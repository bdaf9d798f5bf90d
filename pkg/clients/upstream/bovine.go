package upstream

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/config"
	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

// BovineClient queries the bovine service.
type BovineClient struct {
	baseClient
}

// NewBovineClient builds a client for cfg.BovineURL.
func NewBovineClient(cfg config.UpstreamConfig, logger *zap.Logger) *BovineClient {
	return &BovineClient{baseClient: newBaseClient("bovine", cfg.BovineURL, cfg.Timeout, logger)}
}

// GetBovine fetches one bovine by tag. It returns ErrNotFound when the tag is
// unknown.
func (c *BovineClient) GetBovine(ctx context.Context, tag string) (*models.Bovine, error) {
	out := new(models.Bovine)
	resp, err := c.request(ctx).
		SetPathParam("tag", tag).
		SetResult(out).
		Get("bovines/{tag}")
	if err := c.check("get bovine", resp, err, true); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBovines returns every bovine visible to the caller.
func (c *BovineClient) ListBovines(ctx context.Context) ([]models.Bovine, error) {
	var out []models.Bovine
	resp, err := c.request(ctx).
		SetQueryParam("size", fullPageSize).
		SetResult(&out).
		Get("bovines/search")
	if err := c.check("list bovines", resp, err, false); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBatches returns every batch visible to the caller.
func (c *BovineClient) ListBatches(ctx context.Context) ([]models.Batch, error) {
	var out []models.Batch
	resp, err := c.request(ctx).
		SetResult(&out).
		Get("batches/list")
	if err := c.check("list batches", resp, err, true); err != nil {
		return emptyOnNotFound[models.Batch](err)
	}
	return out, nil
}

// ListBovinesByTags resolves a set of tags into bovines. Unknown tags are
// omitted by the remote service.
func (c *BovineClient) ListBovinesByTags(ctx context.Context, tags []string) ([]models.Bovine, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	var out []models.Bovine
	resp, err := c.request(ctx).
		SetBody(tags).
		SetResult(&out).
		Post("bovines/list")
	if err := c.check("list bovines by tags", resp, err, true); err != nil {
		return emptyOnNotFound[models.Bovine](err)
	}
	return out, nil
}

// emptyOnNotFound treats a 404 on a list endpoint as an empty list.
func emptyOnNotFound[T any](err error) ([]T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return nil, err
}
