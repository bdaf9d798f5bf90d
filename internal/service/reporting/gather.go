package reporting

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/herd-admin/pkg/clients/upstream"
)

// lookupAll resolves every key concurrently, at most limit calls at a time.
// Keys whose lookup returns upstream.ErrNotFound are absent from the result.
// The first other failure cancels the remaining lookups and is returned.
func lookupAll[T any](ctx context.Context, limit int, keys []string, fetch func(context.Context, string) (T, error)) (map[string]T, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]T, len(keys))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, key := range keys {
		g.Go(func() error {
			value, err := fetch(gctx, key)
			if errors.Is(err, upstream.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}

			mu.Lock()
			out[key] = value
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// distinct returns the non-blank values produced by key, in first-seen order.
func distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	var keys []string
	for _, item := range items {
		k := key(item)
		if strings.TrimSpace(k) == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// both runs two independent fetches concurrently.
func both(ctx context.Context, first, second func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return first(gctx) })
	g.Go(func() error { return second(gctx) })
	return g.Wait()
}
