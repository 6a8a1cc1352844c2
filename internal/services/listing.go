package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/cache"

	"go.uber.org/zap"
)

const (
	categoryListTTL = time.Minute
	defaultListTTL  = 5 * time.Minute
)

// listSource describes one cacheable list.
type listSource[T any] struct {
	entity string
	ttl    time.Duration
	stamp  func(ctx context.Context, f repositories.ListFilter) (models.ListStamp, error)
	load   func(ctx context.Context, f repositories.ListFilter) ([]T, error)
}

// listEntry is what the cache holds: the page plus the stamp it was built against.
type listEntry[T any] struct {
	Stamp models.ListStamp `json:"stamp"`
	Page  models.Page[T]   `json:"page"`
}

// listKey encodes every parameter that shapes the page.
func listKey(entity string, storeID *uint, p models.Pagination) string {
	store := "all"
	if storeID != nil {
		store = fmt.Sprint(*storeID)
	}
	return fmt.Sprintf("%s:list:store=%s:limit=%d:offset=%d", entity, store, p.Limit, p.Offset)
}

// findAllPaginated serves a page from c when its stamp still matches storage.
// It performs at most one cache read and one cache write. A nil c disables caching.
func findAllPaginated[T any](ctx context.Context, c cache.Cache, log *zap.Logger, src listSource[T], storeID *uint, p models.Pagination) (models.Page[T], error) {
	p, err := validatePagination(p)
	if err != nil {
		return models.Page[T]{}, err
	}
	filter := repositories.ListFilter{StoreID: storeID, Limit: p.Limit, Offset: p.Offset}
	log = logger.FromContext(ctx, log)

	stamp, err := src.stamp(ctx, filter)
	if err != nil {
		return models.Page[T]{}, storageFailure(ctx, log, "stamp "+src.entity, err)
	}

	key := listKey(src.entity, storeID, p)
	if c != nil {
		if page, ok := readList[T](ctx, c, log, src.entity, key, stamp); ok {
			return page, nil
		}
	}

	data, err := src.load(ctx, filter)
	if err != nil {
		return models.Page[T]{}, storageFailure(ctx, log, "list "+src.entity, err)
	}
	page := models.NewPage(data, stamp.Total, p)

	if c != nil {
		writeList(ctx, c, log, src.entity, key, src.ttl, listEntry[T]{Stamp: stamp, Page: page})
	}
	return page, nil
}

func readList[T any](ctx context.Context, c cache.Cache, log *zap.Logger, entity, key string, stamp models.ListStamp) (models.Page[T], bool) {
	raw, err := c.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrMiss):
		metrics.RecordCacheLookup(entity, "miss")
		return models.Page[T]{}, false
	case err != nil:
		metrics.RecordCacheLookup(entity, "error")
		log.Warn("list cache read failed", zap.String("key", key), zap.Error(err))
		return models.Page[T]{}, false
	}

	var entry listEntry[T]
	if err := json.Unmarshal(raw, &entry); err != nil {
		metrics.RecordCacheLookup(entity, "error")
		log.Warn("list cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return models.Page[T]{}, false
	}
	if entry.Stamp != stamp {
		metrics.RecordCacheLookup(entity, "stale")
		return models.Page[T]{}, false
	}
	metrics.RecordCacheLookup(entity, "hit")
	return entry.Page, true
}

func writeList[T any](ctx context.Context, c cache.Cache, log *zap.Logger, entity, key string, ttl time.Duration, entry listEntry[T]) {
	raw, err := json.Marshal(entry)
	if err != nil {
		log.Warn("failed to encode list cache entry", zap.String("entity", entity), zap.Error(err))
		return
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		log.Warn("list cache write failed", zap.String("key", key), zap.Error(err))
	}
}
