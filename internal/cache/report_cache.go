// backend-go/internal/cache/report_cache.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wkassem/makhzan/backend-go/internal/config"
	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

const (
	movementReportKeyPrefix = "movement_report"
	reportScanBatchSize     = 100
)

// ReportCache holds recently computed movement reports, keyed by a normalized
// filter hash. The ledger is cheap to rebuild, so entries are short-lived and
// any write path may blow the whole prefix away.
type ReportCache interface {
	GetReport(ctx context.Context, filter domain.MovementFilter) (*domain.MovementReport, bool, error)
	SetReport(ctx context.Context, filter domain.MovementFilter, report *domain.MovementReport) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetReport(ctx context.Context, filter domain.MovementFilter) (*domain.MovementReport, bool, error) {
	key := buildReportKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.MovementReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode movement report cache: %w", err)
	}

	return &report, true, nil
}

func (c *redisReportCache) SetReport(ctx context.Context, filter domain.MovementFilter, report *domain.MovementReport) error {
	key := buildReportKey(filter)
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode movement report cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, movementReportKeyPrefix, reportScanBatchSize)
}

func (n *noopReportCache) GetReport(ctx context.Context, filter domain.MovementFilter) (*domain.MovementReport, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetReport(ctx context.Context, filter domain.MovementFilter, report *domain.MovementReport) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(filter domain.MovementFilter) string {
	return fmt.Sprintf("%s:%s", movementReportKeyPrefix, filterHash(filter))
}

func filterHash(filter domain.MovementFilter) string {
	parts := []string{}

	if filter.StartDate != nil {
		parts = append(parts, "start="+filter.StartDate.Format(time.RFC3339))
	}
	if filter.EndDate != nil {
		parts = append(parts, "end="+filter.EndDate.Format(time.RFC3339))
	}
	if filter.Period != "" {
		parts = append(parts, "period="+strings.ToLower(strings.TrimSpace(filter.Period)))
	}
	if filter.Search != "" {
		parts = append(parts, "search="+strings.ToLower(strings.TrimSpace(filter.Search)))
	}
	if len(filter.BranchNames) > 0 {
		parts = append(parts, "branches="+joinStrings(filter.BranchNames))
	}
	if len(filter.Statuses) > 0 {
		parts = append(parts, "statuses="+joinStrings(filter.Statuses))
	}
	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		parts = append(parts, "types="+joinStrings(types))
	}
	if len(filter.ProductIDs) > 0 {
		parts = append(parts, "products="+joinStrings(filter.ProductIDs))
	}
	if len(filter.Categories) > 0 {
		parts = append(parts, "categories="+joinStrings(filter.Categories))
	}
	if len(filter.Locations) > 0 {
		parts = append(parts, "locations="+joinStrings(filter.Locations))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func joinStrings(values []string) string {
	c := append([]string(nil), values...)
	for i := range c {
		c[i] = strings.TrimSpace(strings.ToLower(c[i]))
	}
	sort.Strings(c)
	return strings.Join(c, ",")
}
