package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/tutor-x/pkg/utils/json"
)

// SummaryCacheConfig 班级总结缓存配置。
type SummaryCacheConfig struct {
	// Enabled 是否启用缓存。
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// TTL 缓存过期时间。
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`
	// KeyPrefix 缓存键前缀。
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
}

// DefaultSummaryCacheConfig 返回默认配置（禁用，TTL 10 分钟）。
func DefaultSummaryCacheConfig() *SummaryCacheConfig {
	return &SummaryCacheConfig{
		Enabled:   false,
		TTL:       10 * time.Minute,
		KeyPrefix: "tutor:summary:",
	}
}

// SummaryCache 基于 Redis 的班级总结缓存。Redis 故障只记录日志，调用方按未命中处理。
type SummaryCache struct {
	redis  goredis.UniversalClient
	config *SummaryCacheConfig
}

// NewSummaryCache 创建缓存实例。redis 为 nil 时缓存不生效。
func NewSummaryCache(redis goredis.UniversalClient, config *SummaryCacheConfig) *SummaryCache {
	if config == nil {
		config = DefaultSummaryCacheConfig()
	}
	return &SummaryCache{
		redis:  redis,
		config: config,
	}
}

func (c *SummaryCache) enabled() bool {
	return c != nil && c.config.Enabled && c.redis != nil
}

func (c *SummaryCache) key(classID string) string {
	return c.config.KeyPrefix + classID
}

// Get 读取缓存。未命中、未启用或出错时返回 nil。
func (c *SummaryCache) Get(ctx context.Context, classID string) *ClassSummary {
	if !c.enabled() {
		return nil
	}

	key := c.key(classID)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Warnw("failed to get class summary from cache", "error", err.Error(), "key", key)
		}
		return nil
	}

	var summary ClassSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		logger.Warnw("failed to unmarshal cached class summary", "error", err.Error(), "key", key)
		// 删除损坏的缓存
		_ = c.redis.Del(ctx, key).Err()
		return nil
	}

	logger.Debugw("class summary cache hit", "key", key)
	return &summary
}

// Set 写入缓存。
func (c *SummaryCache) Set(ctx context.Context, summary *ClassSummary) error {
	if !c.enabled() {
		return nil
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal class summary: %w", err)
	}

	key := c.key(summary.ClassID)
	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("failed to cache class summary", "error", err.Error(), "key", key)
		return err
	}
	return nil
}

// Invalidate 删除班级的缓存总结。
func (c *SummaryCache) Invalidate(ctx context.Context, classID string) error {
	if !c.enabled() {
		return nil
	}
	return c.redis.Del(ctx, c.key(classID)).Err()
}
