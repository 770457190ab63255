// Package cache holds recently served icons in Redis.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/server/config"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "lingobook:icon:"

const (
	fieldContentType = "content_type"
	fieldData        = "data"
	fieldCreatedAt   = "created_at"
)

// RedisIconCache stores each icon as a hash with a TTL.
type RedisIconCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisIconCache connects and pings the server.
func NewRedisIconCache(ctx context.Context, cfg *config.Config) (*RedisIconCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisIconCache{rdb: rdb, ttl: cfg.IconCacheTTL}, nil
}

func (c *RedisIconCache) Get(ctx context.Context, filename string) (*models.IconBlob, bool, error) {
	fields, err := c.rdb.HGetAll(ctx, keyPrefix+filename).Result()
	if err != nil {
		return nil, false, err
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	nanos, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("icon %s: bad %s: %w", filename, fieldCreatedAt, err)
	}
	return &models.IconBlob{
		ContentType: fields[fieldContentType],
		Data:        []byte(fields[fieldData]),
		CreatedAt:   time.Unix(0, nanos).UTC(),
	}, true, nil
}

func (c *RedisIconCache) Set(ctx context.Context, filename string, blob *models.IconBlob) error {
	key := keyPrefix + filename
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, key,
			fieldContentType, blob.ContentType,
			fieldData, blob.Data,
			fieldCreatedAt, strconv.FormatInt(blob.CreatedAt.UnixNano(), 10),
		)
		if c.ttl > 0 {
			p.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	return err
}

func (c *RedisIconCache) Close() error {
	return c.rdb.Close()
}
