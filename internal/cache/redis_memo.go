package cache

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rxtech-lab/cuanbot-engine/internal/logger"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"go.uber.org/zap"
)

const defaultRedisTimeout = 2 * time.Second

// RedisMemo shares indicator outputs between processes through Redis.
// Keys embed the full bar range, so a changed series never hits a stale entry.
// Redis failures degrade to cache misses.
type RedisMemo struct {
	client  *goredis.Client
	ttl     time.Duration
	timeout time.Duration
	logger  *logger.Logger
}

func NewRedisMemo(client *goredis.Client, ttl time.Duration, log *logger.Logger) Memo {
	return &RedisMemo{
		client:  client,
		ttl:     ttl,
		timeout: defaultRedisTimeout,
		logger:  log.Named("redis_memo"),
	}
}

// Get implements Memo.
func (r *RedisMemo) Get(key MemoKey) ([]types.Series, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	payload, err := r.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err != goredis.Nil {
			r.logger.Warn("Memo read failed", zap.String("key", key.String()), zap.Error(err))
		}

		return nil, false
	}

	var value []types.Series
	if err := json.Unmarshal(payload, &value); err != nil {
		r.logger.Warn("Memo entry is not valid JSON", zap.String("key", key.String()), zap.Error(err))

		return nil, false
	}

	return value, true
}

// Set implements Memo.
func (r *RedisMemo) Set(key MemoKey, value []types.Series) {
	payload, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("Memo entry could not be encoded", zap.String("key", key.String()), zap.Error(err))

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, key.String(), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("Memo write failed", zap.String("key", key.String()), zap.Error(err))
	}
}

// Reset implements Memo. Only this memo's key space is removed.
func (r *RedisMemo) Reset() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	iter := r.client.Scan(ctx, 0, "cuanbot:indicator:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Warn("Memo delete failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		r.logger.Warn("Memo scan failed", zap.Error(err))
	}
}
