package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/pkg/config"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

var _ planning.Locker = (*RedisLocker)(nil)

// retryInterval intervalo entre intentos de obtener el lock.
const retryInterval = 100 * time.Millisecond

// RedisLocker lock distribuido sobre Redis (redislock).
type RedisLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// NewRedisClient conecta con Redis y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewRedisLocker crea el locker. ttl acota la vida del lock si el proceso muere sin liberarlo.
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, log *logger.Logger) *RedisLocker {
	return &RedisLocker{
		locker: redislock.New(rdb),
		ttl:    ttl,
		wait:   wait,
		log:    log.Component("lock"),
	}
}

// Obtain reintenta con backoff lineal hasta agotar la espera configurada.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(), error) {
	retries := int(l.wait / retryInterval)
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), retries),
	}
	lk, err := l.locker.Obtain(ctx, key, l.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", domain.ErrLocked, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}
	return func() {
		// ctx puede estar cancelado al liberar
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock")
		}
	}, nil
}
