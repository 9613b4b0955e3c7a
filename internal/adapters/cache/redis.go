package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "livevalue:cache:"

// Redis es una ResponseCache sobre redis. El TTL lo aplica redis con EX,
// así que PurgeExpired no tiene trabajo que hacer.
// Los errores de redis se registran y se tratan como miss.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis crea la cache y verifica la conexión con un PING.
func NewRedis(ctx context.Context, client *redis.Client, ttl time.Duration) (*Redis, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Get devuelve el payload cacheado si sigue vivo.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("redis cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

// Put guarda el payload con expiración ttl.
func (r *Redis) Put(ctx context.Context, key string, payload []byte) {
	if err := r.client.Set(ctx, redisKeyPrefix+key, payload, r.ttl).Err(); err != nil {
		slog.Debug("redis cache put failed", "key", key, "err", err)
	}
}

// PurgeExpired es un no-op: redis expira las claves solo.
func (r *Redis) PurgeExpired(_ context.Context) int {
	return 0
}

// Len cuenta las claves bajo el prefijo de la cache.
func (r *Redis) Len(ctx context.Context) int {
	n := 0
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		slog.Debug("redis cache scan failed", "err", err)
	}
	return n
}

// Close cierra el cliente de redis.
func (r *Redis) Close() error {
	return r.client.Close()
}
