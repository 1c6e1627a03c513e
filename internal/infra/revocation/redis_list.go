// Package revocation stores the ids of logged-out tokens until they expire.
package revocation

import (
	"context"
	"log/slog"
	"time"

	"thalassist/config"
	"thalassist/internal/domain/lifecycle"
	"thalassist/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// revokedTokenKeyPrefix namespaces revoked token ids in Redis.
const revokedTokenKeyPrefix = "trl:jti:"

// redisList is a Redis-backed TokenRevocationList shared by every instance.
// Keys expire with the token so the list never grows past the live tokens.
type redisList struct {
	client *redis.Client
}

// NewRedisList wraps an existing client.
func NewRedisList(client *redis.Client) repository.TokenRevocationList {
	return &redisList{client: client}
}

// Revoke marks jti as revoked until ttl elapses.
func (l *redisList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}

	return errors.WithStack(l.client.Set(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Err())
}

// RevokeOnce revokes jti with SET NX so only the first caller wins.
func (l *redisList) RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" || ttl <= 0 {
		return false, nil
	}

	claimed, err := l.client.SetNX(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to revoke token")
	}

	return claimed, nil
}

// IsRevoked reports whether jti is still on the list.
func (l *redisList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	_, err := l.client.Get(ctx, revokedTokenKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to check token revocation")
	}

	return true, nil
}

// Params defines the dependencies of the revocation list provider.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New returns a Redis list when redis is configured and an in-process list otherwise.
func New(params Params) repository.TokenRevocationList {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Addr == "" {
		params.Logger.Info("Redis not configured, using in-memory token revocation list")

		return NewMemoryList(time.Now)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}
			params.Logger.Info("Connected to Redis", slog.String("addr", cfg.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewRedisList(client)
}
