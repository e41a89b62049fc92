package imagestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores images as plain string keys without expiry.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, id int64) (string, bool, error) {
	val, err := r.client.Get(ctx, Key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", Key(id), err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, id int64, image string) error {
	if image == "" {
		return nil
	}
	if err := r.client.Set(ctx, Key(id), image, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", Key(id), err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, id int64) error {
	if err := r.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", Key(id), err)
	}
	return nil
}

func (r *Redis) String() string { return "redis" }
