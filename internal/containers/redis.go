package containers

import (
	"context"
	"errors"
	"fmt"
	"log"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/vlatan/video-notes/internal/config"
)

const redisImage = "redis:8.0.3"

// Redis is a disposable Redis server for a test package
type Redis struct {
	container *tcredis.RedisContainer
}

// StartRedis runs a Redis container and points the config's
// Redis host and port at it
func StartRedis(ctx context.Context, cfg *config.Config) (*Redis, error) {

	container, err := tcredis.Run(ctx, redisImage)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	r := &Redis{container}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, r.abort(ctx, fmt.Errorf("failed to get container host: %w", err))
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return nil, r.abort(ctx, fmt.Errorf("failed to get container port: %w", err))
	}

	cfg.RedisHost = host
	cfg.RedisPort = port.Int()

	return r, nil
}

// Terminate stops and removes the container
func (r *Redis) Terminate(ctx context.Context) {
	if err := r.container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate redis container: %v", err)
	}
}

// abort removes a half started container
func (r *Redis) abort(ctx context.Context, err error) error {
	if tErr := r.container.Terminate(ctx); tErr != nil {
		return errors.Join(err, tErr)
	}
	return err
}
