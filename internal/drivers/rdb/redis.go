// Package rdb wraps the Redis client shared by the session store,
// the result cache, the pipeline locks and the Gemini limiter.
package rdb

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vlatan/video-notes/internal/config"
)

type Service struct {
	Client *redis.Client
}

// HealthStatus is the Redis part of the health report
type HealthStatus struct {
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	ResponseMs int64  `json:"response_ms"`
	Keys       int64  `json:"total_keys"`
	UsedMemory string `json:"used_memory,omitempty"`
}

// New creates a Redis client from the config.
// It doesn't connect, the first command does.
func New(cfg *config.Config) (*Service, error) {

	if cfg == nil {
		return nil, errors.New("unable to create Redis service with nil config")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &Service{client}, nil
}

// Close closes the client's connection pool
func (rs *Service) Close() error {
	return rs.Client.Close()
}

// Health pings Redis and reports the key count and memory usage
func (rs *Service) Health(ctx context.Context) HealthStatus {

	start := time.Now()
	if err := rs.Client.Ping(ctx).Err(); err != nil {
		return HealthStatus{Status: "unhealthy", Error: err.Error()}
	}

	status := HealthStatus{
		Status:     "healthy",
		ResponseMs: time.Since(start).Milliseconds(),
	}

	status.Keys, _ = rs.Client.DBSize(ctx).Result()

	if info, err := rs.Client.Info(ctx, "memory").Result(); err == nil {
		status.UsedMemory = infoField(info, "used_memory_human")
	}

	return status
}

// infoField picks one "name:value" line out of an INFO reply
func infoField(info, name string) string {
	scanner := bufio.NewScanner(strings.NewReader(info))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if ok && key == name {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
