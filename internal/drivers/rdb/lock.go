package rdb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	minPoll = 25 * time.Millisecond
	maxPoll = 500 * time.Millisecond
)

var ErrLockNotHeld = errors.New("lock expired or held by someone else")

// Delete the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Lock is a mutex over a single Redis key.
// The TTL bounds how long a crashed holder can block the others.
type Lock struct {
	client *redis.Client
	key    string
	token  string // unique to this holder
	ttl    time.Duration
}

// NewLock creates an unacquired lock on key
func (rs *Service) NewLock(key string, ttl time.Duration) *Lock {
	return &Lock{
		client: rs.Client,
		key:    key,
		token:  uuid.NewString(),
		ttl:    ttl,
	}
}

// Acquire blocks until the lock is taken or the context is done.
// The poll interval doubles up to maxPoll between attempts.
func (l *Lock) Acquire(ctx context.Context) error {

	poll := minPoll
	for {
		ok, err := l.TryAcquire(ctx)
		if err != nil {
			return err
		}

		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}

		poll = min(2*poll, maxPoll)
	}
}

// TryAcquire makes a single attempt to take the lock
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
}

// Release frees the lock if this holder still owns it.
// It returns ErrLockNotHeld when the lock has expired or was taken over.
func (l *Lock) Release(ctx context.Context) error {

	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrLockNotHeld
	}

	return nil
}
