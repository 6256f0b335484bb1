package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "time/tzdata" // embed the timezone database into the binary

	"github.com/redis/go-redis/v9"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/drivers/rdb"
)

var (
	ErrDailyLimitReached  = errors.New("gemini daily limit reached")
	ErrMinuteLimitReached = errors.New("gemini minute limit reached")
)

// Both buckets are checked before either is incremented,
// so a rejected request costs nothing.
// Returns 0 on success, 1 for the daily and 2 for the minute limit.
var acquireScript = redis.NewScript(`
local day = tonumber(redis.call("get", KEYS[1]) or "0")
if day >= tonumber(ARGV[1]) then
	return 1
end
local minute = tonumber(redis.call("get", KEYS[2]) or "0")
if minute >= tonumber(ARGV[2]) then
	return 2
end
redis.call("incr", KEYS[1])
redis.call("pexpire", KEYS[1], ARGV[3])
redis.call("incr", KEYS[2])
redis.call("pexpire", KEYS[2], ARGV[4])
return 0
`)

// Limiter keeps the Gemini requests within the free tier budget.
// Counters live in Redis so every app instance shares them.
// The daily bucket resets at midnight in the configured timezone.
type Limiter struct {
	cfg *config.Config
	rdb *rdb.Service
	loc *time.Location
	now func() time.Time
}

// NewLimiter creates new Gemini limiter
func NewLimiter(cfg *config.Config, rdb *rdb.Service) (*Limiter, error) {
	loc, err := time.LoadLocation(cfg.GeminiTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid Gemini timezone %q; %w", cfg.GeminiTimezone, err)
	}

	return &Limiter{cfg: cfg, rdb: rdb, loc: loc, now: time.Now}, nil
}

// AcquireQuota consumes one request from the daily and the minute bucket.
// It returns ErrDailyLimitReached or ErrMinuteLimitReached when a bucket is full.
func (gl *Limiter) AcquireQuota(ctx context.Context) error {

	now := gl.now().In(gl.loc)
	dayKey, minuteKey := gl.keys(now)

	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, gl.loc)

	res, err := acquireScript.Run(
		ctx, gl.rdb.Client,
		[]string{dayKey, minuteKey},
		gl.cfg.GeminiRPD,
		gl.cfg.GeminiRPM,
		midnight.Sub(now).Milliseconds(),
		(65 * time.Second).Milliseconds(), // a bit over the minute
	).Int()

	if err != nil {
		return fmt.Errorf("gemini limiter: %w", err)
	}

	switch res {
	case 1:
		return fmt.Errorf("%w (%d RPD)", ErrDailyLimitReached, gl.cfg.GeminiRPD)
	case 2:
		return fmt.Errorf("%w (%d RPM)", ErrMinuteLimitReached, gl.cfg.GeminiRPM)
	}

	return nil
}

// Exhausted reports whether today's budget is used up
func (gl *Limiter) Exhausted(ctx context.Context) bool {
	dayKey, _ := gl.keys(gl.now().In(gl.loc))
	used, err := gl.rdb.Client.Get(ctx, dayKey).Int64()
	return err == nil && used >= gl.cfg.GeminiRPD
}

// keys returns the daily and the per-minute counter keys for the model
func (gl *Limiter) keys(now time.Time) (string, string) {
	prefix := "gemini:" + gl.cfg.GeminiModel
	return prefix + ":rpd:" + now.Format(time.DateOnly),
		prefix + ":rpm:" + now.Format("2006-01-02T15:04")
}

// isLimit reports whether err comes from a full bucket
func isLimit(err error) bool {
	return errors.Is(err, ErrDailyLimitReached) || errors.Is(err, ErrMinuteLimitReached)
}
