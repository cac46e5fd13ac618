// Package queue is the Redis-backed FIFO of pending background ticks:
// a session that has no turn currently in flight still has commitments
// and gossip that want to move, so the API enqueues a tick after every
// turn and a worker drains the queue to apply it.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Tick names the session whose world clock should advance.
type Tick struct {
	SessionID  uuid.UUID `json:"session_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Client wraps a Redis connection as both the tick queue (an RPush/BLPop
// list) and the session lock (SetNX), so only one worker at a time
// mutates a given session's GameState.
type Client struct {
	rdb  *redis.Client
	name string
}

func NewClient(redisURL, queueName string) *Client {
	return &Client{
		rdb:  redis.NewClient(&redis.Options{Addr: redisURL}),
		name: queueName,
	}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("queue: ping: %w", err)
	}
	return nil
}

// Enqueue appends a tick request for sessionID to the queue.
func (c *Client) Enqueue(ctx context.Context, sessionID uuid.UUID) error {
	data, err := json.Marshal(Tick{SessionID: sessionID, EnqueuedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("queue: marshal tick: %w", err)
	}
	if err := c.rdb.RPush(ctx, c.name, data).Err(); err != nil {
		return fmt.Errorf("queue: enqueue: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next tick. A nil Tick with a nil
// error means the wait timed out and there is nothing to do.
func (c *Client) Dequeue(ctx context.Context, timeout time.Duration) (*Tick, error) {
	result, err := c.rdb.BLPop(ctx, timeout, c.name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("queue: dequeue: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	var tick Tick
	if err := json.Unmarshal([]byte(result[1]), &tick); err != nil {
		return nil, fmt.Errorf("queue: unmarshal tick: %w", err)
	}
	return &tick, nil
}

func (c *Client) Depth(ctx context.Context) (int64, error) {
	depth, err := c.rdb.LLen(ctx, c.name).Result()
	if err != nil {
		return 0, fmt.Errorf("queue: depth: %w", err)
	}
	return depth, nil
}

func lockKey(sessionID uuid.UUID) string {
	return "session-lock:" + sessionID.String()
}

// AcquireLock returns true if owner now holds the lock for sessionID.
func (c *Client) AcquireLock(ctx context.Context, sessionID uuid.UUID, owner string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, lockKey(sessionID), owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("queue: acquire lock: %w", err)
	}
	return ok, nil
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// ReleaseLock releases sessionID's lock only if owner still holds it.
func (c *Client) ReleaseLock(ctx context.Context, sessionID uuid.UUID, owner string) error {
	if err := releaseScript.Run(ctx, c.rdb, []string{lockKey(sessionID)}, owner).Err(); err != nil {
		return fmt.Errorf("queue: release lock: %w", err)
	}
	return nil
}
