package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps Redis for the two small pieces of shared state this service
// keeps outside Mongo: user presence and the failed-login counter.
type Client struct {
	Cli           *redis.Client
	attemptWindow time.Duration
}

func NewRedis(addr, password string, db int, attemptWindow time.Duration) (*Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{Cli: r, attemptWindow: attemptWindow}, nil
}

func (c *Client) Close() error { return c.Cli.Close() }

func (c *Client) SetPresence(ctx context.Context, userID string, online bool) error {
	key := "presence:" + userID
	val := "0"
	if online {
		val = "1"
	}
	return c.Cli.Set(ctx, key, val, 0).Err()
}

func (c *Client) GetPresence(ctx context.Context, userID string) (bool, error) {
	s, err := c.Cli.Get(ctx, "presence:"+userID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s == "1", nil
}

// IncrLoginFailure bumps the per-email failure counter. The window TTL is
// set on first failure so the counter expires on its own.
func (c *Client) IncrLoginFailure(ctx context.Context, email string) (int64, error) {
	key := "login_attempts:" + email
	n, err := c.Cli.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		c.Cli.Expire(ctx, key, c.attemptWindow)
	}
	return n, nil
}

func (c *Client) ResetLoginFailures(ctx context.Context, email string) error {
	return c.Cli.Del(ctx, "login_attempts:"+email).Err()
}
