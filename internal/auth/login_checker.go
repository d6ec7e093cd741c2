package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// UserID resolves the session token to its account id. Unknown or expired
// sessions yield an empty id and no error.
func (c *LoginChecker) UserID(ctx context.Context, token string) (string, error) {
	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}

	userID, createdAt, err := decodeSession(cmd.Val())
	if err != nil {
		return "", err
	}

	if time.Since(createdAt) > c.ttl {
		return "", nil
	}

	return userID, nil
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	userID, err := c.UserID(ctx, token)
	if err != nil {
		return false, err
	}
	return userID != "", nil
}
