package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/luaygitaris/appChat/internal/config"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	_, err := Redis.Ping(Ctx).Result()
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Token revocation and per-user rate budgets will be disabled.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}

// BlacklistToken revokes a token until its natural expiry. Called on logout.
func BlacklistToken(jti string, ttl time.Duration) error {
	if Redis == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return Redis.Set(Ctx, "token_blacklist:"+jti, "revoked", ttl).Err()
}

// IsTokenBlacklisted reports whether a token id was revoked via logout.
// Fails open when Redis is unavailable.
func IsTokenBlacklisted(jti string) bool {
	if Redis == nil || jti == "" {
		return false
	}
	n, err := Redis.Exists(Ctx, "token_blacklist:"+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// CheckRateLimit enforces a fixed-window per-user budget, keyed by action.
// Returns true when the request is within budget.
func CheckRateLimit(action, userID string, limit int, window time.Duration) (bool, error) {
	if Redis == nil {
		return true, nil
	}
	key := fmt.Sprintf("rate_limit:%s:%s", action, userID)
	count, err := Redis.Incr(Ctx, key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		Redis.Expire(Ctx, key, window)
	}

	if count > int64(limit) {
		return false, nil
	}
	return true, nil
}
