package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/baladiya/complaint-service/internal/auth"
	"github.com/baladiya/complaint-service/internal/config"
	"github.com/baladiya/complaint-service/internal/persistence"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

// ComplaintRateLimiter caps complaint submissions per citizen per day. The
// counter lives in Redis under a per-user key with a 24h TTL set on the
// first increment. When Redis is unreachable the request is allowed;
// intake availability wins over the limit.
func ComplaintRateLimiter(redis *persistence.Redis, cfg config.ComplaintConfig, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := auth.UserFromContext(c)
		if user == nil {
			return apperrors.NewUnauthorized("account required")
		}
		if redis == nil || redis.Client == nil || cfg.DailyLimit <= 0 {
			return c.Next()
		}

		ctx := c.UserContext()
		key := cfg.RateLimitedKey + ":" + user.ID

		count, err := redis.Client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := redis.Client.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
				logger.Warn("rate limiter expire failed", zap.Error(err))
			}
		}
		if count > int64(cfg.DailyLimit) {
			retryAfter, _ := redis.Client.TTL(ctx, key).Result()
			return apperrors.NewDomainError("RATE_LIMITED", "daily complaint limit reached", fiber.StatusTooManyRequests,
				map[string]any{"retry_after_seconds": int(retryAfter.Seconds())})
		}
		return c.Next()
	}
}
