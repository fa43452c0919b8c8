package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// How long a commit lock may be held before it expires on its own. Covers
// the case where the process dies mid-request and never releases the lock.
const defaultLockTTL = 60 * time.Second

// SingleFlight rejects a mutating request while an identical one from the
// same client is still running. The usecases already hold an in-process
// guard around their commit calls; this lock extends the same guarantee
// across instances. Key = method + route + client id; at most one request
// per key is in flight at a time.
func SingleFlight(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			clientID := ClientID(c)
			if clientID == "" {
				// ClientContext did not run on this route; nothing to key on.
				return next(c)
			}

			key := lockKey(req.Method, c.Path(), clientID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			ok, err := rdb.SetNX(ctx, key, "1", ttl).Result()
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "lock store unavailable"})
			}
			if !ok {
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}
			defer func() {
				// Release with a fresh context so a canceled request still unlocks.
				relCtx, relCancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer relCancel()
				_ = rdb.Del(relCtx, key).Err()
			}()

			return next(c)
		}
	}
}
