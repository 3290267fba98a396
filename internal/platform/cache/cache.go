// Package cache provides an optional Redis-backed response cache for
// expensive, slow-changing GET endpoints (the hospital directory and the
// upstream map style). When no Redis server is configured or reachable the
// cache is disabled and requests pass straight through.
package cache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient connects to Redis, returning nil when addr is empty or the
// server is unreachable. Callers treat a nil client as "caching disabled".
func NewClient(addr, password string, db int, log zerolog.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, response caching disabled")
		return nil
	}
	return client
}

// ResponseCache caches successful GET responses in Redis.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func New(client *redis.Client, ttl time.Duration, log zerolog.Logger) *ResponseCache {
	return &ResponseCache{client: client, ttl: ttl, log: log}
}

// Enabled reports whether a Redis backend is available.
func (rc *ResponseCache) Enabled() bool {
	return rc != nil && rc.client != nil
}

func (rc *ResponseCache) key(c echo.Context) string {
	sum := sha1.Sum([]byte(c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("medilens:resp:%x", sum)
}

// captureWriter duplicates the response body while forwarding it.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Middleware serves cached bodies for GET requests and stores fresh 200
// responses. Cache failures are logged and otherwise ignored — the upstream
// handler is always the fallback.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rc.Enabled() || c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := rc.key(c)
			ctx := c.Request().Context()
			if cached, err := rc.client.Get(ctx, key).Bytes(); err == nil {
				return c.JSONBlob(http.StatusOK, cached)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				if err := rc.client.Set(ctx, key, cw.buf.Bytes(), rc.ttl).Err(); err != nil {
					rc.log.Warn().Err(err).Msg("failed to store response in cache")
				}
			}
			return nil
		}
	}
}
