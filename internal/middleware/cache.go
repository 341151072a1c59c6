package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/ngekosaja/ngekosaja-api/internal/config"
)

// responseStore keeps encoded responses for the cache middleware.
type responseStore interface {
	get(ctx context.Context, key string) ([]byte, bool)
	set(ctx context.Context, key string, payload []byte, ttl time.Duration)
	deletePrefix(ctx context.Context, prefix string) error
}

type redisStore struct{ rdb *redis.Client }

func (s redisStore) get(ctx context.Context, key string) ([]byte, bool) {
	bs, err := s.rdb.Get(ctx, key).Bytes()
	return bs, err == nil
}

func (s redisStore) set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	_ = s.rdb.SetEx(ctx, key, payload, ttl).Err()
}

func (s redisStore) deletePrefix(ctx context.Context, prefix string) error {
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

type memoryStore struct{ c *gocache.Cache }

func (s memoryStore) get(_ context.Context, key string) ([]byte, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	bs, ok := v.([]byte)
	return bs, ok
}

func (s memoryStore) set(_ context.Context, key string, payload []byte, ttl time.Duration) {
	s.c.Set(key, payload, ttl)
}

func (s memoryStore) deletePrefix(_ context.Context, prefix string) error {
	for k := range s.c.Items() {
		if strings.HasPrefix(k, prefix) {
			s.c.Delete(k)
		}
	}
	return nil
}

// captureWriter copies up to limit bytes of the body while forwarding it.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	switch {
	case cw.limit <= 0:
		cw.buf.Write(b)
	case cw.size < cw.limit:
		remain := cw.limit - cw.size
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "method_route":
		parts = []string{"method", r.Method, "route", c.Path()}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
	default: // route_query
		parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
	}
	// the route pattern alone would mix /v1/kos/1 and /v1/kos/2
	for _, name := range c.ParamNames() {
		parts = append(parts, "p", name, c.Param(name))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s%x", scopePrefix(cfg.Prefix, c.Param("id")), sum[:])
}

// scopePrefix groups entries of one kos (routes with an :id param) apart
// from the listing pages so they can be dropped together.
func scopePrefix(prefix, kosID string) string {
	if kosID == "" {
		return prefix + ":list:"
	}
	return prefix + ":kos:" + kosID + ":"
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// ResponseCache caches 200 responses of the configured methods.  It uses
// Redis when available and an in-process go-cache otherwise, so a single
// instance still gets caching when Redis is down.
type ResponseCache struct {
	cfg   config.CacheConfig
	store responseStore // nil when caching is disabled
	ttl   time.Duration
}

// NewResponseCache builds the cache; rdb may be nil.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
	rc := &ResponseCache{cfg: cfg, ttl: cfg.TTL}
	if !cfg.Enabled {
		return rc
	}
	if rc.ttl <= 0 {
		rc.ttl = 30 * time.Second
	}
	if rdb != nil {
		rc.store = redisStore{rdb: rdb}
	} else {
		rc.store = memoryStore{c: gocache.New(rc.ttl, 2*rc.ttl)}
	}
	return rc
}

// Middleware returns the caching middleware, a pass-through when disabled.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if rc == nil || rc.store == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return newResponseCache(rc.cfg, rc.store, rc.ttl)
}

// InvalidateKos drops the cached pages of one kos together with the
// listing pages, whose room counts and prices depend on it.
func (rc *ResponseCache) InvalidateKos(ctx context.Context, kosID uint64) error {
	if rc == nil || rc.store == nil {
		return nil
	}
	if err := rc.store.deletePrefix(ctx, scopePrefix(rc.cfg.Prefix, strconv.FormatUint(kosID, 10))); err != nil {
		return err
	}
	return rc.store.deletePrefix(ctx, scopePrefix(rc.cfg.Prefix, ""))
}

func newResponseCache(cfg config.CacheConfig, store responseStore, ttl time.Duration) echo.MiddlewareFunc {
	maxBody := int64(cfg.MaxBodyBytes)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, ok := store.get(ctx, key); ok {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, err := c.Response().Write(body)
					return err
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			// truncated bodies are never stored
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				store.set(context.WithoutCancel(ctx), key, payload, ttl)
			}
			return nil
		}
	}
}
