package middleware

import (
	"bufio"
	"bytes"
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain/keys"
	"github.com/x-xyz/rwat-deployer/service/cache"
	"github.com/x-xyz/rwat-deployer/service/cache/provider"
	"github.com/x-xyz/rwat-deployer/service/cache/provider/compound"
	"github.com/x-xyz/rwat-deployer/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/rwat-deployer/service/cache/provider/redis"
)

const (
	localCacheSizeMB = 64
	localCacheMaxTtl = 10 * time.Second
)

var (
	cacheMiddlewareProvider provider.Provider

	once = sync.Once{}
)

// SetupCache must run before CacheHttp. Responses live in process memory,
// layered over redis when pool is not nil.
func SetupCache(pool *redis.Pool) {
	once.Do(func() {
		layers := []compound.Layer{{
			Provider: primitive.NewPrimitive(keys.PfxHttpCache, localCacheSizeMB),
			MaxTtl:   localCacheMaxTtl,
		}}
		if pool != nil {
			layers = append(layers, compound.Layer{Provider: redisCache.NewRedis(keys.PfxHttpCache, pool)})
		}
		cacheMiddlewareProvider = compound.NewCompound(layers...)
	})
}

// Response is the cached response data structure.
type Response struct {
	Value  []byte      `json:"value"`
	Header http.Header `json:"header"`
}

type bodyDumpResponseWriter struct {
	statusCode int
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpResponseWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

// cacheKey hashes the path with its query params in a stable order.
func cacheKey(u *url.URL) string {
	params := u.Query()
	for _, vs := range params {
		sort.Strings(vs)
	}
	// Encode sorts by key
	normalized := u.Path + "?" + params.Encode()

	hash := fnv.New64a()
	hash.Write([]byte(normalized))
	return strconv.FormatUint(hash.Sum64(), 36)
}

// CacheHttp serves repeated GETs from cache for ttl. Only responses below
// 400 are stored.
func CacheHttp(ttl time.Duration) echo.MiddlewareFunc {
	if cacheMiddlewareProvider == nil {
		panic("need SetupCache before using CacheHttp")
	}

	cacheService := cache.New(cache.ServiceConfig{
		Ttl:   ttl,
		Pfx:   keys.PfxHttpCache,
		Cache: cacheMiddlewareProvider,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			cont, ok := c.Get("ctx").(ctx.Ctx)
			if !ok {
				cont = ctx.From(c.Request().Context())
			}

			key := cacheKey(c.Request().URL)

			response := Response{}
			err := cacheService.Get(cont, key, &response)
			if err == nil {
				for k, v := range response.Header {
					c.Response().Header()[k] = v
				}
				c.Response().WriteHeader(http.StatusOK)
				_, werr := c.Response().Write(response.Value)
				return werr
			} else if err != cache.ErrNotFound {
				cont.WithFields(log.Fields{"err": err, "key": key}).Warn("cacheService.Get failed")
			}

			resBody := new(bytes.Buffer)
			mw := io.MultiWriter(c.Response().Writer, resBody)
			writer := &bodyDumpResponseWriter{statusCode: http.StatusOK, Writer: mw, ResponseWriter: c.Response().Writer}
			c.Response().Writer = writer
			if err := next(c); err != nil {
				c.Error(err)
			}

			if writer.statusCode < 400 {
				response := Response{
					Value:  resBody.Bytes(),
					Header: writer.Header().Clone(),
				}
				if err := cacheService.Set(cont, key, response); err != nil {
					cont.WithFields(log.Fields{"err": err, "key": key}).Warn("cacheService.Set failed")
				}
			}
			return nil
		}
	}
}
