package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/usertask-api/internal/api/shared"
	"github.com/phrazzld/usertask-api/internal/cache"
	"github.com/phrazzld/usertask-api/internal/platform/logger"
	"github.com/phrazzld/usertask-api/internal/redact"
)

// CacheHeader reports whether a response was served from cache.
const CacheHeader = "X-Cache"

const (
	cacheHit  = "HIT"
	cacheMiss = "MISS"
)

// ResultFunc computes the structured result of a cacheable route.
// A nil result with a nil error means there is nothing to return.
type ResultFunc func(r *http.Request) (any, error)

// ErrorWriter renders an error returned by a ResultFunc.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// CacheAside serves fn's result through svc. The key is derived from the
// request URL by policy. On a hit the cached JSON is written verbatim and
// fn is not called. On a miss a non-nil result is stored for policy.TTL and
// the stored bytes are written, so a hit and a miss send identical bodies.
// Errors go to writeErr and are never cached. A nil result answers
// 204 No Content.
func CacheAside(svc *cache.Service, policy cache.Policy, fn ResultFunc, writeErr ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := policy.KeyFor(r.URL)

		if cached := svc.Get(r.Context(), key); cached != "" {
			w.Header().Set(CacheHeader, cacheHit)
			shared.RespondWithRawJSON(w, http.StatusOK, []byte(cached))
			return
		}

		w.Header().Set(CacheHeader, cacheMiss)

		result, err := fn(r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		if result == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if payload := svc.Put(r.Context(), key, result, policy.TTL); payload != nil {
			shared.RespondWithRawJSON(w, http.StatusOK, payload)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, result)
	}
}

// ResponseCache caches the raw body written by the rest of the chain. The
// key is derived from the request URL by policy. On a hit the stored body is
// written and the chain is skipped. On a miss the response is buffered while
// it is forwarded, and a non-empty 2xx body is stored for policy.TTL.
// Backend failures are logged and the request proceeds uncached.
func ResponseCache(backend cache.Backend, policy cache.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContextOrDefault(r.Context(), slog.Default())
			key := policy.KeyFor(r.URL)

			cached, found, err := backend.Get(r.Context(), key)
			if err != nil {
				log.Error("failed to read cached response",
					slog.String("cache_key", key),
					slog.String("error", redact.Error(err)))
			}
			if found && len(cached) > 0 {
				w.Header().Set(CacheHeader, cacheHit)
				shared.RespondWithRawJSON(w, http.StatusOK, cached)
				return
			}

			w.Header().Set(CacheHeader, cacheMiss)

			var body bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if body.Len() == 0 || status < 200 || status >= 300 {
				return
			}

			if err := backend.Set(r.Context(), key, body.Bytes(), policy.TTL); err != nil {
				log.Error("failed to store cached response",
					slog.String("cache_key", key),
					slog.String("error", redact.Error(err)))
			}
		})
	}
}
