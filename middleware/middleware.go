package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

// CORS middleware
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Logging middleware writes one JSON line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		entry := map[string]interface{}{
			"ts":       start.UTC().Format(time.RFC3339Nano),
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapped.statusCode,
			"duration": duration.String(),
		}
		if err := json.NewEncoder(log.Writer()).Encode(entry); err != nil {
			log.Printf("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
		}
	})
}

// Recovery middleware
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)

				errorResp := map[string]interface{}{
					"success": false,
					"error": map[string]interface{}{
						"error":   "internal_server_error",
						"message": "Internal server error occurred",
						"code":    http.StatusInternalServerError,
					},
				}

				json.NewEncoder(w).Encode(errorResp)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders middleware
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// Timeout middleware
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			tracked := &timeoutTrackingWriter{ResponseWriter: w}

			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(tracked, r)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				// Only write the error if the response has not been committed.
				if !tracked.committed {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusRequestTimeout)

					errorResp := map[string]interface{}{
						"success": false,
						"error": map[string]interface{}{
							"error":   "request_timeout",
							"message": "Request timed out",
							"code":    http.StatusRequestTimeout,
						},
					}

					json.NewEncoder(w).Encode(errorResp)
				}
			}
		})
	}
}

type timeoutTrackingWriter struct {
	http.ResponseWriter
	committed bool
}

func (tw *timeoutTrackingWriter) WriteHeader(statusCode int) {
	tw.committed = true
	tw.ResponseWriter.WriteHeader(statusCode)
}

func (tw *timeoutTrackingWriter) Write(b []byte) (int, error) {
	if !tw.committed {
		tw.ResponseWriter.WriteHeader(http.StatusOK)
		tw.committed = true
	}
	return tw.ResponseWriter.Write(b)
}

// RateLimit middleware limits requests per client IP within a window.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	type client struct {
		requests int
		window   time.Time
	}

	var mu sync.Mutex
	clients := make(map[string]*client)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := r.RemoteAddr
			now := time.Now()

			mu.Lock()
			c, exists := clients[clientIP]
			limited := false
			if exists {
				if now.Sub(c.window) > window {
					c.requests = 1
					c.window = now
				} else {
					c.requests++
					limited = c.requests > requests
				}
			} else {
				clients[clientIP] = &client{requests: 1, window: now}
			}
			mu.Unlock()

			if limited {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)

				errorResp := map[string]interface{}{
					"success": false,
					"error": map[string]interface{}{
						"error":   "rate_limit_exceeded",
						"message": "Too many requests",
						"code":    http.StatusTooManyRequests,
					},
				}

				json.NewEncoder(w).Encode(errorResp)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode != 0 {
		return
	}
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}
