package server

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// recoverMiddleware converts panics into the conservative default response
// so one bad request never takes the process down.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Printf("server: panic recovered: %v", rec)
				writeJSON(w, http.StatusInternalServerError,
					s.conservativeResponse("Unexpected server error.", model.Debug{}))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware admits the browser extension and local development
// origins. Requests without an Origin header (curl, tests) pass through.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if !allowedOrigin(origin) {
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func allowedOrigin(origin string) bool {
	switch {
	case strings.HasPrefix(origin, "chrome-extension://"),
		strings.HasPrefix(origin, "http://localhost"),
		strings.HasPrefix(origin, "http://127.0.0.1"):
		return true
	}
	return false
}

// authMiddleware enforces the bearer token when one is configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.cfg.Server.APIToken
		if token == "" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		if header != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware throttles each client address independently
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientAddr(r)) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// clientLimiter keeps one token bucket per client address
type clientLimiter struct {
	mu       sync.Mutex
	clients  map[string]*rate.Limiter
	perSec   rate.Limit
	burst    int
	disabled bool
}

func newClientLimiter(requestsPerMin float64) *clientLimiter {
	if requestsPerMin <= 0 {
		return &clientLimiter{disabled: true}
	}
	burst := int(requestsPerMin / 3)
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		clients: make(map[string]*rate.Limiter),
		perSec:  rate.Limit(requestsPerMin / 60),
		burst:   burst,
	}
}

func (l *clientLimiter) allow(addr string) bool {
	if l.disabled {
		return true
	}
	l.mu.Lock()
	lim, ok := l.clients[addr]
	if !ok {
		lim = rate.NewLimiter(l.perSec, l.burst)
		l.clients[addr] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
