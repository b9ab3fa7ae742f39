package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"dinocars/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window rate limiter ─────────────────────────────────────────────────
// Counts requests per client IP in fixed windows. Each limiter owns its
// counters; expired entries are purged inline every purgeInterval.

const purgeInterval = 5 * time.Minute

type ventana struct {
	count int
	fin   time.Time
}

type limiter struct {
	mu          sync.Mutex
	nombre      string
	limit       int
	window      time.Duration
	msg         string
	entries     map[string]*ventana
	ultimaPurga time.Time
	now         func() time.Time
}

func newLimiter(nombre string, limit int, window time.Duration, msg string) *limiter {
	return &limiter{
		nombre:  nombre,
		limit:   limit,
		window:  window,
		msg:     msg,
		entries: make(map[string]*ventana),
		now:     time.Now,
	}
}

// allow records one request from ip and reports whether it is within the
// limit, plus when the current window ends.
func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.ultimaPurga) >= purgeInterval {
		l.purge(now)
	}

	v, ok := l.entries[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.window)}
		l.entries[ip] = v
	}
	v.count++
	return v.count <= l.limit, v.fin
}

// Must be called under lock.
func (l *limiter) purge(now time.Time) {
	purgadas := 0
	for ip, v := range l.entries {
		if now.After(v.fin) {
			delete(l.entries, ip)
			purgadas++
		}
	}
	l.ultimaPurga = now
	if purgadas > 0 {
		log.Debug().
			Str("limiter", l.nombre).
			Int("purged", purgadas).
			Int("remaining", len(l.entries)).
			Msg("rate limiter entries purged")
	}
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := l.allow(c.ClientIP())
		if !ok {
			espera := int(time.Until(fin).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(espera))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits POST /token to 20 attempts per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter("login", 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// RateLimiter limits every route to limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter("api", limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}
