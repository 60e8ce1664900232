package web

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-IP token bucket, one golang.org/x/time/rate.Limiter
// per remote address, guarding the HTTP surface the way C4 guards outbound
// federation delivery per-host.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

// maxTrackedIPs bounds memory under a sustained scraping/scanning burst;
// past this the whole map is dropped rather than evicted piecemeal.
const maxTrackedIPs = 10000

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > maxTrackedIPs {
		rl.limiters = make(map[string]*rate.Limiter)
	}

	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware rejects requests from an IP once it exhausts its
// bucket, with 429 Too Many Requests.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.getLimiter(ip).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// MaxBytesMiddleware caps the request body at maxBytes, rejecting larger
// bodies before a handler ever reads them (protects the inbox handler from
// an oversized activity payload).
func MaxBytesMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// apJSONTypes are the media types that indicate an ActivityPub client, not
// a browser, is asking for /users/:actor — Lemmy and friends request the
// bare actor id URL with these, rather than hitting /u/:actor.
var apJSONTypes = map[string]bool{
	"application/activity+json": true,
	"application/ld+json":       true,
	"application/json":          true,
}

// IsHTMLRequest reports whether accept looks like a browser's Accept header
// rather than an ActivityPub client's, defaulting to true (HTML) for empty,
// wildcard, or unrecognized values.
func IsHTMLRequest(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(part)
		if i := strings.IndexByte(mediaType, ';'); i != -1 {
			mediaType = strings.TrimSpace(mediaType[:i])
		}
		if apJSONTypes[mediaType] {
			return false
		}
	}
	return true
}
