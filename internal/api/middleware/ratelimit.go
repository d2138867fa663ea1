package middleware

import (
    "net/http"
    "sync"
    "time"

    "github.com/gin-gonic/gin"
    "golang.org/x/time/rate"
)

// 超过该空闲时长的IP条目在下次清扫时淘汰，限流表不随IP流动无限增长
const visitorTTL = 3 * time.Minute

type visitor struct {
    lim      *rate.Limiter
    lastSeen time.Time
}

type visitorStore struct {
    mu        sync.Mutex
    visitors  map[string]*visitor
    r         rate.Limit
    burst     int
    ttl       time.Duration
    nextSweep time.Time
}

func newVisitorStore(r rate.Limit, burst int, ttl time.Duration) *visitorStore {
    return &visitorStore{
        visitors: make(map[string]*visitor),
        r:        r,
        burst:    burst,
        ttl:      ttl,
    }
}

func (s *visitorStore) allow(ip string, now time.Time) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    if now.After(s.nextSweep) {
        s.evictIdle(now)
        s.nextSweep = now.Add(s.ttl)
    }
    v, ok := s.visitors[ip]
    if !ok {
        v = &visitor{lim: rate.NewLimiter(s.r, s.burst)}
        s.visitors[ip] = v
    }
    v.lastSeen = now
    return v.lim.Allow()
}

// evictIdle 调用方须持有锁
func (s *visitorStore) evictIdle(now time.Time) {
    for ip, v := range s.visitors {
        if now.Sub(v.lastSeen) > s.ttl {
            delete(s.visitors, ip)
        }
    }
}

// RateLimit 按客户端IP限流（订阅端点防刷）
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
    store := newVisitorStore(r, burst, visitorTTL)
    return func(c *gin.Context) {
        if !store.allow(c.ClientIP(), time.Now()) {
            c.AbortWithStatus(http.StatusTooManyRequests)
            return
        }
        c.Next()
    }
}
