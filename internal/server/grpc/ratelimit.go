package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/carTloyal123/shoppi/internal/rpc"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// limitedMethods are throttled per peer.
var limitedMethods = map[string]bool{
	rpc.FullMethod(rpc.MethodSignUp): true,
	rpc.FullMethod(rpc.MethodSignIn): true,
}

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepSize = 4096
)

type peerEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// peerLimiter hands out one token bucket per client address.
type peerLimiter struct {
	mu    sync.Mutex
	peers map[string]*peerEntry
	limit rate.Limit
	burst int
	now   func() time.Time
}

func newPeerLimiter(limit rate.Limit, burst int) *peerLimiter {
	return &peerLimiter{peers: make(map[string]*peerEntry), limit: limit, burst: burst, now: time.Now}
}

func (p *peerLimiter) allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if len(p.peers) >= limiterSweepSize {
		for k, e := range p.peers {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(p.peers, k)
			}
		}
	}

	e, ok := p.peers[key]
	if !ok {
		e = &peerEntry{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.peers[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func peerKey(ctx context.Context) string {
	pr, ok := peer.FromContext(ctx)
	if !ok || pr.Addr == nil {
		return "unknown"
	}
	addr := pr.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if limitedMethods[info.FullMethod] && !s.limiter.allow(peerKey(ctx)) {
		s.logger.Warn(ctx, "auth rate limit hit", "peer", peerKey(ctx), "method", info.FullMethod)
		return nil, status.Error(codes.ResourceExhausted, "too many attempts, try again later")
	}
	return handler(ctx, req)
}
