package credential

import (
	"context"
	"sync"
)

// contextKey is the type for context keys
type contextKey string

const (
	// slotContextKey is the key for the per-call credential slot
	slotContextKey contextKey = "credential_slot"

	// headerContextKey is the key for the raw token copied from the transport
	headerContextKey contextKey = "credential_header"
)

// Release clears the token installed by WithToken. It is safe to call more than once.
type Release func()

// slot holds the token for one call chain. It is created by WithToken and never
// shared with another call.
type slot struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func (s *slot) get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set
}

func (s *slot) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
}

// WithToken returns a context carrying token in a fresh slot, plus the Release that
// empties it. An empty token still opens a scope; FromContext reports it as absent.
func WithToken(ctx context.Context, token string) (context.Context, Release) {
	s := &slot{token: token, set: token != ""}
	var once sync.Once
	return context.WithValue(ctx, slotContextKey, s), func() {
		once.Do(s.clear)
	}
}

// FromContext returns the token installed for the current call, if any.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(slotContextKey).(*slot)
	if !ok || s == nil {
		return "", false
	}
	return s.get()
}

// WithHeaderToken records the raw token presented by the transport. It does not open a
// scope; the dispatcher does that per tool call.
func WithHeaderToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, headerContextKey, token)
}

// HeaderToken returns the token recorded by WithHeaderToken, or "".
func HeaderToken(ctx context.Context) string {
	token, _ := ctx.Value(headerContextKey).(string)
	return token
}
