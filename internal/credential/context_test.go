package credential

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithToken(t *testing.T) {
	ctx, release := WithToken(context.Background(), "alpha")

	token, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "alpha", token)

	release()
	_, ok = FromContext(ctx)
	assert.False(t, ok, "token should be cleared after release")

	// Releasing twice is harmless
	release()
}

func TestWithToken_Empty(t *testing.T) {
	ctx, release := WithToken(context.Background(), "")
	defer release()

	_, ok := FromContext(ctx)
	assert.False(t, ok)
}

func TestFromContext_NoScope(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	//nolint:staticcheck // nil context is tolerated
	_, ok = FromContext(nil)
	assert.False(t, ok)
}

func TestWithToken_ReleasedOnError(t *testing.T) {
	var captured context.Context
	run := func() (err error) {
		ctx, release := WithToken(context.Background(), "alpha")
		defer release()
		captured = ctx
		return errors.New("upstream failed")
	}

	require.Error(t, run())
	_, ok := FromContext(captured)
	assert.False(t, ok)
}

func TestWithToken_ReleasedOnPanic(t *testing.T) {
	var captured context.Context
	func() {
		defer func() { _ = recover() }()
		ctx, release := WithToken(context.Background(), "alpha")
		defer release()
		captured = ctx
		panic("boom")
	}()

	_, ok := FromContext(captured)
	assert.False(t, ok)
}

func TestWithToken_NestedScopesDoNotInterfere(t *testing.T) {
	outer, releaseOuter := WithToken(context.Background(), "alpha")
	defer releaseOuter()

	inner, releaseInner := WithToken(outer, "beta")
	releaseInner()

	_, ok := FromContext(inner)
	assert.False(t, ok)

	token, ok := FromContext(outer)
	require.True(t, ok)
	assert.Equal(t, "alpha", token)
}

func TestWithToken_ConcurrentIsolation(t *testing.T) {
	// Both calls hold their scope open until each has read its token, so the
	// reads overlap in time.
	tokens := []string{"alpha", "beta"}
	var ready sync.WaitGroup
	ready.Add(len(tokens))
	start := make(chan struct{})

	var wg sync.WaitGroup
	seen := make([][]string, len(tokens))
	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok string) {
			defer wg.Done()
			ctx, release := WithToken(context.Background(), tok)
			defer release()

			ready.Done()
			<-start
			for n := 0; n < 200; n++ {
				got, _ := FromContext(ctx)
				seen[i] = append(seen[i], got)
			}
		}(i, tok)
	}

	ready.Wait()
	close(start)
	wg.Wait()

	for i, tok := range tokens {
		for _, got := range seen[i] {
			assert.Equal(t, tok, got)
		}
	}
}

func TestHeaderToken(t *testing.T) {
	assert.Equal(t, "", HeaderToken(context.Background()))

	ctx := WithHeaderToken(context.Background(), "alpha")
	assert.Equal(t, "alpha", HeaderToken(ctx))

	// Recording the header does not open a scope
	_, ok := FromContext(ctx)
	assert.False(t, ok)
}
