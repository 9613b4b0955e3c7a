package cache_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/alejandrodnm/livevalue/internal/adapters/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemory_TTLBoundary(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)}
	c := cache.NewMemoryWithClock(300*time.Second, clock.Now)

	c.Put(ctx, "k", []byte(`{"response":[]}`))

	clock.Advance(299*time.Second + 999*time.Millisecond)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `{"response":[]}`, string(got))

	clock.Advance(time.Millisecond) // exactamente T+ttl
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	clock.Advance(time.Hour)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_StaleEntryStaysUntilPurge(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	c := cache.NewMemoryWithClock(time.Minute, clock.Now)

	c.Put(ctx, "old", []byte("a"))
	clock.Advance(2 * time.Minute)
	c.Put(ctx, "new", []byte("b"))

	_, ok := c.Get(ctx, "old")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len(ctx))

	assert.Equal(t, 1, c.PurgeExpired(ctx))
	assert.Equal(t, 1, c.Len(ctx))

	got, ok := c.Get(ctx, "new")
	require.True(t, ok)
	assert.Equal(t, "b", string(got))
}

func TestMemory_PutRefreshesCapture(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	c := cache.NewMemoryWithClock(time.Minute, clock.Now)

	c.Put(ctx, "k", []byte("v1"))
	clock.Advance(50 * time.Second)
	c.Put(ctx, "k", []byte("v2"))
	clock.Advance(50 * time.Second)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v2", string(got))
}

func TestKey_StableAcrossParamOrder(t *testing.T) {
	a := url.Values{}
	a.Set("fixture", "12345")
	a.Set("bookmaker", "8")

	b := url.Values{}
	b.Set("bookmaker", "8")
	b.Set("fixture", "12345")

	assert.Equal(t, cache.Key("api-football", "/odds", a), cache.Key("api-football", "/odds", b))
	assert.NotEqual(t, cache.Key("api-football", "/odds", a), cache.Key("sportmonks", "/odds", a))
	assert.Equal(t, "api-football|/fixtures|live=all", cache.Key("api-football", "/fixtures", url.Values{"live": {"all"}}))
}
