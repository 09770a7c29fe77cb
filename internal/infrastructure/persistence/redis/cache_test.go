package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/pkg/circuitbreaker"
)

func TestConfig_Addr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, "civic:", cfg.Namespace)
}

func TestCache_KeyIsNamespaced(t *testing.T) {
	c := NewCacheWithClient(nil, "civic:")
	assert.Equal(t, "civic:listing:projects:stats", c.Key(listingPrefix+"projects:stats"))
}

func TestListingPrefixFor(t *testing.T) {
	tests := []struct {
		aggregate string
		want      string
	}{
		{project.AggregateType, "projects:"},
		{event.AggregateType, "events:"},
		{news.AggregateType, "news:"},
		{"User", ""},
	}
	for _, tt := range tests {
		t.Run(tt.aggregate, func(t *testing.T) {
			assert.Equal(t, tt.want, ListingPrefixFor(tt.aggregate))
		})
	}
}

func TestListingCache_OpenBreakerSkipsRedis(t *testing.T) {
	breaker := circuitbreaker.New("test", circuitbreaker.WithFailureThreshold(1), circuitbreaker.WithCooldown(time.Hour))
	_ = breaker.Execute(context.Background(), func(context.Context) error { return errors.New("dial tcp: refused") })
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	// A nil client would panic if the breaker let the call through.
	l := NewListingCache(NewCacheWithClient(nil, "civic:"), breaker)

	var dest []string
	hit, err := l.Get(context.Background(), "projects:featured:6", &dest)
	assert.False(t, hit)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)

	err = l.Set(context.Background(), "projects:featured:6", []string{"x"}, time.Minute)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)

	_, err = l.Invalidate(context.Background(), "projects:")
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}
