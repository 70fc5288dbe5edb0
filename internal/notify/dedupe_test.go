package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestDeduper(t *testing.T) (*RedisDeduper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDeduper(client, time.Hour), mr
}

func TestRedisDeduperClaimsOnce(t *testing.T) {
	d, _ := newTestDeduper(t)
	ctx := context.Background()

	claimed, err := d.Claim(ctx, "appt-1", 24)
	require.NoError(t, err)
	require.True(t, claimed, "first claim should win")

	claimed, err = d.Claim(ctx, "appt-1", 24)
	require.NoError(t, err)
	require.False(t, claimed, "second claim for the same window should lose")
}

func TestRedisDeduperSeparatesWindows(t *testing.T) {
	d, _ := newTestDeduper(t)
	ctx := context.Background()

	claimed, err := d.Claim(ctx, "appt-1", 24)
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = d.Claim(ctx, "appt-1", 2)
	require.NoError(t, err)
	require.True(t, claimed, "2h window is a distinct claim")

	claimed, err = d.Claim(ctx, "appt-2", 24)
	require.NoError(t, err)
	require.True(t, claimed, "different appointment is a distinct claim")
}

func TestRedisDeduperClaimExpires(t *testing.T) {
	d, mr := newTestDeduper(t)
	ctx := context.Background()

	claimed, err := d.Claim(ctx, "appt-1", 24)
	require.NoError(t, err)
	require.True(t, claimed)

	mr.FastForward(2 * time.Hour)

	claimed, err = d.Claim(ctx, "appt-1", 24)
	require.NoError(t, err)
	require.True(t, claimed, "claim should be reclaimable after TTL")
}

func TestNoopDeduperAlwaysClaims(t *testing.T) {
	d := NoopDeduper{}
	for i := 0; i < 3; i++ {
		claimed, err := d.Claim(context.Background(), "appt-1", 24)
		require.NoError(t, err)
		require.True(t, claimed)
	}
}
