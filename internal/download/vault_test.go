package download

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_ClaimOnce(t *testing.T) {
	v := NewVault(time.Minute)
	id, err := v.Present(context.Background(), []byte("workbook"))
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())

	data, err := v.Claim(id)
	require.NoError(t, err)
	assert.Equal(t, "workbook", string(data))
	assert.Equal(t, 0, v.Len(), "claim releases the reference")

	_, err = v.Claim(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVault_UnknownID(t *testing.T) {
	_, err := NewVault(time.Minute).Claim("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVault_Expired(t *testing.T) {
	v := NewVault(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	id := v.Put([]byte("x"))
	now = now.Add(2 * time.Minute)

	_, err := v.Claim(id)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, 0, v.Len())
}

func TestVault_Cleanup(t *testing.T) {
	v := NewVault(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	v.Put([]byte("old"))
	now = now.Add(90 * time.Second)
	fresh := v.Put([]byte("fresh"))

	assert.Equal(t, 1, v.Cleanup())
	assert.Equal(t, 1, v.Len())

	data, err := v.Claim(fresh)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestVault_DistinctIDs(t *testing.T) {
	v := NewVault(time.Minute)
	a := v.Put([]byte("a"))
	b := v.Put([]byte("b"))
	assert.NotEqual(t, a, b)
}

func TestVault_Sweep(t *testing.T) {
	v := NewVault(time.Minute)
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var elapsed atomic.Int64
	v.now = func() time.Time { return start.Add(time.Duration(elapsed.Load())) }

	v.Put([]byte("stale"))
	elapsed.Store(int64(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go v.Sweep(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return v.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestNewVault_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewVault(0).ttl)
}
