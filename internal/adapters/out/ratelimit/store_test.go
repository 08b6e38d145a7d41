package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_MemoryBackend(t *testing.T) {
	store, err := NewStore(context.Background(), Config{Backend: "memory", RPS: 10, Burst: 5}, testLogger())
	require.NoError(t, err)

	_, ok := store.(*MemoryStore)
	assert.True(t, ok, "should create a MemoryStore")
}

func TestNewStore_EmptyBackend(t *testing.T) {
	store, err := NewStore(context.Background(), Config{RPS: 10, Burst: 5}, testLogger())
	require.NoError(t, err)

	_, ok := store.(*MemoryStore)
	assert.True(t, ok, "empty backend should create a MemoryStore")
}

func TestNewStore_RedisBackendRequiresAddress(t *testing.T) {
	store, err := NewStore(context.Background(), Config{Backend: "redis", RPS: 10, Burst: 5}, testLogger())
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "redis address is required")
}

func TestNewStore_UnknownBackend(t *testing.T) {
	store, err := NewStore(context.Background(), Config{Backend: "postgres", RPS: 10, Burst: 5}, testLogger())
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "unknown rate limit backend")
}

func TestNewStore_InvalidLimits(t *testing.T) {
	_, err := NewStore(context.Background(), Config{RPS: 10, Burst: 0}, testLogger())
	assert.Error(t, err)

	_, err = NewStore(context.Background(), Config{RPS: 0, Burst: 5}, testLogger())
	assert.Error(t, err)
}
