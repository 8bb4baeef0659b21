package clientstorage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"association-storefront/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	repo, closeFn, err := Open(context.Background(), config.Config{StorageBackend: config.StorageMemory}, nil)
	require.NoError(t, err)
	defer closeFn()

	_, ok := repo.(*MemoryRepo)
	assert.True(t, ok)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Config{StorageBackend: config.StorageRedis, RedisAddr: mr.Addr(), StorageTTL: time.Hour}

	repo, closeFn, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, repo.Set(context.Background(), "p1", "cart", []byte("[]")))
	assert.Equal(t, time.Hour, mr.TTL("storage:p1:cart"))
}

func TestOpen_Unknown(t *testing.T) {
	_, _, err := Open(context.Background(), config.Config{StorageBackend: "sqlite"}, nil)
	assert.Error(t, err)
}
