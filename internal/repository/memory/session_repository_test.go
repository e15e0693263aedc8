package memory

import (
	"context"
	"testing"
	"time"

	"ai-storefront/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)

	_, found, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)

	s := store.NewSession("s1")
	require.NoError(t, repo.Save(ctx, s))

	got, found, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Same(t, s, got)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, found, _ = repo.Get(ctx, "s1")
	assert.False(t, found)
}

func TestSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20 * time.Millisecond)
	require.NoError(t, repo.Save(ctx, store.NewSession("s1")))

	time.Sleep(40 * time.Millisecond)
	_, found, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}
