package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

func TestScanLock_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	lock := NewScanLock()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx)
	assert.ErrorIs(t, err, domain.ErrScanInProgress)

	require.NoError(t, release(ctx))

	release2, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestScanLock_ReleaseTwice(t *testing.T) {
	ctx := context.Background()
	lock := NewScanLock()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))

	// A second release must not unlock a later holder.
	release2, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, release(ctx))

	_, err = lock.Acquire(ctx)
	assert.ErrorIs(t, err, domain.ErrScanInProgress)
	require.NoError(t, release2(ctx))
}
