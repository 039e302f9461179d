//go:build integration

package device

import (
	"context"
	"testing"
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
	"github.com/Sokol111/device-catalogue-service/pkg/testutil/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceRepository_Integration(t *testing.T) {
	c := container.MustStartMongoDB(t)
	m := c.Mongo("device_test")
	ctx := context.Background()
	require.NoError(t, EnsureIndexes(ctx, m))

	repo := newDeviceRepository(m)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	d := &Device{
		ID:           "d1",
		ModelID:      "m1",
		SerialNumber: "SN-1",
		Status:       StatusAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Insert(ctx, d))

	t.Run("duplicate serial is rejected", func(t *testing.T) {
		err := repo.Insert(ctx, &Device{ID: "d2", ModelID: "m1", SerialNumber: "SN-1", Status: StatusAvailable})
		assert.ErrorIs(t, err, ErrDuplicateSerial)
	})

	t.Run("save bumps version and keeps source time", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "d1")
		require.NoError(t, err)

		src := now.Add(time.Minute)
		_, changed := got.ChangeStatus(StatusUnavailable, &src, now.Add(2*time.Minute))
		require.True(t, changed)
		require.NoError(t, repo.Save(ctx, got))
		assert.Equal(t, int64(1), got.Version)

		reloaded, err := repo.GetByID(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, StatusUnavailable, reloaded.Status)
		require.NotNil(t, reloaded.StatusSourceTime)
		assert.True(t, src.Equal(*reloaded.StatusSourceTime))
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale := *d
		stale.Status = StatusMaintenance
		err := repo.Save(ctx, &stale)
		assert.ErrorIs(t, err, persistence.ErrOptimisticLocking)
	})

	t.Run("missing device", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, persistence.ErrEntityNotFound)

		err = repo.Save(ctx, &Device{ID: "nope", Status: StatusAvailable})
		assert.ErrorIs(t, err, persistence.ErrEntityNotFound)
	})

	t.Run("count and delete", func(t *testing.T) {
		n, err := repo.CountByModel(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		require.NoError(t, repo.Delete(ctx, "d1"))
		assert.ErrorIs(t, repo.Delete(ctx, "d1"), persistence.ErrEntityNotFound)
	})
}
