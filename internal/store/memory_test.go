package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery_tracker/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestMemoryStoreConditionalUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("moves status when expectation holds", func(t *testing.T) {
		m := NewMemoryStore()
		order := &models.Order{DriverID: uintPtr(7), Status: models.StatusAssigned}
		require.NoError(t, m.Insert(ctx, order))

		updated, err := m.ConditionalUpdateStatus(ctx, order.ID, models.StatusAssigned, models.StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, updated.Status)
	})

	t.Run("fails precondition on stale expectation", func(t *testing.T) {
		m := NewMemoryStore()
		order := &models.Order{Status: models.StatusInProgress}
		require.NoError(t, m.Insert(ctx, order))

		_, err := m.ConditionalUpdateStatus(ctx, order.ID, models.StatusAssigned, models.StatusInProgress)
		assert.ErrorIs(t, err, ErrPreconditionFailed)

		got, err := m.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, got.Status)
	})

	t.Run("missing order", func(t *testing.T) {
		m := NewMemoryStore()
		_, err := m.ConditionalUpdateStatus(ctx, "missing", models.StatusAssigned, models.StatusInProgress)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("exactly one concurrent transition wins", func(t *testing.T) {
		m := NewMemoryStore()
		order := &models.Order{DriverID: uintPtr(7), Status: models.StatusAssigned}
		require.NoError(t, m.Insert(ctx, order))

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = m.ConditionalUpdateStatus(ctx, order.ID, models.StatusAssigned, models.StatusInProgress)
			}(i)
		}
		wg.Wait()

		var ok, failed int
		for _, err := range results {
			if err == nil {
				ok++
			} else if errors.Is(err, ErrPreconditionFailed) {
				failed++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, failed)
	})
}

func TestMemoryStoreFindEarliestRegisteredDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("none registered", func(t *testing.T) {
		m := NewMemoryStore()
		_, err := m.FindEarliestRegisteredDriver(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("picks oldest registration", func(t *testing.T) {
		m := NewMemoryStore()
		base := time.Now()
		m.RegisterDriver(3, base.Add(time.Hour))
		m.RegisterDriver(1, base)
		m.RegisterDriver(2, base.Add(time.Minute))

		id, err := m.FindEarliestRegisteredDriver(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint(1), id)
	})
}

func TestMemoryStoreListByDriver(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	first := &models.Order{DriverID: uintPtr(7), Status: models.StatusAssigned, CreatedAt: time.Now().Add(-time.Hour)}
	second := &models.Order{DriverID: uintPtr(7), Status: models.StatusAssigned, CreatedAt: time.Now()}
	other := &models.Order{DriverID: uintPtr(9), Status: models.StatusAssigned, CreatedAt: time.Now()}
	for _, o := range []*models.Order{first, second, other} {
		require.NoError(t, m.Insert(ctx, o))
	}

	list, err := m.ListByDriver(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)
}

func TestMemoryStoreErrInjection(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.Err = ErrUnavailable

	assert.ErrorIs(t, m.Insert(ctx, &models.Order{}), ErrUnavailable)
	_, err := m.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, m.Append(ctx, "x", 1, 2, time.Now()), ErrUnavailable)
}
