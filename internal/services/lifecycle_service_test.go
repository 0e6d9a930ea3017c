package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, store *memory.Store) uuid.UUID {
	t.Helper()
	svc := NewRegistrationService(store, store)
	p, err := svc.RegisterProject(context.Background(), uuid.New(), validProjectRequest())
	require.NoError(t, err)
	return p.ID
}

func TestAdvanceWalksPipeline(t *testing.T) {
	store := memory.New()
	svc := NewLifecycleService(store)
	ctx := context.Background()
	id := seedProject(t, store)

	want := []struct {
		status     lifecycle.Status
		percentage int
	}{
		{lifecycle.InProgress, 25},
		{lifecycle.Review, 50},
		{lifecycle.Completed, 75},
		{lifecycle.Delivered, 100},
	}
	for i, w := range want {
		p, err := svc.Advance(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, w.status, p.Status)
		assert.Equal(t, w.percentage, p.CompletionPercentage)
		assert.Len(t, p.StatusHistory, i+2)
	}

	history, err := svc.History(ctx, id)
	require.NoError(t, err)
	for i, h := range history {
		assert.Equal(t, lifecycle.Status(i), h.Status)
		assert.Equal(t, h.Status.Percentage(), h.Percentage)
	}
}

func TestAdvanceDeliveredIsTerminal(t *testing.T) {
	store := memory.New()
	svc := NewLifecycleService(store)
	ctx := context.Background()
	id := seedProject(t, store)
	for i := 0; i < 4; i++ {
		_, err := svc.Advance(ctx, id)
		require.NoError(t, err)
	}

	_, err := svc.Advance(ctx, id)
	assert.ErrorIs(t, err, ErrProjectDelivered)

	p, err := svc.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Delivered, p.Status)
	assert.Len(t, p.StatusHistory, 5)
}

func TestAdvanceUnknownProject(t *testing.T) {
	svc := NewLifecycleService(memory.New())
	_, err := svc.Advance(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = svc.History(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

// corruptStore returns the wrapped project with a status outside the pipeline.
type corruptStore struct {
	ProjectStore
}

func (c corruptStore) FindProject(ctx context.Context, id uuid.UUID) (*models.ProjectRegistration, error) {
	p, err := c.ProjectStore.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = lifecycle.Status(42)
	return p, nil
}

func TestAdvanceUnknownStatusIsInternal(t *testing.T) {
	store := memory.New()
	id := seedProject(t, store)
	svc := NewLifecycleService(corruptStore{ProjectStore: store})

	_, err := svc.Advance(context.Background(), id)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrProjectDelivered))
	assert.ErrorIs(t, err, lifecycle.ErrUnknownStatus)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	p, err := store.FindProject(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Initiated, p.Status)
	assert.Len(t, p.StatusHistory, 1)
}

// barrierStore holds every FindProject until n callers have read, so that
// all of them observe the same starting status.
type barrierStore struct {
	ProjectStore
	reads sync.WaitGroup
}

func (b *barrierStore) FindProject(ctx context.Context, id uuid.UUID) (*models.ProjectRegistration, error) {
	p, err := b.ProjectStore.FindProject(ctx, id)
	b.reads.Done()
	b.reads.Wait()
	return p, err
}

func TestConcurrentAdvanceRecordsOneTransition(t *testing.T) {
	store := memory.New()
	id := seedProject(t, store)

	const n = 6
	barrier := &barrierStore{ProjectStore: store}
	barrier.reads.Add(n)
	svc := NewLifecycleService(barrier)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Advance(context.Background(), id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConcurrentAdvance):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)

	p, err := store.FindProject(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.InProgress, p.Status)
	assert.Len(t, p.StatusHistory, 2)
}

func TestListStatuses(t *testing.T) {
	store := memory.New()
	svc := NewLifecycleService(store)
	seedProject(t, store)
	seedProject(t, store)

	list, err := svc.ListStatuses(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
