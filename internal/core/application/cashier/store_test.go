package cashier

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/model/selection"
	"pos/internal/core/domain/services"
	"pos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSubmitter struct{ mock.Mock }

func (m *MockSubmitter) CreateOrder(ctx context.Context, submission order.Submission) (int, error) {
	args := m.Called(ctx, submission)
	return args.Int(0), args.Error(1)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStore(t *testing.T, submitter *MockSubmitter) (*Store, *clock) {
	t.Helper()
	catalog := menu.DefaultCatalog()
	s, err := NewStore(catalog, services.NewPriceCalculator(catalog.PriceBook()), submitter, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clk.Now
	return s, clk
}

func composeBowl(c *services.Composer) error {
	e := c.Engine()
	if err := e.SetCategory(menu.Bowl); err != nil {
		return err
	}
	if err := e.SelectSide(15); err != nil {
		return err
	}
	if err := e.SelectEntreeUnit(1); err != nil {
		return err
	}
	_, err := c.Commit()
	return err
}

func TestNewStore(t *testing.T) {
	catalog := menu.DefaultCatalog()
	calc := services.NewPriceCalculator(catalog.PriceBook())
	logger := slog.New(slog.DiscardHandler)

	_, err := NewStore(nil, calc, new(MockSubmitter), logger)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = NewStore(catalog, nil, new(MockSubmitter), logger)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = NewStore(catalog, calc, nil, logger)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestStore_CreateAndDo(t *testing.T) {
	s, _ := newStore(t, new(MockSubmitter))

	id, state, err := s.Create()
	require.NoError(t, err)
	require.NoError(t, id.Validate())
	assert.Empty(t, state.Lines)
	assert.Equal(t, 1, s.Len())

	state, err = s.Do(id, composeBowl)
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	assert.Equal(t, "9.80", state.Lines[0].Price.String())
	assert.Equal(t, "10.61", state.Totals.Total.String())
}

func TestStore_DoReturnsStateOnWarning(t *testing.T) {
	s, _ := newStore(t, new(MockSubmitter))
	id, _, err := s.Create()
	require.NoError(t, err)

	state, err := s.Do(id, func(c *services.Composer) error {
		if err := c.Engine().SetCategory(menu.Bowl); err != nil {
			return err
		}
		_, err := c.Commit()
		return err
	})

	var w *selection.Warning
	require.ErrorAs(t, err, &w)
	assert.Equal(t, menu.Bowl, state.Category)
	assert.Empty(t, state.Lines)
}

func TestStore_UnknownSession(t *testing.T) {
	s, _ := newStore(t, new(MockSubmitter))

	_, err := s.State(kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = s.State(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	require.ErrorIs(t, s.Close(kernel.NewUUID()), errs.ErrObjectNotFound)
}

func TestStore_Submit(t *testing.T) {
	ctx := t.Context()

	t.Run("success resets the draft", func(t *testing.T) {
		submitter := new(MockSubmitter)
		submitter.On("CreateOrder", ctx, mock.AnythingOfType("order.Submission")).Return(41, nil).Once()
		s, _ := newStore(t, submitter)
		id, _, err := s.Create()
		require.NoError(t, err)
		_, err = s.Do(id, composeBowl)
		require.NoError(t, err)

		receipt, err := s.Submit(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, 41, receipt.OrderID)
		assert.Equal(t, "10.61", receipt.Totals.Total.String())
		state, err := s.State(id)
		require.NoError(t, err)
		assert.Empty(t, state.Lines)
		submitter.AssertExpectations(t)
	})

	t.Run("failure keeps the draft", func(t *testing.T) {
		submitter := new(MockSubmitter)
		submitter.On("CreateOrder", ctx, mock.AnythingOfType("order.Submission")).
			Return(0, errors.New("service unavailable")).Once()
		s, _ := newStore(t, submitter)
		id, _, err := s.Create()
		require.NoError(t, err)
		_, err = s.Do(id, composeBowl)
		require.NoError(t, err)

		_, err = s.Submit(ctx, id)

		require.Error(t, err)
		state, err := s.State(id)
		require.NoError(t, err)
		assert.Len(t, state.Lines, 1)
	})

	t.Run("empty draft", func(t *testing.T) {
		submitter := new(MockSubmitter)
		s, _ := newStore(t, submitter)
		id, _, err := s.Create()
		require.NoError(t, err)

		_, err = s.Submit(ctx, id)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		submitter.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})
}

func TestStore_Sweep(t *testing.T) {
	s, clk := newStore(t, new(MockSubmitter))
	stale, _, err := s.Create()
	require.NoError(t, err)

	clk.Advance(20 * time.Minute)
	fresh, _, err := s.Create()
	require.NoError(t, err)

	clk.Advance(15 * time.Minute)
	removed := s.Sweep(30 * time.Minute)

	assert.Equal(t, 1, removed)
	_, err = s.State(stale)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	_, err = s.State(fresh)
	require.NoError(t, err)
}

func TestStore_SweepSkipsBusySession(t *testing.T) {
	s, clk := newStore(t, new(MockSubmitter))
	id, _, err := s.Create()
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Do(id, func(*services.Composer) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	clk.Advance(time.Hour)
	assert.Zero(t, s.Sweep(time.Minute))
	close(release)
	<-done

	assert.Equal(t, 1, s.Len())
}

func TestStore_RemovedAfterLookup(t *testing.T) {
	tests := []struct {
		name   string
		remove func(t *testing.T, s *Store, clk *clock, id kernel.UUID)
	}{
		{
			name: "swept",
			remove: func(t *testing.T, s *Store, clk *clock, _ kernel.UUID) {
				clk.Advance(time.Hour)
				require.Equal(t, 1, s.Sweep(time.Minute))
			},
		},
		{
			name: "closed",
			remove: func(t *testing.T, s *Store, _ *clock, id kernel.UUID) {
				require.NoError(t, s.Close(id))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clk := newStore(t, new(MockSubmitter))
			id, _, err := s.Create()
			require.NoError(t, err)

			sess, err := s.get(id)
			require.NoError(t, err)
			tt.remove(t, s, clk, id)

			called := false
			_, err = s.run(id, sess, func(*services.Composer) error {
				called = true
				return nil
			})
			require.ErrorIs(t, err, errs.ErrObjectNotFound)
			assert.False(t, called)
		})
	}
}

func TestStore_ConcurrentSessions(t *testing.T) {
	s, _ := newStore(t, new(MockSubmitter))

	var wg sync.WaitGroup
	ids := make([]kernel.UUID, 8)
	for i := range ids {
		id, _, err := s.Create()
		require.NoError(t, err)
		ids[i] = id
	}
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Do(id, composeBowl)
		}()
	}
	wg.Wait()

	for _, id := range ids {
		state, err := s.State(id)
		require.NoError(t, err)
		assert.Len(t, state.Lines, 1)
	}
}
