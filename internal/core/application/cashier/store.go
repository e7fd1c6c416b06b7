// Package cashier keeps the interactive order sessions of the cashier API. Each
// session owns one Composer and is used by one request at a time.
package cashier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/model/selection"
	"pos/internal/core/domain/services"
	"pos/internal/pkg/errs"
)

type session struct {
	mu       sync.Mutex
	composer *services.Composer
	lastUsed time.Time
	closed   bool
}

// Store is safe for concurrent use. Calls on the same session are serialized;
// different sessions never block each other.
type Store struct {
	catalog   *menu.Catalog
	pricer    selection.Pricer
	submitter services.OrderSubmitter
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[kernel.UUID]*session
}

func NewStore(
	catalog *menu.Catalog,
	pricer selection.Pricer,
	submitter services.OrderSubmitter,
	logger *slog.Logger,
) (*Store, error) {
	if catalog == nil {
		return nil, errs.NewValueIsRequiredError("catalog")
	}
	if pricer == nil {
		return nil, errs.NewValueIsRequiredError("pricer")
	}
	if submitter == nil {
		return nil, errs.NewValueIsRequiredError("submitter")
	}
	return &Store{
		catalog:   catalog,
		pricer:    pricer,
		submitter: submitter,
		logger:    logger.With("component", "cashier_store"),
		now:       time.Now,
		sessions:  make(map[kernel.UUID]*session),
	}, nil
}

// Create opens a session with an empty draft.
func (s *Store) Create() (kernel.UUID, services.State, error) {
	composer, err := services.NewComposer(s.catalog, s.pricer)
	if err != nil {
		return kernel.UUID{}, services.State{}, err
	}

	id := kernel.NewUUID()
	s.mu.Lock()
	s.sessions[id] = &session{composer: composer, lastUsed: s.now()}
	s.mu.Unlock()

	s.logger.Debug("session opened", "session_id", id.String())
	return id, composer.State(), nil
}

// Do runs fn on the composer of session id and returns the resulting state. The
// state is returned even when fn fails, since a rejected action leaves the
// session usable.
func (s *Store) Do(id kernel.UUID, fn func(*services.Composer) error) (services.State, error) {
	sess, err := s.get(id)
	if err != nil {
		return services.State{}, err
	}
	return s.run(id, sess, fn)
}

// run applies fn under the session lock. A session closed or swept after get
// returned it is reported as missing.
func (s *Store) run(id kernel.UUID, sess *session, fn func(*services.Composer) error) (services.State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return services.State{}, errs.NewObjectNotFoundError("session", id.String())
	}
	sess.lastUsed = s.now()

	err := fn(sess.composer)
	return sess.composer.State(), err
}

// State returns the current state of session id.
func (s *Store) State(id kernel.UUID) (services.State, error) {
	return s.Do(id, func(*services.Composer) error { return nil })
}

// Submit places the draft of session id. On success the session starts a new
// order; on failure the draft is kept as it was.
func (s *Store) Submit(ctx context.Context, id kernel.UUID) (order.Receipt, error) {
	var receipt order.Receipt
	_, err := s.Do(id, func(c *services.Composer) error {
		var err error
		receipt, err = c.Submit(ctx, s.submitter)
		return err
	})
	if err != nil {
		return order.Receipt{}, err
	}

	s.logger.InfoContext(ctx, "order submitted",
		"session_id", id.String(),
		"order_id", receipt.OrderID,
		"total", receipt.Totals.Total.String(),
	)
	return receipt, nil
}

// Close drops session id.
func (s *Store) Close(id kernel.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return errs.NewObjectNotFoundError("session", id.String())
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()
	return nil
}

// Sweep drops sessions idle for longer than ttl and returns how many were
// removed. A session in use is never swept.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		idle := sess.lastUsed.Before(cutoff)
		if idle {
			sess.closed = true
		}
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) get(id kernel.UUID) (*session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("session", id.String())
	}
	return sess, nil
}
