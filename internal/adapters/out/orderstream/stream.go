// Package orderstream keeps a kitchen display subscribed to the order channel.
// Every (re)connect refetches the bootstrap snapshot so events missed while
// disconnected are never lost for good.
package orderstream

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/websocket"
)

// Sink receives the snapshot refresh and the raw channel messages.
type Sink interface {
	Refresh(ctx context.Context) error
	ApplyMessage(data []byte)
}

// Stream reconnects with exponential backoff until its context ends.
type Stream struct {
	url        string
	origin     string
	sink       Sink
	logger     *slog.Logger
	newBackOff func() backoff.BackOff
}

// NewStream creates a stream reading wsURL. origin is sent in the handshake.
func NewStream(wsURL, origin string, sink Sink, logger *slog.Logger) *Stream {
	return &Stream{
		url:    wsURL,
		origin: origin,
		sink:   sink,
		logger: logger.With("component", "order_stream"),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// WithBackOff replaces the reconnect policy.
func (s *Stream) WithBackOff(newBackOff func() backoff.BackOff) *Stream {
	s.newBackOff = newBackOff
	return s
}

// Run connects, reads and reconnects until ctx is done or the backoff policy
// gives up. It returns ctx.Err() on cancellation.
func (s *Stream) Run(ctx context.Context) error {
	b := backoff.WithContext(s.newBackOff(), ctx)

	for {
		connected, err := s.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			b.Reset()
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.logger.WarnContext(ctx, "order channel lost, reconnecting",
			"error", err,
			"retry_in", wait.String(),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// session runs one connection. It reports whether the handshake succeeded.
func (s *Stream) session(ctx context.Context) (bool, error) {
	cfg, err := websocket.NewConfig(s.url, s.origin)
	if err != nil {
		return false, err
	}
	conn, err := cfg.DialContext(ctx)
	if err != nil {
		return false, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	s.logger.InfoContext(ctx, "order channel connected", "url", s.url)
	if err := s.sink.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "bootstrap refetch failed", "error", err)
	}

	for {
		var msg []byte
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			if ctx.Err() != nil {
				return true, ctx.Err()
			}
			return true, errors.Join(errors.New("order channel closed"), err)
		}
		s.sink.ApplyMessage(msg)
	}
}
