package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NotifyChannel is the Postgres NOTIFY channel the schema's triggers write
// to. The listener and the migration must agree on this name.
const NotifyChannel = "record_changes"

// Listener holds one database connection on LISTEN and feeds decoded
// change notifications into the hub. When the connection drops it
// reconnects with exponential backoff and announces a resync so
// subscribers re-fetch whatever they missed during the gap.
type Listener struct {
	pool   *pgxpool.Pool
	hub    *Hub
	logger zerolog.Logger
}

// NewListener creates a listener over the shared connection pool.
func NewListener(pool *pgxpool.Pool, hub *Hub, logger zerolog.Logger) *Listener {
	return &Listener{
		pool:   pool,
		hub:    hub,
		logger: logger.With().Str("component", "sync_listener").Logger(),
	}
}

// Run blocks, delivering notifications until the context is cancelled.
// Transport errors are retried internally and never returned; the only
// error Run reports is the context's.
func (l *Listener) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0 // retry for the life of the process

	for {
		err := l.listen(ctx, bo)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := bo.NextBackOff()
		l.logger.Warn().
			Err(err).
			Dur("retry_in", wait).
			Msg("change listener disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// listen acquires a connection, subscribes, announces the resync window
// and then blocks on notifications until the connection fails.
func (l *Listener) listen(ctx context.Context, bo *backoff.ExponentialBackOff) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return fmt.Errorf("failed to LISTEN on %s: %w", NotifyChannel, err)
	}

	l.logger.Info().Str("channel", NotifyChannel).Msg("change listener attached")
	bo.Reset()

	// Subscribers reconcile against the store now; anything that changed
	// while we were detached is picked up by their full fetch.
	l.hub.AnnounceResync()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("listener connection lost: %w", err)
		}

		ev, err := DecodeEvent([]byte(notification.Payload))
		if err != nil {
			l.logger.Warn().
				Err(err).
				Str("payload", notification.Payload).
				Msg("discarding malformed change notification")
			continue
		}

		l.logger.Debug().
			Str("family", string(ev.Family)).
			Str("change", string(ev.Change)).
			Str("record_id", ev.RecordID).
			Msg("change notification received")

		l.hub.Publish(ev)
	}
}
