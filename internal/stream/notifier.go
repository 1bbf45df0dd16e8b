// Package stream pushes aggregate updates to connected clients over a
// long-lived server-sent event connection. Clients receive a fresh
// aggregate immediately on connect and again whenever the store's
// version token changes.
package stream

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kriedko/tastepulse/internal/domain"
	"github.com/kriedko/tastepulse/internal/metrics"
)

// Event names pushed to clients.
const (
	EventAggregate = "aggregate"
	EventTick      = "tick"
	EventPing      = "ping"
)

// EventSink delivers a single named event to one client. Implementations
// are not required to be safe for concurrent use; Serve calls Send from a
// single goroutine.
type EventSink interface {
	Send(event string, payload any) error
}

// TickPayload accompanies the tick event so clients can cheaply detect
// missed updates.
type TickPayload struct {
	Version domain.VersionToken `json:"version"`
	Count   int                 `json:"count"`
}

// Notifier watches the feedback service for changes and fans the current
// aggregate out to subscribers.
type Notifier struct {
	service      domain.FeedbackService
	clock        clockwork.Clock
	pollInterval time.Duration
	pingInterval time.Duration
	maxLifetime  time.Duration
	logger       *slog.Logger
}

// NewNotifier creates a notifier. maxLifetime bounds every connection;
// clients are expected to reconnect when the stream closes.
func NewNotifier(service domain.FeedbackService, clock clockwork.Clock, pollInterval, pingInterval, maxLifetime time.Duration, logger *slog.Logger) *Notifier {
	return &Notifier{
		service:      service,
		clock:        clock,
		pollInterval: pollInterval,
		pingInterval: pingInterval,
		maxLifetime:  maxLifetime,
		logger:       logger,
	}
}

// Serve runs one client connection until the context is cancelled, the
// lifetime expires, or the sink fails. It returns nil on a clean close.
//
// The initial aggregate and ping are sent before the first poll so a new
// client never sees an empty stream.
func (n *Notifier) Serve(ctx context.Context, sink EventSink) error {
	metrics.StreamActiveClients.Inc()
	defer metrics.StreamActiveClients.Dec()

	aggregate, version, err := n.snapshot(ctx)
	if err != nil {
		return err
	}
	if err := n.pushAggregate(sink, aggregate, version); err != nil {
		return err
	}
	lastVersion := version
	if err := n.sendEvent(sink, EventPing, n.clock.Now().UTC()); err != nil {
		return err
	}

	poll := n.clock.NewTicker(n.pollInterval)
	defer poll.Stop()
	ping := n.clock.NewTicker(n.pingInterval)
	defer ping.Stop()
	lifetime := n.clock.NewTimer(n.maxLifetime)
	defer lifetime.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-lifetime.Chan():
			metrics.StreamLifetimeExpiredTotal.Inc()
			return nil

		case <-ping.Chan():
			if err := n.sendEvent(sink, EventPing, n.clock.Now().UTC()); err != nil {
				return err
			}

		case <-poll.Chan():
			version, err := n.service.CurrentVersion(ctx)
			if err != nil {
				metrics.StreamPollErrorsTotal.Inc()
				n.logger.Warn("stream poll failed", "error", err)
				continue
			}
			if version == lastVersion {
				continue
			}
			aggregate, version, err := n.snapshot(ctx)
			if err != nil {
				// The store hiccupped between the version check and the
				// read. Next poll retries; the connection stays up.
				continue
			}
			if err := n.pushAggregate(sink, aggregate, version); err != nil {
				return err
			}
			lastVersion = version
		}
	}
}

// snapshot reads the aggregate together with the version token it
// corresponds to. Service errors are counted but left to the caller.
func (n *Notifier) snapshot(ctx context.Context) (domain.Aggregate, domain.VersionToken, error) {
	aggregate, err := n.service.Aggregates(ctx)
	if err != nil {
		metrics.StreamPollErrorsTotal.Inc()
		n.logger.Warn("stream aggregate computation failed", "error", err)
		return domain.Aggregate{}, "", err
	}
	version, err := n.service.CurrentVersion(ctx)
	if err != nil {
		metrics.StreamPollErrorsTotal.Inc()
		return domain.Aggregate{}, "", err
	}
	return aggregate, version, nil
}

// pushAggregate sends the aggregate event followed by its tick marker.
func (n *Notifier) pushAggregate(sink EventSink, aggregate domain.Aggregate, version domain.VersionToken) error {
	if err := n.sendEvent(sink, EventAggregate, aggregate); err != nil {
		return err
	}
	return n.sendEvent(sink, EventTick, TickPayload{Version: version, Count: aggregate.Count})
}

func (n *Notifier) sendEvent(sink EventSink, event string, payload any) error {
	if err := sink.Send(event, payload); err != nil {
		return err
	}
	metrics.StreamEventsTotal.WithLabelValues(event).Inc()
	return nil
}
