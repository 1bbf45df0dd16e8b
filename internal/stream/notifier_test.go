package stream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kriedko/tastepulse/internal/domain"
)

type stubService struct {
	domain.FeedbackService

	mu         sync.Mutex
	aggregate  domain.Aggregate
	version    domain.VersionToken
	versionErr error
}

func (s *stubService) Aggregates(_ context.Context) (domain.Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregate, nil
}

func (s *stubService) CurrentVersion(_ context.Context) (domain.VersionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versionErr != nil {
		return "", s.versionErr
	}
	return s.version, nil
}

func (s *stubService) set(version domain.VersionToken, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = version
	s.aggregate = domain.Aggregate{Count: count}
}

func (s *stubService) setVersionErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versionErr = err
}

type sentEvent struct {
	event   string
	payload any
}

type recordingSink struct {
	events  chan sentEvent
	sendErr error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{events: make(chan sentEvent, 64)}
}

func (r *recordingSink) Send(event string, payload any) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.events <- sentEvent{event: event, payload: payload}
	return nil
}

func (r *recordingSink) next(t *testing.T) sentEvent {
	t.Helper()
	select {
	case ev := <-r.events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stream event")
		return sentEvent{}
	}
}

func newTestNotifier(service domain.FeedbackService, clock clockwork.Clock) *Notifier {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNotifier(service, clock, time.Second, time.Hour, 5*time.Minute, logger)
}

func TestServeSendsInitialEvents(t *testing.T) {
	clock := clockwork.NewFakeClock()
	service := &stubService{version: "1"}
	service.set("1", 3)
	sink := newRecordingSink()
	notifier := newTestNotifier(service, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- notifier.Serve(ctx, sink) }()

	assert.Equal(t, EventAggregate, sink.next(t).event)
	tick := sink.next(t)
	assert.Equal(t, EventTick, tick.event)
	assert.Equal(t, TickPayload{Version: "1", Count: 3}, tick.payload)
	assert.Equal(t, EventPing, sink.next(t).event)

	cancel()
	require.NoError(t, <-done)
}

func TestServePushesOnVersionChange(t *testing.T) {
	clock := clockwork.NewFakeClock()
	service := &stubService{}
	service.set("1", 1)
	sink := newRecordingSink()
	notifier := newTestNotifier(service, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- notifier.Serve(ctx, sink) }()

	// Drain the connect burst, then wait for Serve to block on its timers.
	sink.next(t)
	sink.next(t)
	sink.next(t)
	clock.BlockUntil(3)

	service.set("2", 2)
	clock.Advance(time.Second)

	aggregate := sink.next(t)
	assert.Equal(t, EventAggregate, aggregate.event)
	assert.Equal(t, domain.Aggregate{Count: 2}, aggregate.payload)
	tick := sink.next(t)
	assert.Equal(t, EventTick, tick.event)
	assert.Equal(t, TickPayload{Version: "2", Count: 2}, tick.payload)

	cancel()
	require.NoError(t, <-done)
}

func TestServeSkipsUnchangedVersion(t *testing.T) {
	clock := clockwork.NewFakeClock()
	service := &stubService{}
	service.set("1", 1)
	sink := newRecordingSink()
	notifier := newTestNotifier(service, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- notifier.Serve(ctx, sink) }()

	sink.next(t)
	sink.next(t)
	sink.next(t)
	clock.BlockUntil(3)

	clock.Advance(time.Second)
	clock.BlockUntil(3)

	select {
	case ev := <-sink.events:
		t.Fatalf("unexpected event %q after unchanged poll", ev.event)
	default:
	}

	cancel()
	require.NoError(t, <-done)
}

func TestServeSurvivesPollError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	service := &stubService{}
	service.set("1", 1)
	sink := newRecordingSink()
	notifier := newTestNotifier(service, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- notifier.Serve(ctx, sink) }()

	sink.next(t)
	sink.next(t)
	sink.next(t)
	clock.BlockUntil(3)

	service.setVersionErr(errors.New("store offline"))
	clock.Advance(time.Second)
	clock.BlockUntil(3)

	// Recovery: a later poll with a new version still reaches the client.
	service.setVersionErr(nil)
	service.set("2", 2)
	clock.Advance(time.Second)

	assert.Equal(t, EventAggregate, sink.next(t).event)
	assert.Equal(t, EventTick, sink.next(t).event)

	cancel()
	require.NoError(t, <-done)
}

func TestServeStopsAfterMaxLifetime(t *testing.T) {
	clock := clockwork.NewFakeClock()
	service := &stubService{}
	service.set("1", 1)
	sink := newRecordingSink()
	notifier := newTestNotifier(service, clock)

	done := make(chan error, 1)
	go func() { done <- notifier.Serve(context.Background(), sink) }()

	sink.next(t)
	sink.next(t)
	sink.next(t)
	clock.BlockUntil(3)

	clock.Advance(5 * time.Minute)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not close after max lifetime")
	}
}

func TestServeReturnsSinkError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	service := &stubService{}
	service.set("1", 1)
	sink := newRecordingSink()
	sink.sendErr = errors.New("client went away")
	notifier := newTestNotifier(service, clock)

	err := notifier.Serve(context.Background(), sink)
	assert.Error(t, err)
}
