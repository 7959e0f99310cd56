package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/gympulse/member-portal/internal/api/metrics"
	"github.com/gympulse/member-portal/internal/core/domain"
	"github.com/gympulse/member-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes session audit events to a fixed set of workers using
// consistent hashing on the session ID, so events for one session reach the
// sink in order. Enqueue never blocks the session path: a full worker
// queue drops the event and counts it.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	sink    ports.AuditSink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.AuditSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its session.
func (d *Dispatcher) Enqueue(event domain.AuditEvent) {
	select {
	case d.workers[d.shardIndex(event.SessionID)] <- event:
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("type", event.Type).Str("session_id", event.SessionID).Msg("audit event dropped")
	}
}

// shardIndex maps a session ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Record(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("type", event.Type).
					Str("session_id", event.SessionID).
					Int("worker_id", id).
					Msg("audit event sink failed")
			}
		}
	}
}
