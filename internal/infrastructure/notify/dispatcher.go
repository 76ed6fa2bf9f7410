// Package notify delivers committed-change notices to their sinks off the
// request path.
package notify

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/api/metrics"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

const (
	defaultWorkers = 2
	defaultBuffer  = 256
)

var (
	ErrQueueFull = errors.New("notice queue full")
	ErrClosed    = errors.New("notice dispatcher closed")
)

// Dispatcher fans notices out to a fixed set of workers. Notices about the
// same subject always land on the same worker, so they reach the sinks in
// the order they were emitted.
type Dispatcher struct {
	workers []chan domain.Notice
	sinks   []ports.EventSink
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer notices. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, log zerolog.Logger, sinks ...ports.EventSink) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.Notice, numWorkers),
		sinks:   sinks,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notice, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers deliver with ctx and exit
// once Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues n without blocking. It implements ports.EventSink.
func (d *Dispatcher) Notify(_ context.Context, n domain.Notice) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	idx := d.shardIndex(n)
	select {
	case d.workers[idx] <- n:
		metrics.NoticesQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.NoticesTotal.WithLabelValues(string(n.Kind), "dropped").Inc()
		return ErrQueueFull
	}
}

// Close stops accepting notices and waits for the queued ones to be
// delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a notice subject deterministically to a worker index.
func (d *Dispatcher) shardIndex(n domain.Notice) int {
	entity, _, _ := strings.Cut(string(n.Kind), "_")
	h := fnv.New32a()
	_, _ = h.Write([]byte(entity + ":" + strconv.FormatInt(n.SubjectID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notice) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for n := range ch {
		metrics.NoticesQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		d.deliver(ctx, id, n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, n domain.Notice) {
	result := "delivered"
	for _, sink := range d.sinks {
		if err := sink.Notify(ctx, n); err != nil {
			result = "failed"
			d.log.Error().Err(err).
				Str("kind", string(n.Kind)).
				Int64("subject_id", n.SubjectID).
				Int("worker_id", workerID).
				Msg("notice delivery failed")
		}
	}
	metrics.NoticesTotal.WithLabelValues(string(n.Kind), result).Inc()
}
