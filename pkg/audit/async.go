package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AsyncOptions tunes the buffering behavior of an AsyncSink.
type AsyncOptions struct {
	BufferSize     int           // Max incidents queued in memory before falling back to the local logger.
	DeliverTimeout time.Duration // Per-incident timeout against the wrapped sink.
	Fallback       *slog.Logger  // Where undeliverable incidents are logged; defaults to slog.Default().
}

// AsyncSink decorates a Sink with a buffered background worker so the
// request path never blocks on audit delivery. Incidents are values by
// construction, so the hand-off cannot leak one request's context into
// another: the worker runs against context.Background with its own timeout.
//
// Delivery is best-effort: a full buffer and a failing wrapped sink each
// divert the incident to the fallback logger instead of failing or stalling
// the request that produced it.
type AsyncSink struct {
	next      Sink
	incidents chan Incident
	done      chan struct{}
	wg        sync.WaitGroup
	opts      AsyncOptions
	closeOnce sync.Once
}

// NewAsyncSink wraps next with an async buffer. The returned close function
// drains the buffer, bounded by its context.
func NewAsyncSink(next Sink, opts AsyncOptions) (*AsyncSink, func(context.Context) error) {
	if next == nil {
		panic("audit: async sink requires a wrapped sink")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 256
	}
	if opts.DeliverTimeout <= 0 {
		opts.DeliverTimeout = 5 * time.Second
	}
	if opts.Fallback == nil {
		opts.Fallback = slog.Default()
	}

	s := &AsyncSink{
		next:      next,
		incidents: make(chan Incident, opts.BufferSize),
		done:      make(chan struct{}),
		opts:      opts,
	}
	s.wg.Add(1)
	go s.worker()

	return s, s.Close
}

// Record queues the incident and returns immediately. It never blocks: when
// the buffer is full the incident goes to the fallback logger so the caller
// is unaffected.
func (s *AsyncSink) Record(ctx context.Context, incident Incident) error {
	incident = Stamp(incident)
	if err := incident.Validate(); err != nil {
		return err
	}

	select {
	case <-s.done:
		s.logFallback(incident, ErrSinkClosed)
		return ErrSinkClosed
	default:
	}

	select {
	case s.incidents <- incident:
		return nil
	default:
		s.logFallback(incident, nil)
		return nil
	}
}

func (s *AsyncSink) worker() {
	defer s.wg.Done()

	deliver := func(incident Incident) {
		// Deliberately detached from any request context: the request
		// that produced this incident may already be gone.
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.DeliverTimeout)
		defer cancel()
		if err := s.next.Record(ctx, incident); err != nil {
			s.logFallback(incident, err)
		}
	}

	for {
		select {
		case incident := <-s.incidents:
			deliver(incident)
		case <-s.done:
			// Drain without closing the channel; a racing Record may
			// still hold a reference.
			for {
				select {
				case incident := <-s.incidents:
					deliver(incident)
				default:
					return
				}
			}
		}
	}
}

func (s *AsyncSink) logFallback(incident Incident, err error) {
	attrs := []slog.Attr{
		slog.String("incident_id", incident.ID),
		slog.String("kind", incident.Kind),
		slog.String("severity", string(incident.Severity)),
		slog.String("resolved_tenant", incident.ResolvedTenant),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	s.opts.Fallback.LogAttrs(context.Background(), slog.LevelWarn, "audit incident not delivered", attrs...)
}

// Close stops the worker after draining buffered incidents. The context
// bounds how long the drain may take.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
