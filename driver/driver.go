// Package driver implements the authoritative runtime loop for one state
// program: the single owner that applies the ordered transition stream,
// consults the suspended-event slot after every apply, arms the one pending
// timer, and broadcasts applied events to replication subscribers.
//
// The driver initializes from configuration via New, with functional options
// to override collaborators.
//
//	d := driver.New[T](factory.Create(), &cfg)
//	go d.Run(ctx)
//	seq, err := d.Submit(ctx, program.PlayerEvent(player, t))
package driver

import (
	"context"
	"time"

	"github.com/stateroom/stateroom/observability"
	"github.com/stateroom/stateroom/program"
)

// Record is one applied event with the sequence number the driver assigned
// to it. The sequence is the total order every replica must follow.
type Record[T any] struct {
	Seq   uint64
	Event program.TransitionEvent[T]
}

// Option configures a Driver after config-driven initialization.
type Option[T any] func(*Driver[T])

// WithObserver overrides the default NoOpObserver.
func WithObserver[T any](o observability.Observer) Option[T] {
	return func(d *Driver[T]) { d.observer = o }
}

// WithScheduler overrides the config-created fixed-delay scheduler.
func WithScheduler[T any](s Scheduler[T]) Option[T] {
	return func(d *Driver[T]) { d.scheduler = s }
}

// WithSessionID tags the driver's observability events with a session id.
func WithSessionID[T any](id string) Option[T] {
	return func(d *Driver[T]) { d.sessionID = id }
}

type inspectRequest[T any] struct {
	fn   func(program.StateProgram[T])
	done chan struct{}
}

type submitRequest[T any] struct {
	event program.TransitionEvent[T]
	seq   chan uint64
}

type subscriber[T any] struct {
	ch chan Record[T]
}

// Driver drives one StateProgram instance. All Apply and SuspendedEvent
// calls happen on the Run goroutine, strictly sequentially; every other
// method communicates with that goroutine and is safe for concurrent use.
type Driver[T any] struct {
	program   program.StateProgram[T]
	scheduler Scheduler[T]
	observer  observability.Observer
	sessionID string

	submits  chan submitRequest[T]
	inspects chan inspectRequest[T]
	done     chan struct{}

	// Guarded by the Run goroutine for writes; log reads and subscriber
	// changes are serialized through the loop as well, so no mutex is held
	// across Apply.
	seq  uint64
	log  []Record[T]
	subs map[*subscriber[T]]struct{}

	subscribes   chan subscribeRequest[T]
	unsubscribes chan *subscriber[T]

	subscriberBuffer int
}

type subscribeRequest[T any] struct {
	fromSeq uint64
	reply   chan subscribeReply[T]
}

type subscribeReply[T any] struct {
	sub    *subscriber[T]
	replay []Record[T]
}

// New creates a Driver for prog from configuration. Functional options
// applied after initialization can override any collaborator.
func New[T any](prog program.StateProgram[T], cfg *Config, opts ...Option[T]) *Driver[T] {
	d := &Driver[T]{
		program:          prog,
		scheduler:        FixedDelay[T](cfg.WakeDelay),
		observer:         observability.NoOpObserver{},
		submits:          make(chan submitRequest[T], cfg.QueueSize),
		inspects:         make(chan inspectRequest[T]),
		done:             make(chan struct{}),
		subs:             make(map[*subscriber[T]]struct{}),
		subscribes:       make(chan subscribeRequest[T]),
		unsubscribes:     make(chan *subscriber[T]),
		subscriberBuffer: cfg.SubscriberBuffer,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run executes the driver loop until ctx is cancelled. It owns all access to
// the state program: player events arrive through Submit, fired suspended
// events are synthesized here, and both pass through the same apply path.
//
// Run begins with one SuspendedEvent query before any apply, so a program
// whose initial state already wants a wake-up (or a program reloaded from a
// snapshot) is scheduled without waiting for the first player event; the
// pending answer is always recomputed from state, never restored.
func (d *Driver[T]) Run(ctx context.Context) error {
	defer close(d.done)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending *program.TransitionEvent[T]

	d.observer.OnEvent(ctx, observability.Event{
		Type:      EventStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "driver.Run",
		Session:   d.sessionID,
		Data:      map[string]any{"queued": len(d.submits)},
	})

	d.reschedule(ctx, timer, &pending)

	for {
		select {
		case <-ctx.Done():
			d.shutdown(ctx)
			return ctx.Err()

		case req := <-d.submits:
			seq := d.step(ctx, req.event)
			req.seq <- seq
			d.reschedule(ctx, timer, &pending)

		case <-timer.C:
			if pending == nil {
				continue
			}
			fired := *pending
			pending = nil
			d.observer.OnEvent(ctx, observability.Event{
				Type:      EventFire,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    "driver.Run",
				Session:   d.sessionID,
				Data:      map[string]any{"seq": d.seq + 1},
			})
			d.step(ctx, fired)
			d.reschedule(ctx, timer, &pending)

		case req := <-d.inspects:
			req.fn(d.program)
			close(req.done)

		case req := <-d.subscribes:
			sub := &subscriber[T]{ch: make(chan Record[T], d.subscriberBuffer)}
			d.subs[sub] = struct{}{}
			var replay []Record[T]
			if req.fromSeq <= d.seq {
				start := int(req.fromSeq)
				if req.fromSeq > 0 {
					start = int(req.fromSeq - 1)
				}
				replay = append(replay, d.log[start:]...)
			}
			req.reply <- subscribeReply[T]{sub: sub, replay: replay}

		case sub := <-d.unsubscribes:
			if _, ok := d.subs[sub]; ok {
				delete(d.subs, sub)
				close(sub.ch)
			}
		}
	}
}

// step applies one event, assigns its sequence number, and broadcasts it.
func (d *Driver[T]) step(ctx context.Context, event program.TransitionEvent[T]) uint64 {
	d.program.Apply(event)
	d.seq++

	rec := Record[T]{Seq: d.seq, Event: event}
	d.log = append(d.log, rec)

	var origin string
	if event.Originator != nil {
		origin = string(*event.Originator)
	}
	d.observer.OnEvent(ctx, observability.Event{
		Type:      EventApply,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "driver.Run",
		Session:   d.sessionID,
		Data: map[string]any{
			"seq":         d.seq,
			"originator":  origin,
			"player":      event.Originator != nil,
			"subscribers": len(d.subs),
		},
	})

	for sub := range d.subs {
		select {
		case sub.ch <- rec:
		default:
			// Slow consumer: dropping a record would fork its replica, so
			// drop the subscriber instead. It resubscribes from its last
			// applied sequence.
			delete(d.subs, sub)
			close(sub.ch)
			d.observer.OnEvent(ctx, observability.Event{
				Type:      EventSubscriberDrop,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    "driver.Run",
				Session:   d.sessionID,
				Data:      map[string]any{"seq": d.seq},
			})
		}
	}

	return d.seq
}

// reschedule queries the suspended slot and re-arms or disarms the timer.
// The previous answer is superseded entirely: a new event replaces it, a
// false result cancels it.
func (d *Driver[T]) reschedule(ctx context.Context, timer *time.Timer, pending **program.TransitionEvent[T]) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}

	event, ok := d.program.SuspendedEvent()
	if !ok {
		if *pending != nil {
			*pending = nil
			d.observer.OnEvent(ctx, observability.Event{
				Type:      EventSuspendClear,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    "driver.Run",
				Session:   d.sessionID,
			})
		}
		return
	}

	// Fired events are machine-originated regardless of what the program
	// put in the slot.
	event.Originator = nil
	*pending = &event

	delay := d.scheduler.Delay(event)
	timer.Reset(delay)

	d.observer.OnEvent(ctx, observability.Event{
		Type:      EventSuspend,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "driver.Run",
		Session:   d.sessionID,
		Data:      map[string]any{"delay": delay.String()},
	})
}

func (d *Driver[T]) shutdown(ctx context.Context) {
	for sub := range d.subs {
		delete(d.subs, sub)
		close(sub.ch)
	}
	d.observer.OnEvent(ctx, observability.Event{
		Type:      EventStop,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "driver.Run",
		Session:   d.sessionID,
		Data:      map[string]any{"seq": d.seq},
	})
}

// Submit enqueues a player-originated event and blocks until the driver has
// applied it, returning the assigned sequence number. Machine-originated
// events cannot be submitted: only a fired suspended event may carry a nil
// originator.
func (d *Driver[T]) Submit(ctx context.Context, event program.TransitionEvent[T]) (uint64, error) {
	if event.Originator == nil {
		return 0, ErrNoOriginator
	}

	req := submitRequest[T]{event: event, seq: make(chan uint64, 1)}

	select {
	case d.submits <- req:
	case <-d.done:
		return 0, ErrStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case seq := <-req.seq:
		return seq, nil
	case <-d.done:
		return 0, ErrStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Subscribe attaches a replication subscriber. Records with sequence numbers
// >= fromSeq are replayed first, then live records follow in order. The
// returned cancel function detaches the subscriber; the driver closes the
// channel on cancel, shutdown, or when the subscriber falls too far behind.
func (d *Driver[T]) Subscribe(ctx context.Context, fromSeq uint64) (<-chan Record[T], func(), error) {
	req := subscribeRequest[T]{fromSeq: fromSeq, reply: make(chan subscribeReply[T], 1)}

	select {
	case d.subscribes <- req:
	case <-d.done:
		return nil, nil, ErrStopped
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	reply := <-req.reply

	out := make(chan Record[T], len(reply.replay)+d.subscriberBuffer)
	for _, rec := range reply.replay {
		out <- rec
	}

	go func() {
		defer close(out)
		for rec := range reply.sub.ch {
			select {
			case out <- rec:
			case <-d.done:
				return
			}
		}
	}()

	cancel := func() {
		select {
		case d.unsubscribes <- reply.sub:
		case <-d.done:
		}
	}

	return out, cancel, nil
}

// Inspect runs fn against the state program on the driver goroutine,
// serialized with applies. fn must not retain the program.
func (d *Driver[T]) Inspect(ctx context.Context, fn func(program.StateProgram[T])) error {
	req := inspectRequest[T]{fn: fn, done: make(chan struct{})}

	select {
	case d.inspects <- req:
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the driver loop has exited.
func (d *Driver[T]) Done() <-chan struct{} {
	return d.done
}
