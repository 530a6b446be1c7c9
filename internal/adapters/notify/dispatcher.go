// Package notify entrega el hecho "mascota creada" a observers en segundo plano:
// cola acotada, pool de workers y reintentos con backoff exponencial por observer.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"petworld/internal/domain/pets"
	"petworld/internal/platform/logger"

	"github.com/cenkalti/backoff/v4"
)

// Observer recibe eventos ya desacoplados del request.
// Devolver backoff.Permanent(err) corta los reintentos.
type Observer interface {
	Name() string
	PetCreated(ctx context.Context, ev pets.CreatedEvent) error
}

type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int

	InitialInterval time.Duration
	MaxInterval     time.Duration
	// DeliveryTimeout acota cada intento de entrega.
	DeliveryTimeout time.Duration

	Logger logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 2
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 10
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 200 * time.Millisecond
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = 5 * time.Second
	}
	if o.DeliveryTimeout <= 0 {
		o.DeliveryTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

type job struct {
	ev  pets.CreatedEvent
	log logger.Logger
}

// Dispatcher implementa pets.Notifier.
type Dispatcher struct {
	opts      Options
	observers []Observer

	queue chan job
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	stop context.CancelFunc
	ctx  context.Context
}

var ErrClosed = errors.New("dispatcher closed")

func NewDispatcher(opts Options, observers ...Observer) *Dispatcher {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		opts:      opts,
		observers: observers,
		queue:     make(chan job, opts.QueueSize),
		ctx:       ctx,
		stop:      cancel,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// PetCreated encola sin bloquear. Si la cola está llena el evento se descarta con un warn.
func (d *Dispatcher) PetCreated(ctx context.Context, ev pets.CreatedEvent) {
	l := logger.FromContext(ctx, d.opts.Logger).With(map[string]any{"pet_id": ev.PetID})
	if len(d.observers) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		l.Warn("notification dropped", map[string]any{"reason": ErrClosed})
		return
	}

	select {
	case d.queue <- job{ev: ev, log: l}:
	default:
		l.Warn("notification dropped", map[string]any{"reason": "queue full", "queue_size": d.opts.QueueSize})
	}
}

// Close deja de aceptar eventos y espera a que se vacíe la cola.
// Si ctx vence antes, cancela las entregas en curso.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.stop()
		return nil
	case <-ctx.Done():
		d.stop()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		for _, o := range d.observers {
			d.deliver(o, j)
		}
	}
}

func (d *Dispatcher) deliver(o Observer, j job) {
	l := j.log.With(map[string]any{"observer": o.Name()})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.opts.InitialInterval
	b.MaxInterval = d.opts.MaxInterval
	b.MaxElapsedTime = 0 // corta MaxAttempts

	attempts := 0
	op := func() error {
		attempts++
		ctx, cancel := context.WithTimeout(d.ctx, d.opts.DeliveryTimeout)
		defer cancel()
		return safeCall(ctx, o, j.ev)
	}
	onRetry := func(err error, wait time.Duration) {
		l.Debug("notification retry", map[string]any{"err": err, "attempt": attempts, "wait_ms": wait.Milliseconds()})
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.opts.MaxAttempts-1)), d.ctx)
	if err := backoff.RetryNotify(op, policy, onRetry); err != nil {
		l.Error("notification failed", map[string]any{"err": err, "attempts": attempts})
		return
	}
	l.Debug("notification delivered", map[string]any{"attempts": attempts})
}

// safeCall convierte un pánico del observer en error permanente.
func safeCall(ctx context.Context, o Observer, ev pets.CreatedEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = backoff.Permanent(errors.New("observer panicked"))
		}
	}()
	return o.PetCreated(ctx, ev)
}
