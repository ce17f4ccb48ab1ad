package sigdispatch

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"burrow/internal/logging"
)

// Action is a callback slot bound to one signal.
type Action func(os.Signal) error

// Reason is the structured shutdown value delivered to the run loop in
// place of control-flow exceptions.
type Reason struct {
	Signal     os.Signal
	ReceivedAt time.Time
}

func (r Reason) String() string {
	return fmt.Sprintf("shutdown requested by signal %v", r.Signal)
}

// Dispatcher maps signals to typed callback slots. Populate the table with
// Handle/HandleShutdown before calling Start; registration after Start
// panics, keeping the table effectively immutable while live.
type Dispatcher struct {
	logger   *slog.Logger
	mu       sync.Mutex
	started  bool
	actions  map[os.Signal]Action
	shutdown map[os.Signal]bool
	incoming chan os.Signal
	reasons  chan Reason
	done     chan struct{}
}

// New returns an empty dispatch table.
func New(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		logger:   logging.NewComponentLogger(logger, "sigdispatch"),
		actions:  make(map[os.Signal]Action),
		shutdown: make(map[os.Signal]bool),
		reasons:  make(chan Reason, 1),
		done:     make(chan struct{}),
	}
}

// Handle binds an action to a signal without marking it as a shutdown
// trigger (e.g. SIGHUP for config reload).
func (d *Dispatcher) Handle(sig os.Signal, action Action) {
	d.bind(sig, action, false)
}

// HandleShutdown binds an optional action to a signal and marks delivery of
// that signal as a shutdown request. The action cannot veto shutdown: its
// error is logged and the Reason is emitted regardless.
func (d *Dispatcher) HandleShutdown(sig os.Signal, action Action) {
	d.bind(sig, action, true)
}

func (d *Dispatcher) bind(sig os.Signal, action Action, terminal bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		panic("sigdispatch: table must be populated before Start")
	}
	d.actions[sig] = action
	if terminal {
		d.shutdown[sig] = true
	}
}

// Start subscribes the table to OS delivery and returns the shutdown reason
// channel. The first shutdown signal wins; later ones are dispatched to
// their actions but produce no further Reason.
func (d *Dispatcher) Start() <-chan Reason {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return d.reasons
	}
	d.started = true

	signals := make([]os.Signal, 0, len(d.actions))
	for sig := range d.actions {
		signals = append(signals, sig)
	}
	d.incoming = make(chan os.Signal, len(signals)+1)
	signal.Notify(d.incoming, signals...)

	go d.loop(d.incoming)
	return d.reasons
}

// Stop unsubscribes from OS delivery and ends the dispatch loop.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started || d.incoming == nil {
		return
	}
	signal.Stop(d.incoming)
	close(d.done)
	d.incoming = nil
}

func (d *Dispatcher) loop(incoming <-chan os.Signal) {
	for {
		select {
		case <-d.done:
			return
		case sig, ok := <-incoming:
			if !ok {
				return
			}
			d.dispatch(sig)
		}
	}
}

func (d *Dispatcher) dispatch(sig os.Signal) {
	action := d.actions[sig]
	if action != nil {
		if err := action(sig); err != nil {
			d.logger.Warn("signal action failed",
				logging.String(logging.FieldSignal, fmt.Sprint(sig)),
				logging.Error(err))
		}
	}
	if !d.shutdown[sig] {
		return
	}
	reason := Reason{Signal: sig, ReceivedAt: time.Now()}
	select {
	case d.reasons <- reason:
	default:
		// A shutdown reason is already pending; the run loop only consumes one.
	}
}
