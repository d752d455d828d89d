package manager

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"redkeep-hq/redkeep/pkg/telemetry/metrics"
)

// Default watcher timings.
const (
	// DefaultDebounceInterval is the quiet window raw events must clear
	// before one logical change is delivered.
	DefaultDebounceInterval = 1 * time.Second

	// DefaultResubscribeDelay is how long the watcher waits before its
	// one automatic resubscribe after a subscription failure.
	DefaultResubscribeDelay = 500 * time.Millisecond
)

// EventType classifies a logical change to the watched file.
type EventType string

// Logical change types.
const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
	EventDeleted  EventType = "deleted"
	EventRenamed  EventType = "renamed"
)

// Event is one debounced logical change notification. The watcher performs
// no parsing or validation; an Event only says that the file changed.
type Event struct {
	// Type is the logical change type, decided by the latest raw event
	// in the debounce window.
	Type EventType

	// Path is the watched file path.
	Path string

	// Timestamp is when the notification was delivered.
	Timestamp time.Time

	// Reason summarizes the raw event burst that collapsed into this
	// notification, e.g. "write" or "3 raw events (rename, create, write)".
	Reason string
}

// WatcherConfig contains configuration for the file watcher.
type WatcherConfig struct {
	// Path is the configuration file to watch. The watcher subscribes
	// to the file's parent directory so editor rename-replace saves are
	// still observed, and filters events down to this one path.
	Path string

	// DebounceInterval is the quiet window for collapsing raw event
	// bursts (default: 1s).
	DebounceInterval time.Duration

	// ResubscribeDelay is the pause before the automatic resubscribe
	// attempt after a subscription failure (default: 500ms).
	ResubscribeDelay time.Duration

	// Metrics records raw events, debounced deliveries, and
	// resubscribes. Nil disables recording.
	Metrics *metrics.Collector
}

// Watcher observes exactly one configuration file and delivers debounced
// logical change notifications on Events. It is a pure change signal: the
// consumer decides what a change means.
//
// On a subscription failure the watcher attempts one automatic
// resubscribe after a short delay. A second failure is surfaced on
// Errors and the watcher stops delivering.
type Watcher struct {
	path    string
	dir     string
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
	metrics *metrics.Collector

	debounceInterval time.Duration
	resubscribeDelay time.Duration
	debounce         *Debouncer

	events chan Event
	errs   chan error
	fireCh chan struct{}

	mu           sync.Mutex
	pending      *pendingChange
	running      bool
	loopStarted  bool
	resubscribed bool
	stopCh       chan struct{}
	doneCh       chan struct{}
	closeOnce    sync.Once
}

// pendingChange accumulates the raw events of one debounce window.
type pendingChange struct {
	eventType EventType
	rawCount  int
	ops       []string
}

// NewWatcher creates a watcher for the configuration file in config.Path.
// The file itself does not have to exist yet, but its parent directory
// must. A nil logger uses slog.Default.
func NewWatcher(config *WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("watch path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	collector := config.Metrics
	if collector == nil {
		collector = metrics.NewCollector(&metrics.Config{Enabled: false}, nil)
	}
	debounceInterval := config.DebounceInterval
	if debounceInterval <= 0 {
		debounceInterval = DefaultDebounceInterval
	}
	resubscribeDelay := config.ResubscribeDelay
	if resubscribeDelay <= 0 {
		resubscribeDelay = DefaultResubscribeDelay
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	path := filepath.Clean(config.Path)

	return &Watcher{
		path:             path,
		dir:              filepath.Dir(path),
		fsw:              fsw,
		logger:           logger.With("component", "config.watcher"),
		metrics:          collector,
		debounceInterval: debounceInterval,
		resubscribeDelay: resubscribeDelay,
		debounce:         NewDebouncer(debounceInterval),
		events:           make(chan Event, 1),
		errs:             make(chan error, 1),
		fireCh:           make(chan struct{}, 1),
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}, nil
}

// Events returns the debounced change notification channel. It is closed
// by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel watch subscription failures are surfaced on
// after the automatic resubscribe is used up.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Start subscribes to the file's parent directory and begins delivering
// events. It does not block; cancel the context or call Close to stop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsw.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return &WatcherError{Path: w.path, Op: "watch", Cause: err}
	}

	w.logger.Info("configuration watcher started",
		"path", w.path,
		"debounce_ms", w.debounceInterval.Milliseconds(),
	)

	w.mu.Lock()
	w.loopStarted = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// IsRunning returns true while the event loop is delivering.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Close stops the watcher. After Close returns no further events are
// delivered and the Events channel is closed. Close is idempotent.
func (w *Watcher) Close() error {
	var closeErr error

	w.closeOnce.Do(func() {
		close(w.stopCh)

		w.mu.Lock()
		started := w.loopStarted
		w.mu.Unlock()
		if started {
			<-w.doneCh
		}

		w.debounce.Stop()
		closeErr = w.fsw.Close()

		close(w.events)
		close(w.errs)
	})

	return closeErr
}

// run is the event loop. It exits on stop, context cancellation, or an
// unrecoverable subscription failure.
func (w *Watcher) run(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case <-ctx.Done():
			w.logger.Info("configuration watcher stopped (context cancelled)")
			return

		case raw, ok := <-w.fsw.Events:
			if !ok {
				w.surface(&WatcherError{Path: w.path, Op: "watch",
					Cause: fmt.Errorf("event channel closed")})
				return
			}
			w.observe(raw)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.surface(&WatcherError{Path: w.path, Op: "watch",
					Cause: fmt.Errorf("error channel closed")})
				return
			}
			if !w.resubscribe(err) {
				return
			}

		case <-w.fireCh:
			event, ok := w.takePending()
			if !ok {
				continue
			}
			w.metrics.RecordDebouncedReload()
			w.logger.Debug("change notification",
				"path", event.Path,
				"type", string(event.Type),
				"reason", event.Reason,
			)
			select {
			case w.events <- event:
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// observe folds one raw event into the pending logical change and re-arms
// the debounce timer.
func (w *Watcher) observe(raw fsnotify.Event) {
	if filepath.Clean(raw.Name) != w.path {
		return
	}
	eventType, op, ok := classify(raw.Op)
	if !ok {
		return
	}

	w.metrics.RecordWatchEvent(op)

	w.mu.Lock()
	if w.pending == nil {
		w.pending = &pendingChange{}
	}
	// The latest raw event decides the logical type.
	w.pending.eventType = eventType
	w.pending.rawCount++
	if !contains(w.pending.ops, op) {
		w.pending.ops = append(w.pending.ops, op)
	}
	w.mu.Unlock()

	w.debounce.Trigger(func() {
		select {
		case w.fireCh <- struct{}{}:
		default:
		}
	})
}

// takePending converts the accumulated raw burst into one Event.
func (w *Watcher) takePending() (Event, bool) {
	w.mu.Lock()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()

	if pending == nil {
		return Event{}, false
	}

	reason := pending.ops[0]
	if pending.rawCount > 1 {
		reason = fmt.Sprintf("%d raw events (%s)", pending.rawCount, strings.Join(pending.ops, ", "))
	}

	return Event{
		Type:      pending.eventType,
		Path:      w.path,
		Timestamp: time.Now(),
		Reason:    reason,
	}, true
}

// resubscribe handles a subscription failure. The first failure gets one
// automatic re-add of the watch after a short delay; any further failure
// is surfaced and the watcher stops. Returns false when the loop should
// exit.
func (w *Watcher) resubscribe(cause error) bool {
	w.mu.Lock()
	alreadyUsed := w.resubscribed
	w.resubscribed = true
	w.mu.Unlock()

	if alreadyUsed {
		w.logger.Error("configuration watch failed again, stopping", "error", cause)
		w.surface(&WatcherError{Path: w.path, Op: "watch", Cause: cause})
		return false
	}

	w.logger.Warn("configuration watch failed, resubscribing",
		"error", cause,
		"delay_ms", w.resubscribeDelay.Milliseconds(),
	)

	select {
	case <-time.After(w.resubscribeDelay):
	case <-w.stopCh:
		return false
	}

	w.fsw.Remove(w.dir)
	if err := w.fsw.Add(w.dir); err != nil {
		w.logger.Error("configuration watch resubscribe failed", "error", err)
		w.surface(&WatcherError{Path: w.path, Op: "resubscribe", Cause: err})
		return false
	}

	w.metrics.RecordWatcherResubscribe()
	w.logger.Info("configuration watch resubscribed", "path", w.path)
	return true
}

// surface delivers a watcher error without blocking the loop. Nothing is
// delivered once shutdown has begun.
func (w *Watcher) surface(err *WatcherError) {
	select {
	case <-w.stopCh:
		return
	default:
	}
	select {
	case w.errs <- err:
	default:
	}
}

// classify maps a raw fsnotify op to a logical event type. Chmod-only
// events carry no content change and are dropped.
func classify(op fsnotify.Op) (EventType, string, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreated, "create", true
	case op.Has(fsnotify.Write):
		return EventModified, "write", true
	case op.Has(fsnotify.Remove):
		return EventDeleted, "remove", true
	case op.Has(fsnotify.Rename):
		return EventRenamed, "rename", true
	default:
		return "", "", false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Debouncer collapses rapid triggers into one callback after a quiet
// period. Each Trigger re-arms the timer; the latest callback wins.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger schedules the callback after the debounce interval. A trigger
// before the interval elapses replaces the callback and restarts the
// interval.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// Stop cancels any pending callback. The debouncer cannot be reused.
func (d *Debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
