// Package engine sequences every catalog operation: start transition, one
// transport call, then a success or failure transition. Failures never
// propagate to the caller; they are recorded in the state and reported
// through the notifier.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lepinkainen/shelf/internal/account"
	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/debounce"
	"github.com/lepinkainen/shelf/internal/notify"
)

// Transport is the catalog server as seen by the engine.
type Transport interface {
	ListBooks(ctx context.Context, page int) ([]catalog.Book, error)
	SearchBooks(ctx context.Context, query string, page int) ([]catalog.Book, error)
	Recommendations(ctx context.Context, title string) ([]catalog.Book, error)
	CreateBook(ctx context.Context, book catalog.NewBook) (catalog.Book, error)
	CreateRating(ctx context.Context, rating catalog.RatingRequest) (catalog.Rating, error)
	LoadUsers(ctx context.Context) ([]account.User, error)
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password string) error
}

// Snapshot is what renderers read: the catalog plus the session.
type Snapshot struct {
	catalog.Snapshot
	Account account.State
}

// Listener is called with a fresh snapshot after every transition. It runs
// while change delivery is serialized, so it must return quickly and must
// not call engine intents itself.
type Listener func(Snapshot)

// Engine owns the catalog state. All methods are safe for concurrent use.
type Engine struct {
	transport Transport
	notifier  notify.Notifier
	logger    *slog.Logger
	debouncer *debounce.Debouncer

	// ctx bounds searches fired by the debouncer, which have no caller.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    *catalog.State
	accounts account.State

	// emitMu keeps listener deliveries in transition order.
	emitMu       sync.Mutex
	listenerMu   sync.Mutex
	listeners    map[int]Listener
	nextListener int

	recommendations singleflight.Group
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithNotifier sets where user notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDebouncer sets the search debouncer.
func WithDebouncer(d *debounce.Debouncer) Option {
	return func(e *Engine) {
		if d != nil {
			e.debouncer = d
		}
	}
}

// WithContext sets the parent context of debounced searches.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// New creates an engine in the initial state: browse mode, page 0, empty.
func New(t Transport, opts ...Option) *Engine {
	e := &Engine{
		transport: t,
		notifier:  notify.Discard,
		logger:    slog.Default(),
		ctx:       context.Background(),
		state:     catalog.NewState(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.debouncer == nil {
		e.debouncer = debounce.New(debounce.DefaultDelay)
	}
	e.ctx, e.cancel = context.WithCancel(e.ctx)
	return e
}

// Close drops any pending debounced search and cancels debounced searches
// in flight.
func (e *Engine) Close() {
	e.debouncer.Cancel()
	e.cancel()
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Snapshot: e.state.Snapshot(),
		Account:  e.accounts.Clone(),
	}
}

// Subscribe registers l and returns a function that removes it.
func (e *Engine) Subscribe(l Listener) func() {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()
	id := e.nextListener
	e.nextListener++
	e.listeners[id] = l
	return func() {
		e.listenerMu.Lock()
		defer e.listenerMu.Unlock()
		delete(e.listeners, id)
	}
}

// update applies fn as one atomic transition and delivers the resulting
// snapshot to listeners.
func (e *Engine) update(fn func()) {
	e.mu.Lock()
	fn()
	snap := e.snapshotLocked()
	e.emitMu.Lock()
	e.mu.Unlock()
	defer e.emitMu.Unlock()

	e.listenerMu.Lock()
	listeners := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	e.listenerMu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// read runs fn under the state lock without notifying listeners.
func (e *Engine) read(fn func(*catalog.State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
}
