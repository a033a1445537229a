package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/catalog"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// ProductSource fetches the product collection. *catalog.Client implements it.
type ProductSource interface {
	Products(ctx context.Context) ([]catalog.Item, error)
}

// FetchState is the lifecycle record of one product list load. Loading is
// true only between Mount and the terminal outcome; Error and a populated
// Items are mutually exclusive.
type FetchState struct {
	Items   []catalog.Item
	Loading bool
	Error   string
}

// ProductLoader runs the fetch for one mounted product view. It issues
// exactly one request per loader; build a new loader for a new view.
type ProductLoader struct {
	source ProductSource
	log    logging.Logger

	mu        sync.Mutex
	state     FetchState
	mounted   bool
	unmounted bool
	cancel    context.CancelFunc
	onChange  func(FetchState)

	done     chan struct{}
	doneOnce sync.Once
}

// NewProductLoader returns an unmounted loader with an empty, idle state.
func NewProductLoader(source ProductSource, log logging.Logger) *ProductLoader {
	return &ProductLoader{
		source: source,
		log:    log.With("view", "products"),
		state:  FetchState{Items: []catalog.Item{}},
		done:   make(chan struct{}),
	}
}

// OnChange registers fn to be called with every state transition. It must
// be set before Mount.
func (l *ProductLoader) OnChange(fn func(FetchState)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Mount starts the fetch. Subsequent calls are no-ops.
func (l *ProductLoader) Mount(ctx context.Context) {
	l.mu.Lock()
	if l.mounted || l.unmounted {
		l.mu.Unlock()
		return
	}
	l.mounted = true
	ctx, l.cancel = context.WithCancel(ctx)
	l.state.Loading = true
	snapshot, notify := l.snapshotLocked(), l.onChange
	l.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}

	go l.fetch(ctx)
}

func (l *ProductLoader) fetch(ctx context.Context) {
	defer l.finish()

	items, err := l.source.Products(ctx)

	l.mu.Lock()
	if l.unmounted {
		l.mu.Unlock()
		l.log.Debug(ctx, "dropping fetch result after unmount")
		return
	}
	l.state.Loading = false
	if err != nil {
		l.state.Error = err.Error()
		l.log.Warn(ctx, "product fetch failed", "error", err)
	} else {
		if items == nil {
			items = []catalog.Item{}
		}
		l.state.Items = items
		l.log.Info(ctx, "products loaded", "count", len(items))
	}
	snapshot, notify := l.snapshotLocked(), l.onChange
	l.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

// Unmount tears the view down: the in-flight request is cancelled and its
// completion, if it still arrives, leaves the state untouched.
func (l *ProductLoader) Unmount() {
	l.mu.Lock()
	l.unmounted = true
	cancel := l.cancel
	mounted := l.mounted
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !mounted {
		l.finish()
	}
}

func (l *ProductLoader) finish() {
	l.doneOnce.Do(func() { close(l.done) })
}

// State returns a snapshot of the current state.
func (l *ProductLoader) State() FetchState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *ProductLoader) snapshotLocked() FetchState {
	s := l.state
	s.Items = append([]catalog.Item(nil), l.state.Items...)
	if s.Items == nil {
		s.Items = []catalog.Item{}
	}
	return s
}

// Done is closed once the fetch reached its terminal state or the loader
// was unmounted.
func (l *ProductLoader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until Done or ctx ends and returns the state at that point.
func (l *ProductLoader) Wait(ctx context.Context) (FetchState, error) {
	select {
	case <-l.done:
		return l.State(), nil
	case <-ctx.Done():
		return l.State(), ctx.Err()
	}
}
