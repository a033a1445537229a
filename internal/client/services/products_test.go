package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/storefront/internal/client/catalog"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

func waitState(t *testing.T, l *ProductLoader) FetchState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s, err := l.Wait(ctx)
	require.NoError(t, err)
	return s
}

func TestProductLoader_InitialState(t *testing.T) {
	l := NewProductLoader(&fakeSource{}, logging.Discard())

	s := l.State()
	assert.NotNil(t, s.Items)
	assert.Empty(t, s.Items)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
}

func TestProductLoader_SuccessKeepsOrder(t *testing.T) {
	items := []catalog.Item{{ID: 3, Title: "C"}, {ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	src := &fakeSource{items: items, started: make(chan struct{}), release: make(chan struct{})}
	l := NewProductLoader(src, logging.Discard())

	l.Mount(context.Background())
	<-src.started
	require.True(t, l.State().Loading, "loading while the request is in flight")

	close(src.release)
	s := waitState(t, l)

	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, items, s.Items)
}

func TestProductLoader_EmptyCollection(t *testing.T) {
	l := NewProductLoader(&fakeSource{items: nil}, logging.Discard())

	l.Mount(context.Background())
	s := waitState(t, l)

	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.NotNil(t, s.Items)
	assert.Empty(t, s.Items)
}

func TestProductLoader_Failure(t *testing.T) {
	l := NewProductLoader(&fakeSource{err: errors.New("Network request failed")}, logging.Discard())

	l.Mount(context.Background())
	s := waitState(t, l)

	assert.False(t, s.Loading)
	assert.Equal(t, "Network request failed", s.Error)
	assert.Empty(t, s.Items)
}

func TestProductLoader_MountOnce(t *testing.T) {
	src := &fakeSource{}
	l := NewProductLoader(src, logging.Discard())

	l.Mount(context.Background())
	l.Mount(context.Background())
	_ = waitState(t, l)
	l.Mount(context.Background())

	assert.Equal(t, 1, src.callCount())
}

func TestProductLoader_OnChangeSequence(t *testing.T) {
	l := NewProductLoader(&fakeSource{items: []catalog.Item{{ID: 1}}}, logging.Discard())

	var (
		mu     sync.Mutex
		states []FetchState
	)
	l.OnChange(func(s FetchState) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	l.Mount(context.Background())
	_ = waitState(t, l)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
	assert.Len(t, states[1].Items, 1)
}

func TestProductLoader_CompletionAfterUnmountIsNoOp(t *testing.T) {
	src := &fakeSource{
		items:   []catalog.Item{{ID: 1}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	l := NewProductLoader(src, logging.Discard())

	l.Mount(context.Background())
	<-src.started
	l.Unmount()
	close(src.release)

	_ = waitState(t, l)
	s := l.State()
	assert.True(t, s.Loading, "state is left as it was at unmount")
	assert.Empty(t, s.Items)
	assert.Empty(t, s.Error)
}

func TestProductLoader_UnmountBeforeMount(t *testing.T) {
	src := &fakeSource{}
	l := NewProductLoader(src, logging.Discard())

	l.Unmount()
	l.Mount(context.Background())

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}
	assert.Zero(t, src.callCount())
}

func TestProductLoader_WaitHonorsContext(t *testing.T) {
	src := &fakeSource{started: make(chan struct{}), release: make(chan struct{})}
	defer close(src.release)
	l := NewProductLoader(src, logging.Discard())
	l.Mount(context.Background())
	<-src.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := l.Wait(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, s.Loading)
}
