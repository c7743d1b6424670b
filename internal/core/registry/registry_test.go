package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterIdempotent(t *testing.T) {
	r := New()

	var notified []string
	sub := r.Subscribe(func(name string) { notified = append(notified, name) })
	defer sub.Close()

	assert.True(t, r.Register("say"))
	assert.True(t, r.Register("join"))
	assert.False(t, r.Register("say"))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"say", "join"}, notified)
}

func TestRegistry_EmptyNameIgnored(t *testing.T) {
	r := New()

	assert.False(t, r.Register(""))
	assert.Zero(t, r.Len())
}

func TestRegistry_ListPreservesOrderAndIsCopy(t *testing.T) {
	r := New()
	for _, n := range []string{"c", "a", "b"} {
		r.Register(n)
	}

	list := r.List()
	require.Equal(t, []string{"c", "a", "b"}, list)

	list[0] = "mutated"
	assert.Equal(t, []string{"c", "a", "b"}, r.List())
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("mutated"))
}

func TestRegistry_NotifySynchronouslyInOrder(t *testing.T) {
	r := New()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		r.Subscribe(func(string) { order = append(order, i) })
	}

	r.Register("x")
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestRegistry_SubscriberSeesNewNameInList(t *testing.T) {
	r := New()

	var seen []string
	r.Subscribe(func(string) { seen = r.List() })

	r.Register("x")
	assert.Equal(t, []string{"x"}, seen)
}

func TestRegistry_NestedRegister(t *testing.T) {
	r := New()

	var got []string
	r.Subscribe(func(name string) {
		got = append(got, name)
		if name == "parent" {
			r.Register("child")
		}
	})

	r.Register("parent")
	assert.Equal(t, []string{"parent", "child"}, got)
}

func TestSubscription_Close(t *testing.T) {
	r := New()

	calls := 0
	sub := r.Subscribe(func(string) { calls++ })
	assert.Equal(t, 1, r.Subscribers())

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Zero(t, r.Subscribers())

	r.Register("after")
	assert.Zero(t, calls)
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	r := New()

	var mu sync.Mutex
	seen := make(map[string]int)
	r.Subscribe(func(name string) {
		mu.Lock()
		seen[name]++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range []string{"a", "b", "c"} {
				r.Register(n)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, seen)
}
