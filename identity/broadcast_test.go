package identity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublisherDeliversToEverySubscriber(t *testing.T) {
	p := NewPublisher[int]()

	var mu sync.Mutex
	got := map[string][]int{}
	record := func(name string) func(int) {
		return func(v int) {
			mu.Lock()
			defer mu.Unlock()
			got[name] = append(got[name], v)
		}
	}

	p.Subscribe(record("a"))
	p.Subscribe(record("b"))
	p.Publish(1)
	p.Publish(2)

	assert.Equal(t, []int{1, 2}, got["a"])
	assert.Equal(t, []int{1, 2}, got["b"])
	assert.Equal(t, 2, p.Len())
}

func TestPublisherUnsubscribeByHandle(t *testing.T) {
	p := NewPublisher[string]()

	var first, second []string
	unsubFirst := p.Subscribe(func(v string) { first = append(first, v) })
	p.Subscribe(func(v string) { second = append(second, v) })

	p.Publish("before")
	unsubFirst()
	unsubFirst() // second call is a no-op
	p.Publish("after")

	assert.Equal(t, []string{"before"}, first)
	assert.Equal(t, []string{"before", "after"}, second)
	assert.Equal(t, 1, p.Len())
}

func TestPublisherSameCallbackTwiceGetsTwoHandles(t *testing.T) {
	p := NewPublisher[int]()

	calls := 0
	fn := func(int) { calls++ }
	unsub := p.Subscribe(fn)
	p.Subscribe(fn)

	p.Publish(0)
	assert.Equal(t, 2, calls)

	unsub()
	p.Publish(0)
	assert.Equal(t, 3, calls)
}

func TestPublisherClose(t *testing.T) {
	p := NewPublisher[int]()

	called := false
	unsub := p.Subscribe(func(int) { called = true })
	p.Close()
	p.Publish(1)
	unsub()

	assert.False(t, called)
	assert.Zero(t, p.Len())
}

func TestPublisherCallbackMayUnsubscribeItself(t *testing.T) {
	p := NewPublisher[int]()

	var unsub func()
	calls := 0
	unsub = p.Subscribe(func(int) {
		calls++
		unsub()
	})

	p.Publish(1)
	p.Publish(2)
	assert.Equal(t, 1, calls)
}
