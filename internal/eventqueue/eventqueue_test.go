package eventqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vincent99/makbe-go/internal/keyswitch"
)

func TestFIFOOrdering(t *testing.T) {
	q := New(4)
	s1, s2, s3 := keyswitch.Nop(), keyswitch.Nop(), keyswitch.Nop()
	q.Enqueue(Event{Kind: keyswitch.Pressed, Switch: s1}, 1)
	q.Enqueue(Event{Kind: keyswitch.Pressed, Switch: s2}, 2)
	q.Enqueue(Event{Kind: keyswitch.Released, Switch: s3}, 3)

	for _, want := range []*keyswitch.KeySwitch{s1, s2, s3} {
		got, ok := q.Dequeue()
		require.True(t, ok, "expected an item")
		assert.Same(t, want, got.Event.Switch, "dequeued out of order")
	}
	assert.True(t, q.IsEmpty())
}

func TestOverflowDropsOldest(t *testing.T) {
	q := New(2)
	s1, s2, s3 := keyswitch.Nop(), keyswitch.Nop(), keyswitch.Nop()
	q.Enqueue(Event{Switch: s1}, 1)
	q.Enqueue(Event{Switch: s2}, 2)
	q.Enqueue(Event{Switch: s3}, 3) // drops s1

	require.Equal(t, 2, q.Size())

	first, _ := q.Dequeue()
	assert.Same(t, s2, first.Event.Switch, "oldest surviving entry should be s2")

	second, _ := q.Dequeue()
	assert.Same(t, s3, second.Event.Switch, "newest entry should be s3")
}

func TestCapacityNeverExceeded(t *testing.T) {
	q := New(3)
	for i := 0; i < 100; i++ {
		q.Enqueue(Event{Switch: keyswitch.Nop()}, int64(i))
		require.LessOrEqual(t, q.Size(), 3, "size exceeded capacity")
	}
}

func TestWrapAroundAfterManyDequeues(t *testing.T) {
	q := New(2)
	for i := 0; i < 10; i++ {
		q.Enqueue(Event{}, int64(i))
		got, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, int64(i), got.Timestamp)
	}
}
