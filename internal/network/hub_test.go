package network

import (
	"os"
	"testing"

	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestBroadcaster_RegisterAndBroadcast(t *testing.T) {
	b := NewBroadcaster()
	a := b.Register("a")
	c := b.Register("c")
	assert.Equal(t, 2, b.SubscriberCount())

	snap := &api.Snapshot{Type: "UPDATE", Turn: 3}
	b.Broadcast(snap)

	assert.Same(t, snap, <-a)
	assert.Same(t, snap, <-c)
	assert.Same(t, snap, b.Last())
}

func TestBroadcaster_LateJoinerGetsLast(t *testing.T) {
	b := NewBroadcaster()
	snap := &api.Snapshot{Turn: 9}
	b.Broadcast(snap)

	ch := b.Register("late")
	require.Len(t, ch, 1)
	assert.Same(t, snap, <-ch)
}

func TestBroadcaster_ReRegisterClosesOld(t *testing.T) {
	b := NewBroadcaster()
	old := b.Register("x")
	fresh := b.Register("x")

	_, open := <-old
	assert.False(t, open)
	assert.Equal(t, 1, b.SubscriberCount())

	b.Unregister("x")
	_, open = <-fresh
	assert.False(t, open)
	assert.False(t, b.HasSubscriber("x"))
}

func TestBroadcaster_FullOutboxDrops(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("slow")

	for i := 0; i < OutboxSize; i++ {
		require.True(t, b.SendTo("slow", &api.Snapshot{Turn: uint64(i)}))
	}
	assert.False(t, b.SendTo("slow", &api.Snapshot{}))
	assert.Len(t, ch, OutboxSize)
	assert.False(t, b.SendTo("nobody", &api.Snapshot{}))
}
