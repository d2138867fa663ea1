package push

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvFrame(t *testing.T, conn *Conn) Frame {
	t.Helper()
	select {
	case f := <-conn.Events():
		return f
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Frame{}
	}
}

func TestSubscribeSendsInitialAck(t *testing.T) {
	r := NewRegistry(time.Minute, 4)
	conn, err := r.Subscribe(1)
	require.NoError(t, err)

	f := recvFrame(t, conn)
	assert.Equal(t, "connect", f.Event)
	assert.Equal(t, 1, r.Len())
}

func TestDeliverToAbsentUserIsNotAnError(t *testing.T) {
	r := NewRegistry(time.Minute, 4)
	err := r.Deliver(42, Frame{Event: "notification", Data: "x"})
	assert.NoError(t, err)
}

func TestDeliverAndReceive(t *testing.T) {
	r := NewRegistry(time.Minute, 4)
	conn, err := r.Subscribe(1)
	require.NoError(t, err)
	recvFrame(t, conn) // drain ack

	require.NoError(t, r.Deliver(1, Frame{Event: "notification", Data: "hello"}))
	f := recvFrame(t, conn)
	assert.Equal(t, "notification", f.Event)
	assert.Equal(t, "hello", f.Data)
}

func TestDeliverFailureRemovesHandle(t *testing.T) {
	// buffer of 1 is consumed by the initial ack; the next send has nowhere
	// to go, which is indistinguishable from a stalled client
	r := NewRegistry(time.Minute, 1)
	_, err := r.Subscribe(1)
	require.NoError(t, err)

	err = r.Deliver(1, Frame{Event: "notification", Data: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.Equal(t, 0, r.Len())

	// subsequent deliver behaves as absent
	assert.NoError(t, r.Deliver(1, Frame{Event: "notification", Data: "y"}))
}

func TestSubscribeSupersedesAndClosesPrevious(t *testing.T) {
	r := NewRegistry(time.Minute, 4)
	first, err := r.Subscribe(1)
	require.NoError(t, err)
	second, err := r.Subscribe(1)
	require.NoError(t, err)

	select {
	case <-first.Done():
		// superseded handle was closed, not leaked
	case <-time.After(time.Second):
		t.Fatal("previous connection not closed on replace")
	}
	assert.Equal(t, 1, r.Len())

	recvFrame(t, second) // drain ack
	require.NoError(t, r.Deliver(1, Frame{Event: "notification", Data: "z"}))
	f := recvFrame(t, second)
	assert.Equal(t, "z", f.Data)
}

func TestUnsubscribeRemovesOnlyCurrentHandle(t *testing.T) {
	r := NewRegistry(time.Minute, 4)
	first, err := r.Subscribe(1)
	require.NoError(t, err)
	second, err := r.Subscribe(1)
	require.NoError(t, err)

	// a late cleanup from the superseded connection must not evict the new one
	r.Unsubscribe(1, first)
	assert.Equal(t, 1, r.Len())

	r.Unsubscribe(1, second)
	assert.Equal(t, 0, r.Len())
	select {
	case <-second.Done():
	default:
		t.Fatal("unsubscribed connection not closed")
	}
}

func TestIdleTimeoutDropsConnection(t *testing.T) {
	r := NewRegistry(50*time.Millisecond, 4)
	conn, err := r.Subscribe(1)
	require.NoError(t, err)

	select {
	case <-conn.Done():
	case <-time.After(time.Second):
		t.Fatal("idle connection not timed out")
	}
	assert.Equal(t, 0, r.Len())
	assert.NoError(t, r.Deliver(1, Frame{Event: "notification", Data: "late"}))
}

func TestDeliverToClosedConnRaisesThenAbsent(t *testing.T) {
	r := NewRegistry(time.Minute, 4)
	conn, err := r.Subscribe(1)
	require.NoError(t, err)
	recvFrame(t, conn)

	conn.close() // simulate transport error

	err = r.Deliver(1, Frame{Event: "notification", Data: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.NoError(t, r.Deliver(1, Frame{Event: "notification", Data: "y"}))
}
