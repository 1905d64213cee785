package server

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/chatroom/internal/chat"
)

func newDetachedClient(sendBuffer int) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	room := chat.NewRoom(chat.Options{Logger: logger})
	return NewClient(nil, NewHub(logger), room, "test-conn", "127.0.0.1:12345", ClientOptions{
		MaxMessageSize: 512,
		SendBuffer:     sendBuffer,
		RateBurst:      5,
		RateInterval:   time.Second,
		Logger:         logger,
	})
}

func TestClientSendQueuesFrames(t *testing.T) {
	c := newDetachedClient(2)

	require.NoError(t, c.Send([]byte("one")))
	require.NoError(t, c.Send([]byte("two")))
	assert.ErrorIs(t, c.Send([]byte("three")), errSendBufferFull)

	assert.Equal(t, []byte("one"), <-c.sendChan())
	assert.Equal(t, []byte("two"), <-c.sendChan())
}

func TestClientCloseFlushesThenRefuses(t *testing.T) {
	c := newDetachedClient(4)
	require.NoError(t, c.Send([]byte("error frame")))

	c.Close()
	c.Close()

	assert.ErrorIs(t, c.Send([]byte("late")), errClientClosed)

	frame, ok := <-c.sendChan()
	assert.True(t, ok)
	assert.Equal(t, []byte("error frame"), frame)

	_, ok = <-c.sendChan()
	assert.False(t, ok, "send channel must be closed after the queued frame")
}

func TestClientImplementsConn(t *testing.T) {
	var _ chat.Conn = newDetachedClient(1)
	assert.Equal(t, "test-conn", newDetachedClient(1).id)
}
