package source

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/hand-particles/internal/gesture"
)

func TestRedisPublishesFrames(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	src := NewRedisFromClient(client, "landmarks", nil)
	defer src.Close()

	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- src.Run(ctx, rec) }()

	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels("landmarks")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	good, err := json.Marshal(TraceFrame{Frame: gesture.Frame{Hands: []gesture.Hand{gesture.SynthesizeHand(0.25, 0.5, 0, 0.3)}}})
	require.NoError(t, err)

	mr.Publish("landmarks", "garbage")
	mr.Publish("landmarks", `{"hands":[[{"x":1,"y":1,"z":0}]]}`)
	mr.Publish("landmarks", string(good))

	rec.wait(t, 1)
	got := rec.all()
	require.Len(t, got, 1, "malformed messages are dropped")
	assert.True(t, got[0].HasPalm)
	assert.InDelta(t, -200, got[0].PalmCenter.X, 1e-9)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop after cancel")
	}
}

func TestDecodeMessage(t *testing.T) {
	sig, err := decodeMessage(`{"t_ms":5,"hands":[]}`)
	require.NoError(t, err)
	assert.False(t, sig.HandDetected)

	_, err = decodeMessage(`{"hands":[[],[],[]]}`)
	assert.ErrorIs(t, err, gesture.ErrTooManyHands)
}
