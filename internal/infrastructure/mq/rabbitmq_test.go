package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"file-share-api/config"
)

func TestPublish_DropsWhenBufferFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := New(config.MQ{Exchange: "x"}, zap.New(core))

	for i := 0; i < bufferSize; i++ {
		r.Publish(NewEvent(KeyFileUploaded, "u", nil))
	}
	assert.Equal(t, 0, logs.Len())

	r.Publish(NewEvent(KeyFileOrphaned, "u", OrphanPayload{Path: "1/2/a.txt"}))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "mq buffer full, event dropped", entry.Message)
	assert.Equal(t, KeyFileOrphaned, entry.ContextMap()["type"])
	assert.Len(t, r.in, bufferSize)
}

func TestEvent_JSON(t *testing.T) {
	e := NewEvent(KeyFileOrphaned, "user-1", OrphanPayload{Path: "1/2/a.txt"})
	assert.Equal(t, time.UTC, e.TS.Location())

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded struct {
		Type    string        `json:"event_type"`
		UserID  string        `json:"user_id"`
		Payload OrphanPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, KeyFileOrphaned, decoded.Type)
	assert.Equal(t, "user-1", decoded.UserID)
	assert.Equal(t, "1/2/a.txt", decoded.Payload.Path)
}

func TestNop(t *testing.T) {
	n := NewNop(zap.NewNop())
	require.NoError(t, n.Connect(context.Background(), ""))
	require.NoError(t, n.Init())
	n.Publish(NewEvent(KeyDropUploaded, "", nil))
	assert.Nil(t, n.GetConn())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.PublisherWorker(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
