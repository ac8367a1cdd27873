package janitor_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-therapist-be/pkg/janitor"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestPlaybackEstimate(t *testing.T) {
	// 5 words at 2.5 words/sec is 2s of speech, plus the 30s buffer.
	assert.Equal(t, 32*time.Second, janitor.PlaybackEstimate("one two three four five"))

	// Empty text still gets the buffer.
	assert.Equal(t, 30*time.Second, janitor.PlaybackEstimate(""))
}

func TestJanitor_DeleteNow(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	j := janitor.New(bus, nopLogger{})

	path := filepath.Join(t.TempDir(), "input.wav")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	j.DeleteNow(path)
	assert.NoFileExists(t, path)

	// A second delete of the same path logs and moves on.
	j.DeleteNow(path)
}

func TestJanitor_ScheduleAfterPlayback_Payload(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, janitor.CleanupTopic)
	require.NoError(t, err)

	j := janitor.New(bus, nopLogger{})
	j.ScheduleAfterPlayback("one two three four five", "/tmp/response.mp3")

	select {
	case msg := <-messages:
		var task janitor.Task
		require.NoError(t, json.Unmarshal(msg.Payload, &task))
		assert.Equal(t, "/tmp/response.mp3", task.Path)
		assert.Equal(t, 32.0, task.DelaySeconds)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no cleanup task published")
	}
}

func TestJanitor_Run_DeletesAfterDelay(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	j := janitor.New(bus, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = j.Run(ctx)
	}()
	// Let the consumer subscribe before publishing.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "response.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	payload, err := json.Marshal(janitor.Task{Path: path, DelaySeconds: 0})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(janitor.CleanupTopic, message.NewMessage(watermill.NewUUID(), payload)))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, 3*time.Second, 25*time.Millisecond)
}
