package janitor

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"ai-therapist-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// CleanupTopic carries deferred artifact deletions. The consumer runs
// detached from any request; a failed delete is logged and dropped, never
// surfaced.
const CleanupTopic = "artifact.cleanup"

const (
	// speakingRate approximates 150 words per minute of synthesized speech.
	speakingRate = 2.5 // words per second

	// playbackBuffer pads the estimate so a slightly slow client still
	// finds the file.
	playbackBuffer = 30 * time.Second
)

// Task is the wire payload for one deferred deletion.
type Task struct {
	Path         string  `json:"path"`
	DelaySeconds float64 `json:"delay_seconds"`
}

// PubSub is the slice of watermill used here; gochannel.GoChannel satisfies
// it.
type PubSub interface {
	message.Publisher
	message.Subscriber
}

type Janitor struct {
	bus PubSub
	log logger.ILogger
}

func New(bus PubSub, log logger.ILogger) *Janitor {
	return &Janitor{
		bus: bus,
		log: log,
	}
}

// PlaybackEstimate guesses how long the client will take to play audio for
// text. A heuristic, not a guarantee: replays after the estimate elapses
// will 404.
func PlaybackEstimate(text string) time.Duration {
	words := len(strings.Fields(text))
	speaking := time.Duration(float64(words) / speakingRate * float64(time.Second))
	return speaking + playbackBuffer
}

// DeleteNow removes a file best-effort. Used for transcription input files
// that are consumed the moment the transcript exists.
func (j *Janitor) DeleteNow(path string) {
	if err := os.Remove(path); err != nil {
		j.log.Warn("janitor", "Failed to delete artifact", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

// ScheduleAfterPlayback queues deletion of a synthesized artifact once the
// estimated playback window for text has elapsed.
func (j *Janitor) ScheduleAfterPlayback(text, path string) {
	task := Task{
		Path:         path,
		DelaySeconds: PlaybackEstimate(text).Seconds(),
	}
	payload, err := json.Marshal(task)
	if err != nil {
		j.log.Error("janitor", "Failed to marshal cleanup task", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := j.bus.Publish(CleanupTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		j.log.Error("janitor", "Failed to publish cleanup task", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

// Run consumes cleanup tasks until ctx is cancelled. Each task arms a timer
// and acks immediately; execution order across requests is not guaranteed.
func (j *Janitor) Run(ctx context.Context) error {
	messages, err := j.bus.Subscribe(ctx, CleanupTopic)
	if err != nil {
		return err
	}

	for msg := range messages {
		var task Task
		if err := json.Unmarshal(msg.Payload, &task); err != nil {
			j.log.Error("janitor", "Dropping malformed cleanup task", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}

		delay := time.Duration(task.DelaySeconds * float64(time.Second))
		path := task.Path
		time.AfterFunc(delay, func() {
			j.DeleteNow(path)
		})
		msg.Ack()
	}
	return nil
}
