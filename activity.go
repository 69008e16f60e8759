package main

import (
	"encoding/json"
	"strconv"
	"time"

	"gregoryjjb/buzzd/pubsub"
	"gregoryjjb/buzzd/ringbuffer"
)

const clockFormat = "15:04:05"

// Entry is one handled request as it appears on the panel.
type Entry struct {
	At     time.Time
	Status int
	Path   string
}

// Line renders the entry the way the panel shows it, e.g.
// "14:03:59 200 /push"
func (e Entry) Line() string {
	return e.At.Format(clockFormat) + " " + strconv.Itoa(e.Status) + " " + e.Path
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time   string `json:"time"`
		Status int    `json:"status"`
		Path   string `json:"path"`
	}{e.At.Format(clockFormat), e.Status, e.Path})
}

// Recorder keeps the rolling activity log shown on the panel and feeds the
// websocket live stream. Handlers append to it after writing their
// response; the render loop reads snapshots from it.
type Recorder struct {
	ring *ringbuffer.RingBuffer[Entry]
	feed *pubsub.Pubsub[Entry]
	now  func() time.Time
}

func NewRecorder(lines int) *Recorder {
	return &Recorder{
		ring: ringbuffer.New[Entry](lines),
		feed: pubsub.New[Entry](),
		now:  time.Now,
	}
}

// Record appends one entry. The ring mutates under its own lock and the
// feed never blocks, so this is cheap to call from any handler.
func (rec *Recorder) Record(status int, path string) {
	e := Entry{At: rec.now(), Status: status, Path: path}
	rec.ring.Push(e)
	rec.feed.Publish(e)
}

// Snapshot returns the buffered entries oldest first.
func (rec *Recorder) Snapshot() []Entry {
	return rec.ring.Snapshot()
}

func (rec *Recorder) Subscribe() (pubsub.SubscriptionID, <-chan Entry) {
	return rec.feed.Subscribe()
}

func (rec *Recorder) Unsubscribe(id pubsub.SubscriptionID) {
	rec.feed.Unsubscribe(id)
}
