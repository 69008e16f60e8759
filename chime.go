package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const sampleRate = beep.SampleRate(48000)

const speakerBuffer = 100 * time.Millisecond

var clog zerolog.Logger

func init() {
	clog = log.With().Str("component", "chime").Logger()
}

// ChimePlayer is what the push endpoint needs from the speaker.
type ChimePlayer interface {
	Play()
	Close()
}

// Chime plays a short MP3 through the speakers after each pulse. The clip
// is decoded once at startup; Play only queues samples.
type Chime struct {
	buffer *beep.Buffer
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// NewChime loads path from fs and readies the speaker. The speaker can
// only be initialized at one sample rate per process (a limitation of
// Oto), so the clip is resampled to 48k if needed.
func NewChime(fs BuzzdFS, path string) (*Chime, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chime: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding chime %s: %w", path, err)
	}
	defer streamer.Close()

	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(speakerBuffer))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("initializing speaker: %w", speakerErr)
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate != sampleRate {
		clog.Debug().Int("from", int(format.SampleRate)).Int("to", int(sampleRate)).Msg("Resampling chime")
		buffer.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	} else {
		buffer.Append(streamer)
	}

	clog.Info().Str("path", path).Dur("length", sampleRate.D(buffer.Len())).Msg("Chime loaded")
	return &Chime{buffer: buffer}, nil
}

// Play queues the chime asynchronously; overlapping plays mix together.
func (c *Chime) Play() {
	speaker.Play(c.buffer.Streamer(0, c.buffer.Len()))
}

func (c *Chime) Close() {
	speaker.Close()
}
