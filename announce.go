package main

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	topicEvents = "buzzd/events"
	topicStatus = "buzzd/status"

	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second

	// Last will, published by the broker if we drop off ungracefully
	lwtPayload = `{"status":"offline"}`
)

var alog zerolog.Logger

func init() {
	alog = log.With().Str("component", "mqtt").Logger()
}

// PulseEvent describes one successful pulse.
type PulseEvent struct {
	ID       string
	At       time.Time
	Duration time.Duration
}

// Announcer mirrors device activity onto the house MQTT bus. All methods
// are best-effort; the relay never waits on the broker.
type Announcer interface {
	Startup(address string)
	Pulse(event PulseEvent)
	Shutdown()
	Close()
}

type pulseMessage struct {
	Event      string `json:"event"`
	PulseID    string `json:"pulse_id"`
	Time       string `json:"time"`
	DurationMS int64  `json:"duration_ms"`
}

type statusMessage struct {
	Status  string `json:"status"`
	Address string `json:"address,omitempty"`
	Time    string `json:"time"`
}

func encodePulseMessage(event PulseEvent) ([]byte, error) {
	return json.Marshal(pulseMessage{
		Event:      "pulse",
		PulseID:    event.ID,
		Time:       event.At.Format(time.RFC3339),
		DurationMS: event.Duration.Milliseconds(),
	})
}

func encodeStatusMessage(status, address string, at time.Time) ([]byte, error) {
	return json.Marshal(statusMessage{
		Status:  status,
		Address: address,
		Time:    at.Format(time.RFC3339),
	})
}

type mqttAnnouncer struct {
	client paho.Client
}

// NewMQTTAnnouncer connects to the broker and keeps reconnecting in the
// background for the life of the process.
func NewMQTTAnnouncer(broker string) (Announcer, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("buzzd").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(topicStatus, lwtPayload, 1, true)

	client := paho.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("connecting to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", broker, err)
	}

	alog.Info().Str("broker", broker).Msg("Connected to MQTT broker")
	return &mqttAnnouncer{client: client}, nil
}

func (a *mqttAnnouncer) Startup(address string) {
	raw, err := encodeStatusMessage("online", address, time.Now())
	if err != nil {
		alog.Err(err).Msg("Failed to encode status message")
		return
	}
	a.publish(topicStatus, true, raw)
}

func (a *mqttAnnouncer) Pulse(event PulseEvent) {
	raw, err := encodePulseMessage(event)
	if err != nil {
		alog.Err(err).Msg("Failed to encode pulse message")
		return
	}
	a.publish(topicEvents, false, raw)
}

func (a *mqttAnnouncer) Shutdown() {
	raw, err := encodeStatusMessage("offline", "", time.Now())
	if err != nil {
		alog.Err(err).Msg("Failed to encode status message")
		return
	}
	a.publish(topicStatus, true, raw)
}

func (a *mqttAnnouncer) Close() {
	a.client.Disconnect(250)
}

func (a *mqttAnnouncer) publish(topic string, retained bool, payload []byte) {
	token := a.client.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		alog.Warn().Str("topic", topic).Msg("MQTT publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		alog.Err(err).Str("topic", topic).Msg("MQTT publish failed")
	}
}
