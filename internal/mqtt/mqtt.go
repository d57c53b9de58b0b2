// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/mlund/dcf77clock/internal/frame"
	"github.com/mlund/dcf77clock/internal/pipeline"
)

// Topic is the MQTT topic for decode-cycle results.
const Topic = "clock/dcf77clock/sensor/decode"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "clock/dcf77clock/sensor/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends one analysis cycle's result to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(result pipeline.Result) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // "STARTUP", "SHUTDOWN" or "HEARTBEAT"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Config    *SystemConfig
	Heartbeat *HeartbeatInfo
	Retained  bool // whether the message should be retained by the broker
}

// SystemConfig mirrors the daemon's runtime configuration, sent on STARTUP.
type SystemConfig struct {
	ReportIntervalMs int64
	DebounceUs       int64
	Broker           string
}

// HeartbeatInfo carries uptime and the last analysis cycle's frame count
// and score, sent on HEARTBEAT.
type HeartbeatInfo struct {
	UptimeSeconds int64
	FramesDecoded int
	Score         int
}

// Payload represents the MQTT message payload for a decode-cycle result.
type Payload struct {
	Decode DecodePayload `json:"decode"`
}

// DecodePayload contains one cycle's analysis result.
type DecodePayload struct {
	Timestamp   string        `json:"timestamp"`
	Score       int           `json:"score"`
	Line1       string        `json:"line1"`
	Line2       string        `json:"line2"`
	Line3       string        `json:"line3"`
	Counts      CountsPayload `json:"pulse_counts"`
	Frame       *FramePayload `json:"frame,omitempty"`
	FramesAgree bool          `json:"frames_agree"`
}

// CountsPayload is the JSON shape of quality.Counts.
type CountsPayload struct {
	Total      int `json:"total"`
	Short      int `json:"short"`
	Long       int `json:"long"`
	Other      int `json:"other"`
	SecLike    int `json:"sec_like"`
	Tick59Like int `json:"tick59_like"`
}

// FramePayload is the JSON shape of a decoded frame.
type FramePayload struct {
	Minute  int `json:"minute"`
	Hour    int `json:"hour"`
	Day     int `json:"day"`
	Weekday int `json:"weekday"`
	Month   int `json:"month"`
	Year    int `json:"year"`
}

// FormatPayload creates the JSON payload for one analysis cycle.
func FormatPayload(result pipeline.Result, timestamp time.Time) ([]byte, error) {
	payload := Payload{
		Decode: DecodePayload{
			Timestamp: timestamp.UTC().Format(time.RFC3339),
			Score:     result.Score,
			Line1:     result.Line1,
			Line2:     result.Line2,
			Line3:     result.Line3,
			Counts: CountsPayload{
				Total:      result.Counts.Total,
				Short:      result.Counts.Short,
				Long:       result.Counts.Long,
				Other:      result.Counts.Other,
				SecLike:    result.Counts.SecLike,
				Tick59Like: result.Counts.Tick59Like,
			},
			FramesAgree: result.FramesAgree,
		},
	}
	if len(result.Frames) > 0 {
		payload.Decode.Frame = framePayload(result.Frames[0])
	}
	return json.Marshal(payload)
}

func framePayload(f frame.Frame) *FramePayload {
	return &FramePayload{
		Minute:  f.Minute,
		Hour:    f.Hour,
		Day:     f.Day,
		Weekday: f.Weekday,
		Month:   f.Month,
		Year:    f.Year,
	}
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string               `json:"timestamp"`
	Event     string               `json:"event"`
	Reason    string               `json:"reason,omitempty"`
	Config    *SystemConfigPayload `json:"config,omitempty"`
	Heartbeat *HeartbeatPayload    `json:"heartbeat,omitempty"`
}

// SystemConfigPayload is the JSON shape of SystemConfig.
type SystemConfigPayload struct {
	ReportIntervalMs int64  `json:"report_interval_ms"`
	DebounceUs       int64  `json:"debounce_us"`
	Broker           string `json:"broker"`
}

// HeartbeatPayload is the JSON shape of HeartbeatInfo.
type HeartbeatPayload struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	FramesDecoded int   `json:"frames_decoded"`
	Score         int   `json:"score"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	inner := SystemPayloadInner{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     event.Event,
		Reason:    event.Reason,
	}
	if event.Config != nil {
		inner.Config = &SystemConfigPayload{
			ReportIntervalMs: event.Config.ReportIntervalMs,
			DebounceUs:       event.Config.DebounceUs,
			Broker:           event.Config.Broker,
		}
	}
	if event.Heartbeat != nil {
		inner.Heartbeat = &HeartbeatPayload{
			UptimeSeconds: event.Heartbeat.UptimeSeconds,
			FramesDecoded: event.Heartbeat.FramesDecoded,
			Score:         event.Heartbeat.Score,
		}
	}
	return json.Marshal(SystemPayload{System: inner})
}
