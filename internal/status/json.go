package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Score         int         `json:"score"`
	Line1         string      `json:"line1"`
	Line2         string      `json:"line2"`
	Line3         string      `json:"line3"`
	EdgeCount     int         `json:"edge_count"`
	PulseCount    int         `json:"pulse_count"`
	FramesDecoded int         `json:"frames_decoded"`
	FramesAgree   bool        `json:"frames_agree"`
	Frame         *FrameJSON  `json:"frame,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Counts        CountsJSON  `json:"pulse_counts"`
	Config        ConfigJSON  `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of quality.Counts.
type CountsJSON struct {
	Total      int `json:"total"`
	Short      int `json:"short"`
	Long       int `json:"long"`
	Other      int `json:"other"`
	SecLike    int `json:"sec_like"`
	Tick59Like int `json:"tick59_like"`
}

// FrameJSON is the JSON representation of the last decoded frame.
type FrameJSON struct {
	Minute  int `json:"minute"`
	Hour    int `json:"hour"`
	Day     int `json:"day"`
	Weekday int `json:"weekday"`
	Month   int `json:"month"`
	Year    int `json:"year"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	ReportIntervalMs int64  `json:"report_interval_ms"`
	DebounceUs       int64  `json:"debounce_us"`
	GPIOChip         string `json:"gpio_chip"`
	SignalLine       int    `json:"signal_line"`
	PowerEnableLine  int    `json:"power_enable_line"`
	Broker           string `json:"broker"`
	HTTPAddr         string `json:"http_addr"`
	WSBroker         string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Score:         snap.Score,
		Line1:         snap.Line1,
		Line2:         snap.Line2,
		Line3:         snap.Line3,
		EdgeCount:     snap.EdgeCount,
		PulseCount:    snap.PulseCount,
		FramesDecoded: snap.FramesDecoded,
		FramesAgree:   snap.FramesAgree,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Total:      snap.Counts.Total,
			Short:      snap.Counts.Short,
			Long:       snap.Counts.Long,
			Other:      snap.Counts.Other,
			SecLike:    snap.Counts.SecLike,
			Tick59Like: snap.Counts.Tick59Like,
		},
		Config: ConfigJSON{
			ReportIntervalMs: snap.Config.ReportIntervalMs,
			DebounceUs:       snap.Config.DebounceUs,
			GPIOChip:         snap.Config.GPIOChip,
			SignalLine:       snap.Config.SignalLine,
			PowerEnableLine:  snap.Config.PowerEnableLine,
			Broker:           snap.Config.Broker,
			HTTPAddr:         snap.Config.HTTPAddr,
			WSBroker:         snap.Config.WSBroker,
		},
	}
	if snap.LastFrame != nil {
		inner.Frame = &FrameJSON{
			Minute:  snap.LastFrame.Minute,
			Hour:    snap.LastFrame.Hour,
			Day:     snap.LastFrame.Day,
			Weekday: snap.LastFrame.Weekday,
			Month:   snap.LastFrame.Month,
			Year:    snap.LastFrame.Year,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
