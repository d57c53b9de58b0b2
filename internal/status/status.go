// Package status provides a thread-safe status tracker for the dcf77clock
// daemon. It is read by the HTTP status server, the MQTT publisher, and
// anything else that needs a consistent, point-in-time view of the decode
// pipeline's last analysis cycle.
package status

import (
	"sync"
	"time"

	"github.com/mlund/dcf77clock/internal/frame"
	"github.com/mlund/dcf77clock/internal/pipeline"
	"github.com/mlund/dcf77clock/internal/quality"
)

// Config contains daemon configuration for display.
type Config struct {
	ReportIntervalMs int64
	DebounceUs       int64
	GPIOChip         string
	SignalLine       int
	PowerEnableLine  int
	Broker           string
	HTTPAddr         string
	WSBroker         string // optional websocket broker URL for browser-side live updates
}

// Snapshot is a point-in-time view of daemon state. It is a value type —
// safe to use after the lock is released.
type Snapshot struct {
	Score         int
	Line1         string
	Line2         string
	Line3         string
	EdgeCount     int
	PulseCount    int
	Counts        quality.Counts
	FramesDecoded int
	LastFrame     *frame.Frame
	FramesAgree   bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the outcome of one analysis cycle. Called from the
// periodic driver after each pipeline.Run.
func (t *Tracker) Update(r pipeline.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap.Score = r.Score
	t.snap.Line1 = r.Line1
	t.snap.Line2 = r.Line2
	t.snap.Line3 = r.Line3
	t.snap.EdgeCount = r.EdgeCount
	t.snap.PulseCount = r.PulseCount
	t.snap.Counts = r.Counts
	t.snap.FramesDecoded = len(r.Frames)
	t.snap.FramesAgree = r.FramesAgree

	if len(r.Frames) > 0 {
		f := r.Frames[0]
		t.snap.LastFrame = &f
	}
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state. The Now field
// is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
