package internal

import (
	"testing"
	"time"

	"github.com/mlund/dcf77clock/internal/gpio"
	"github.com/mlund/dcf77clock/internal/mqtt"
	"github.com/mlund/dcf77clock/internal/pipeline"
	"github.com/mlund/dcf77clock/internal/ring"
	"github.com/mlund/dcf77clock/internal/status"
)

// oneSecondPulses builds a scripted edge train for n seconds, each second
// starting with a SHORT (~100ms) low phase, the way a steadily-received
// DCF77-class bit-0 carrier looks at the GPIO line.
func oneSecondPulses(n int) []gpio.ScriptedEdge {
	var edges []gpio.ScriptedEdge
	var t uint64
	for i := 0; i < n; i++ {
		edges = append(edges, gpio.ScriptedEdge{T: t, V: 0})
		t += 100000
		edges = append(edges, gpio.ScriptedEdge{T: t, V: 1})
		t += 900000
	}
	return edges
}

// TestIntegrationCaptureToPipeline verifies that edges replayed through a
// Capturer land in the ring buffer and produce a sane analysis result.
func TestIntegrationCaptureToPipeline(t *testing.T) {
	r := ring.NewRing(ring.DefaultDebounceUS)
	capturer := gpio.NewFakeCapturer(oneSecondPulses(20))

	if err := capturer.Start(func(ts uint64, v uint8) { r.Push(ts, v) }); err != nil {
		t.Fatalf("capturer start: %v", err)
	}

	edges := r.Snapshot()
	result := pipeline.Run(edges)

	if result.EdgeCount == 0 {
		t.Fatal("expected captured edges")
	}
	if result.Counts.Short == 0 {
		t.Errorf("expected some SHORT pulses, got counts=%+v", result.Counts)
	}
	if result.Score <= 0 {
		t.Errorf("expected a positive reception score, got %d", result.Score)
	}
}

// TestIntegrationPipelineToStatusAndMQTT verifies the full wiring from a
// decode-cycle result through the status tracker to the MQTT publisher.
func TestIntegrationPipelineToStatusAndMQTT(t *testing.T) {
	r := ring.NewRing(ring.DefaultDebounceUS)
	capturer := gpio.NewFakeCapturer(oneSecondPulses(10))
	if err := capturer.Start(func(ts uint64, v uint8) { r.Push(ts, v) }); err != nil {
		t.Fatalf("capturer start: %v", err)
	}

	result := pipeline.Run(r.Snapshot())

	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := status.NewTracker(startTime, status.Config{
		ReportIntervalMs: 2000,
		Broker:           "tcp://192.168.1.200:1883",
	})
	tracker.Update(result)
	tracker.SetMQTTConnected(true)

	publisher := mqtt.NewFakePublisher()
	if err := publisher.Publish(result); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	snap := tracker.Snapshot()
	if snap.Score != result.Score {
		t.Errorf("tracker score: got %d, want %d", snap.Score, result.Score)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	if len(publisher.Results) != 1 {
		t.Fatalf("expected 1 published result, got %d", len(publisher.Results))
	}
	if publisher.Results[0].Score != result.Score {
		t.Errorf("published score: got %d, want %d", publisher.Results[0].Score, result.Score)
	}
}

// TestIntegrationNoSignalProducesNoSignalLine verifies the empty-edge path.
func TestIntegrationNoSignalProducesNoSignalLine(t *testing.T) {
	r := ring.NewRing(ring.DefaultDebounceUS)
	result := pipeline.Run(r.Snapshot())

	if result.Line2 != "NO SIG" {
		t.Errorf("Line2: got %q, want NO SIG", result.Line2)
	}
	if result.Score != 0 {
		t.Errorf("Score: got %d, want 0", result.Score)
	}
}

// TestIntegrationStartupThenShutdown verifies the system-event lifecycle
// end to end through the fake MQTT publisher.
func TestIntegrationStartupThenShutdown(t *testing.T) {
	publisher := mqtt.NewFakePublisher()

	startupEvent := mqtt.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     "STARTUP",
		Config: &mqtt.SystemConfig{
			ReportIntervalMs: 2000,
			DebounceUs:       20000,
			Broker:           "tcp://192.168.1.200:1883",
		},
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		t.Fatalf("startup publish error: %v", err)
	}

	result := pipeline.Result{Score: 60, Line1: "60", Line2: "WEAK", Line3: ""}
	if err := publisher.Publish(result); err != nil {
		t.Fatalf("decode publish error: %v", err)
	}

	shutdownEvent := mqtt.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 10, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}
	if err := publisher.PublishSystem(shutdownEvent); err != nil {
		t.Fatalf("shutdown publish error: %v", err)
	}

	if len(publisher.SystemEvents) != 2 {
		t.Fatalf("expected 2 system events, got %d", len(publisher.SystemEvents))
	}
	if len(publisher.Results) != 1 {
		t.Fatalf("expected 1 decode result, got %d", len(publisher.Results))
	}
	if publisher.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("first system event should be STARTUP, got %s", publisher.SystemEvents[0].Event)
	}
	if publisher.SystemEvents[1].Event != "SHUTDOWN" {
		t.Errorf("second system event should be SHUTDOWN, got %s", publisher.SystemEvents[1].Event)
	}
	if publisher.SystemEvents[0].Config == nil {
		t.Error("startup event should have config")
	}
	if publisher.SystemEvents[1].Reason != "SIGTERM" {
		t.Errorf("shutdown event should have reason SIGTERM, got %s", publisher.SystemEvents[1].Reason)
	}
}

// TestIntegrationHeartbeatAfterCycles verifies heartbeat reporting carries
// the tracker's last-cycle frame/score state.
func TestIntegrationHeartbeatAfterCycles(t *testing.T) {
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := status.NewTracker(startTime, status.Config{ReportIntervalMs: 2000})
	tracker.Update(pipeline.Result{Score: 85})

	publisher := mqtt.NewFakePublisher()
	snap := tracker.Snapshot()

	heartbeatEvent := mqtt.SystemEvent{
		Timestamp: startTime.Add(15 * time.Minute),
		Event:     "HEARTBEAT",
		Heartbeat: &mqtt.HeartbeatInfo{
			UptimeSeconds: int64(snap.Uptime().Seconds()),
			FramesDecoded: snap.FramesDecoded,
			Score:         snap.Score,
		},
	}

	if err := publisher.PublishSystem(heartbeatEvent); err != nil {
		t.Fatalf("heartbeat publish error: %v", err)
	}

	if len(publisher.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(publisher.SystemEvents))
	}
	got := publisher.SystemEvents[0].Heartbeat
	if got == nil {
		t.Fatal("expected heartbeat info")
	}
	if got.Score != 85 {
		t.Errorf("heartbeat score: got %d, want 85", got.Score)
	}
}
