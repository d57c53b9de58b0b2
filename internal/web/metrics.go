package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mlund/dcf77clock/internal/status"
)

// receiverMetrics holds the Prometheus collectors exported at /metrics.
// Values are refreshed from a status.Snapshot on every scrape via a
// GaugeFunc-style pull rather than push, so the collector never drifts
// from the tracker's own view of the world.
type receiverMetrics struct {
	score         prometheus.GaugeFunc
	edgeCount     prometheus.GaugeFunc
	pulseCount    prometheus.GaugeFunc
	framesDecoded prometheus.GaugeFunc
	framesAgree   prometheus.GaugeFunc
	mqttConnected prometheus.GaugeFunc
	pulseCounts   *prometheus.GaugeVec
	uptime        prometheus.GaugeFunc
}

// newReceiverMetrics registers the collectors against reg rather than the
// global default registry, so that each Server (and each test that builds
// one) owns an independent metric namespace instead of colliding on
// repeated registration.
func newReceiverMetrics(reg *prometheus.Registry, tracker *status.Tracker) *receiverMetrics {
	factory := promauto.With(reg)

	m := &receiverMetrics{
		pulseCounts: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dcf77clock_pulse_count",
				Help: "Pulses observed in the last analysis window by classification.",
			},
			[]string{"class"},
		),
	}

	m.score = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dcf77clock_reception_score",
		Help: "Reception quality score (0-100) from the last analysis cycle.",
	}, func() float64 { return float64(tracker.Snapshot().Score) })

	m.edgeCount = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dcf77clock_edge_count",
		Help: "GPIO edges captured in the last analysis window.",
	}, func() float64 { return float64(tracker.Snapshot().EdgeCount) })

	m.pulseCount = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dcf77clock_total_pulse_count",
		Help: "Pulses classified in the last analysis window.",
	}, func() float64 { return float64(tracker.Snapshot().PulseCount) })

	m.framesDecoded = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dcf77clock_frames_decoded",
		Help: "Minute frames successfully decoded in the last analysis window.",
	}, func() float64 { return float64(tracker.Snapshot().FramesDecoded) })

	m.framesAgree = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dcf77clock_frames_agree",
		Help: "1 if consecutive decoded frames agreed on the time, 0 otherwise.",
	}, func() float64 {
		if tracker.Snapshot().FramesAgree {
			return 1
		}
		return 0
	})

	m.mqttConnected = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dcf77clock_mqtt_connected",
		Help: "1 if the MQTT publisher currently holds a broker connection, 0 otherwise.",
	}, func() float64 {
		if tracker.Snapshot().MQTTConnected {
			return 1
		}
		return 0
	})

	m.uptime = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dcf77clock_uptime_seconds",
		Help: "Seconds since the daemon started.",
	}, func() float64 { return tracker.Snapshot().Uptime().Seconds() })

	return m
}

// refreshPulseCounts updates the per-class pulse count vector. Unlike the
// other metrics above, GaugeVec has no GaugeFunc equivalent, so it is
// refreshed explicitly by the /metrics handler on every scrape.
func (m *receiverMetrics) refreshPulseCounts(snap status.Snapshot) {
	m.pulseCounts.WithLabelValues("short").Set(float64(snap.Counts.Short))
	m.pulseCounts.WithLabelValues("long").Set(float64(snap.Counts.Long))
	m.pulseCounts.WithLabelValues("other").Set(float64(snap.Counts.Other))
	m.pulseCounts.WithLabelValues("sec_like").Set(float64(snap.Counts.SecLike))
	m.pulseCounts.WithLabelValues("tick59_like").Set(float64(snap.Counts.Tick59Like))
}
