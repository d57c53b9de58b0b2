// Command dcf77clock captures a DCF77-class longwave time signal on a GPIO
// line, scores reception quality, decodes minute frames, and publishes the
// result over MQTT and a small HTTP status page.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/mlund/dcf77clock/internal/display"
	"github.com/mlund/dcf77clock/internal/gpio"
	"github.com/mlund/dcf77clock/internal/mqtt"
	"github.com/mlund/dcf77clock/internal/pipeline"
	"github.com/mlund/dcf77clock/internal/ring"
	"github.com/mlund/dcf77clock/internal/status"
	"github.com/mlund/dcf77clock/internal/web"
)

func main() {
	reportInterval := pflag.DurationP("report-interval", "r", 2*time.Second, "analysis cycle interval")
	debounceUs := pflag.Int64P("debounce-us", "d", int64(ring.DefaultDebounceUS), "edge debounce window in microseconds")
	gpioChip := pflag.StringP("gpio-chip", "c", "gpiochip0", "GPIO character device chip name")
	signalLine := pflag.IntP("signal-line", "s", gpio.LineSignal, "BCM line number for the DCF77 signal output")
	powerLine := pflag.IntP("power-line", "p", gpio.LinePowerEnable, "BCM line number for the DCF77 module power enable")
	broker := pflag.StringP("broker", "b", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := pflag.DurationP("heartbeat", "H", 15*time.Minute, "heartbeat interval (0 to disable)")
	printState := pflag.BoolP("print-state", "P", false, "capture one analysis cycle, print it, and exit")
	httpAddr := pflag.StringP("http", "a", ":80", "HTTP status address (empty to disable)")
	wsBroker := pflag.StringP("ws-broker", "w", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	pflag.Parse()

	ws := resolveWSBroker(*wsBroker, *broker)
	cfg := runConfig{
		reportInterval: *reportInterval,
		debounceUs:     uint64(*debounceUs),
		gpioChip:       *gpioChip,
		signalLine:     *signalLine,
		powerLine:      *powerLine,
		broker:         *broker,
		heartbeat:      *heartbeat,
		printState:     *printState,
		httpAddr:       *httpAddr,
		wsBroker:       ws,
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

type runConfig struct {
	reportInterval time.Duration
	debounceUs     uint64
	gpioChip       string
	signalLine     int
	powerLine      int
	broker         string
	heartbeat      time.Duration
	printState     bool
	httpAddr       string
	wsBroker       string
}

func run(cfg runConfig) error {
	capturer, err := gpio.NewRealCapturer(cfg.gpioChip, cfg.signalLine, cfg.powerLine)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer capturer.Close()

	if err := capturer.SetPowerEnable(true); err != nil {
		return fmt.Errorf("power on receiver: %w", err)
	}

	buf := ring.NewRing(cfg.debounceUs)
	if err := capturer.Start(func(t uint64, v uint8) { buf.Push(t, v) }); err != nil {
		return fmt.Errorf("start gpio capture: %w", err)
	}

	if cfg.printState {
		time.Sleep(cfg.reportInterval)
		result := pipeline.Run(buf.Snapshot())
		fmt.Printf("score=%d line1=%q line2=%q line3=%q\n", result.Score, result.Line1, result.Line2, result.Line3)
		return nil
	}

	var dev display.Display
	if oled, err := display.NewOLEDDisplay(); err != nil {
		log.Printf("display unavailable, running headless: %v", err)
	} else {
		dev = oled
		defer dev.Close()
	}

	publisher, err := mqtt.NewRealPublisher(cfg.broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		ReportIntervalMs: cfg.reportInterval.Milliseconds(),
		DebounceUs:       int64(cfg.debounceUs),
		GPIOChip:         cfg.gpioChip,
		SignalLine:       cfg.signalLine,
		PowerEnableLine:  cfg.powerLine,
		Broker:           cfg.broker,
		HTTPAddr:         cfg.httpAddr,
		WSBroker:         cfg.wsBroker,
	})

	startupEvent := mqtt.SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Retained:  true,
		Config: &mqtt.SystemConfig{
			ReportIntervalMs: cfg.reportInterval.Milliseconds(),
			DebounceUs:       int64(cfg.debounceUs),
			Broker:           cfg.broker,
		},
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	log.Printf("started: report-interval=%v debounce=%dus broker=%s heartbeat=%v",
		cfg.reportInterval, cfg.debounceUs, cfg.broker, cfg.heartbeat)

	ticker := time.NewTicker(cfg.reportInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(buf, dev, publisher, publisher, tracker, cfg.heartbeat, time.Now, ticker.C, sigCh)
}

// runLoop runs the periodic decode cycle until it receives a signal. It
// takes a ring (rather than a gpio.Capturer) because by the time the
// ticker fires, edges have already been delivered asynchronously into
// buf by the capturer's own event goroutine.
func runLoop(buf *ring.Ring, dev display.Display, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	lastHeartbeat := startTime

	for {
		select {
		case s := <-sig:
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			log.Printf("received %v, shutting down", s)

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case t := <-tick:
			result := pipeline.Run(buf.Snapshot())

			if dev != nil {
				if err := dev.WriteLines(result.Line1, result.Line2, result.Line3); err != nil {
					log.Printf("display write error: %v", err)
				}
			}

			if err := publisher.Publish(result); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure.
			}

			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			tracker.Update(result)

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				snap := tracker.Snapshot()
				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
					Heartbeat: &mqtt.HeartbeatInfo{
						UptimeSeconds: int64(snap.Uptime().Seconds()),
						FramesDecoded: snap.FramesDecoded,
						Score:         snap.Score,
					},
				}
				log.Printf("heartbeat: uptime=%v frames_decoded=%d score=%d",
					snap.Uptime(), snap.FramesDecoded, snap.Score)
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
