package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/mlund/dcf77clock/internal/pipeline"
)

const offlineBufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker. Messages published
// while disconnected are buffered and replayed on reconnect, up to
// offlineBufferCapacity; older messages are dropped first.
type RealPublisher struct {
	client paho.Client

	mu      sync.Mutex
	offline *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
// The client ID is randomized so restarts don't collide with a
// still-registered session from a previous process.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{offline: newRingBuffer(offlineBufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("dcf77clock-" + uuid.NewString()).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p.client = client
	return p, nil
}

// onConnect flushes any messages buffered while disconnected.
func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	pending := p.offline.drainAll()
	p.mu.Unlock()

	for _, msg := range pending {
		client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	}
}

// Publish sends one analysis cycle's result to the MQTT broker.
func (p *RealPublisher) Publish(result pipeline.Result) error {
	payload, err := FormatPayload(result, time.Now())
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(bufferedMsg{topic: Topic, payload: payload, qos: 0, retained: false})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	qos := byte(0)
	if event.Event == "SHUTDOWN" {
		qos = 1 // ensure delivery of the final word
	}
	return p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: qos, retained: event.Retained})
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.offline.push(msg)
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	return token.Error()
}

// IsConnected reports whether the client currently holds a broker
// connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
