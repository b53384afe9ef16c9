// Package mqttingest subscribes to field telemetry published over MQTT and
// records it as sensor readings.
package mqttingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	farmapp "github.com/smartfarm/backend/internal/application/farm"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/smartfarm/backend/internal/infrastructure/config"
	"github.com/smartfarm/backend/internal/infrastructure/logger"
	"github.com/smartfarm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// handleTimeout bounds the work done for a single message
const handleTimeout = 10 * time.Second

// DefaultTopic is the subscription filter used when none is configured.
// The single-level wildcard marks the segment holding the field id.
const DefaultTopic = "farm/fields/+/readings"

// ErrBadTopic is returned when a topic carries no usable field id
var ErrBadTopic = errors.New("mqttingest: topic has no field id")

var defaultSegment = FieldSegment(DefaultTopic)

// Recorder persists a reading. *farm.SensorService satisfies it.
type Recorder interface {
	RecordFrom(ctx context.Context, input farmapp.RecordReadingInput, origin string) (*farm.SensorReading, error)
}

// Payload is the JSON body published to a field's readings topic
type Payload struct {
	Type      string     `json:"type"`
	Value     *float64   `json:"value"`
	Unit      string     `json:"unit,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Bridge forwards MQTT readings to a Recorder
type Bridge struct {
	cfg      config.MQTTConfig
	recorder Recorder
	logger   *zap.Logger
	client   mqtt.Client
	segment  int
}

// NewBridge creates a bridge. Call Start to connect.
func NewBridge(cfg config.MQTTConfig, recorder Recorder, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		cfg:      cfg,
		recorder: recorder,
		logger:   logger.Named("mqtt"),
		segment:  FieldSegment(cfg.Topic),
	}
	if b.segment < 0 {
		b.logger.Warn("MQTT topic has no + segment, reading field id from the default position",
			zap.String("topic", cfg.Topic))
		b.segment = defaultSegment
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetOnConnectHandler(b.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			b.logger.Warn("MQTT connection lost", zap.Error(err))
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	b.client = mqtt.NewClient(opts)
	return b
}

// Start connects to the broker. The subscription is (re)established on
// every successful connect.
func (b *Bridge) Start() error {
	token := b.client.Connect()
	if !token.WaitTimeout(b.cfg.ConnectTimeout) {
		return fmt.Errorf("mqtt connect to %s: timed out after %s", b.cfg.Broker, b.cfg.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect to %s: %w", b.cfg.Broker, err)
	}
	return nil
}

// Stop disconnects, allowing 250ms for in-flight work
func (b *Bridge) Stop() {
	if b.client.IsConnected() {
		b.client.Disconnect(250)
	}
	b.logger.Info("MQTT bridge stopped")
}

func (b *Bridge) onConnect(c mqtt.Client) {
	b.logger.Info("MQTT connected",
		zap.String("broker", b.cfg.Broker),
		zap.String("topic", b.cfg.Topic))

	token := c.Subscribe(b.cfg.Topic, b.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		// Failures are logged inside; the message is acknowledged either way.
		_ = b.HandleMessage(ctx, msg.Topic(), msg.Payload())
	})
	if token.WaitTimeout(b.cfg.ConnectTimeout) && token.Error() != nil {
		b.logger.Error("MQTT subscribe failed", zap.String("topic", b.cfg.Topic), zap.Error(token.Error()))
	}
}

// HandleMessage decodes one message and records it. Errors are logged and
// returned; callers do not retry.
func (b *Bridge) HandleMessage(ctx context.Context, topic string, payload []byte) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "mqtt.reading")
	defer telemetry.End(span, &err)

	log := logger.WithTraceContext(ctx, b.logger.With(zap.String("topic", topic)))

	fieldID, err := fieldIDAt(topic, b.segment)
	if err != nil {
		log.Warn("Dropping MQTT message", zap.Error(err))
		return err
	}

	var p Payload
	if err = json.Unmarshal(payload, &p); err != nil {
		log.Warn("Dropping malformed MQTT payload", zap.Error(err))
		return fmt.Errorf("decode payload: %w", err)
	}

	var reading *farm.SensorReading
	labels := map[string]string{telemetry.ProfilingLabelOrigin: farmapp.OriginMQTT}
	telemetry.WithProfilingLabels(ctx, labels, func(ctx context.Context) {
		reading, err = b.recorder.RecordFrom(ctx, farmapp.RecordReadingInput{
			FieldID:   fieldID,
			Type:      p.Type,
			Value:     p.Value,
			Unit:      p.Unit,
			Timestamp: p.Timestamp,
		}, farmapp.OriginMQTT)
	})
	if err != nil {
		log.Warn("Dropping MQTT reading", zap.String("field_id", fieldID.String()), zap.Error(err))
		return err
	}

	log.Debug("MQTT reading recorded",
		zap.String("reading_id", reading.ID.String()),
		zap.String("type", string(reading.Type)))
	return nil
}

// FieldSegment returns the index of the first + segment in a subscription
// filter, or -1 when there is none.
func FieldSegment(filter string) int {
	for i, part := range strings.Split(filter, "/") {
		if part == "+" {
			return i
		}
	}
	return -1
}

// FieldIDFromTopic extracts the field id from a topic matching DefaultTopic
func FieldIDFromTopic(topic string) (uuid.UUID, error) {
	return fieldIDAt(topic, defaultSegment)
}

// FieldIDFromTopicFilter extracts the field id from the segment of topic
// that sits under the + wildcard of filter.
func FieldIDFromTopicFilter(filter, topic string) (uuid.UUID, error) {
	segment := FieldSegment(filter)
	if segment < 0 {
		return uuid.Nil, fmt.Errorf("%w: filter %q has no + segment", ErrBadTopic, filter)
	}
	return fieldIDAt(topic, segment)
}

func fieldIDAt(topic string, segment int) (uuid.UUID, error) {
	parts := strings.Split(topic, "/")
	if segment >= len(parts) {
		return uuid.Nil, ErrBadTopic
	}
	id, err := uuid.Parse(parts[segment])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrBadTopic, parts[segment])
	}
	return id, nil
}

// Topic builds the DefaultTopic publish topic for a field
func Topic(fieldID uuid.UUID) string {
	return TopicFor(DefaultTopic, fieldID)
}

// TopicFor builds a publish topic by putting the field id in place of the
// first + segment of filter
func TopicFor(filter string, fieldID uuid.UUID) string {
	return strings.Replace(filter, "+", fieldID.String(), 1)
}
