package cli

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

type mqttPublisher struct {
	client mqtt.Client
}

func newMQTTPublisher(broker, clientID string) (Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetOrderMatters(false).
		SetConnectTimeout(publishTimeout)

	c := mqtt.NewClient(opts)
	if token := c.Connect(); !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("connect to %s: timed out", broker)
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return &mqttPublisher{client: c}, nil
}

func (p *mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("publish timed out")
	}
	return token.Error()
}

func (p *mqttPublisher) Close() {
	p.client.Disconnect(250)
}
