// Package relay optionally republishes kiln telemetry to an MQTT broker,
// so external dashboards can subscribe without speaking the SSE
// protocol. Grounded on GVCUTV-NRG-CHAMP's device/internal/publisher.go
// (PublishSensorData) and Oguri-Dev-omniapi-iot-platform's broker
// publisher, both built on github.com/eclipse/paho.mqtt.golang.
package relay

import (
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTRelay republishes payloads it receives on a single MQTT topic.
type MQTTRelay struct {
	client mqtt.Client
	topic  string
}

// NewMQTTRelay connects to broker (e.g. "tcp://localhost:1883") and
// returns a relay publishing to topic. A connection failure is returned
// immediately rather than retried in the background, since an
// unreachable broker at startup is a configuration error.
func NewMQTTRelay(broker, clientID, topic string) (*MQTTRelay, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	return &MQTTRelay{client: client, topic: topic}, nil
}

// Publish implements kiln.Publisher / hub subscriber shape: republish
// payload to the configured MQTT topic, ignoring the channel name (the
// relay is always wired to the "kiln" channel by the caller).
func (r *MQTTRelay) Publish(channel string, payload []byte) {
	token := r.client.Publish(r.topic, 0, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("relay: failed to publish to %s: %v", r.topic, token.Error())
	}
}

// Close disconnects from the broker, waiting up to 250ms for in-flight
// publishes to drain.
func (r *MQTTRelay) Close() {
	r.client.Disconnect(250)
}
