package mqttclient

import mqtt "github.com/eclipse/paho.mqtt.golang"

// session is the subset of paho's Client interface the wrapper depends
// on; narrowing it lets tests substitute a fake broker session.
type session interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	IsConnected() bool
}
