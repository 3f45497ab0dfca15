package mqttclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mqttflow/mqttflow/internal/config"
)

func buildClientOptions(cfg config.ClientConfig, onConnect mqtt.OnConnectHandler, onLost mqtt.ConnectionLostHandler) (*mqtt.ClientOptions, error) {
	opts := mqtt.NewClientOptions()

	scheme := "tcp"
	var tlsConfig *tls.Config
	if cfg.SSL != nil {
		scheme = "ssl"
		tc, err := buildTLSConfig(cfg.SSL)
		if err != nil {
			return nil, fmt.Errorf("mqttclient %s: %w", cfg.ClientName, err)
		}
		tlsConfig = tc
	}

	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Server, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(cfg.CleanSession)
	opts.SetKeepAlive(cfg.KeepAlive)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(cfg.MaxReconnectDelay)
	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}
	if cfg.WillSetTopic != "" {
		opts.SetWill(cfg.WillSetTopic, cfg.WillSetPayload, 0, false)
	}
	opts.SetOnConnectHandler(onConnect)
	opts.SetConnectionLostHandler(onLost)

	return opts, nil
}

func buildTLSConfig(ssl *config.SSLConfig) (*tls.Config, error) {
	tc := &tls.Config{}

	if ssl.ALPNProtocol != "" {
		tc.NextProtos = []string{ssl.ALPNProtocol}
	}

	if ssl.CA != "" {
		pem, err := os.ReadFile(ssl.CA)
		if err != nil {
			return nil, fmt.Errorf("read ca: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("ca file %s contains no usable certificates", ssl.CA)
		}
		tc.RootCAs = pool
	}

	if ssl.Cert != "" && ssl.Key != "" {
		cert, err := tls.LoadX509KeyPair(ssl.Cert, ssl.Key)
		if err != nil {
			return nil, fmt.Errorf("load client cert/key: %w", err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}

	return tc, nil
}
