package mqtt

import (
	"errors"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/anicoll/vrm-integration/internal/pkg/config"
)

type service struct {
	client paho_mqtt.Client
}

func New(client paho_mqtt.Client) *service {
	return &service{
		client: client,
	}
}

// NewClient builds a paho client from the sink configuration.
func NewClient(cfg *config.MqttConfig) paho_mqtt.Client {
	opts := paho_mqtt.NewClientOptions().
		AddBroker(cfg.Host).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetClientID("vrm-collector")
	return paho_mqtt.NewClient(opts)
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return errors.New("unable to connect in time")
}
