package remote

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cwbudde/algo-eq/dsp/eq"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	DefaultPort  = 1883
	DefaultTopic = "algo-eq"
)

// Config holds the broker connection settings.
type Config struct {
	Broker   string
	Port     int
	User     string
	Password string
	Topic    string
	ClientID string
	// Discovery publishes Home Assistant discovery records on connect.
	Discovery bool
}

// BrokerURL returns the broker address with a scheme and port.
func (c Config) BrokerURL() string {
	broker := c.Broker
	if broker == "" {
		broker = "localhost"
	}
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", broker, port)
}

func (c Config) topic() string {
	if c.Topic == "" {
		return DefaultTopic
	}
	return c.Topic
}

func (c Config) clientID() string {
	if c.ClientID == "" {
		return fmt.Sprintf("algo-eq-%d", time.Now().Unix())
	}
	return c.ClientID
}

// Client keeps a broker connection and feeds received commands into a
// parameter store. The audio path only ever sees the store.
type Client struct {
	client   mqtt.Client
	handler  *Handler
	cfg      Config
	onChange func(eq.ParamID, float64)
}

// Dial connects to the broker. onChange, if not nil, is called after each
// accepted command with the stored value.
func Dial(cfg Config, params *eq.Params, onChange func(eq.ParamID, float64)) (*Client, error) {
	c := &Client{
		handler:  NewHandler(cfg.topic(), params),
		cfg:      cfg,
		onChange: onChange,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL())
	opts.SetClientID(cfg.clientID())
	if cfg.User != "" {
		opts.SetUsername(cfg.User)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = c.onConnect
	opts.OnConnectionLost = c.onConnectionLost
	opts.SetWill(c.handler.AvailabilityTopic(), "offline", 0, true)

	c.client = mqtt.NewClient(opts)
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("remote: connect %s: %w", cfg.BrokerURL(), token.Error())
	}

	return c, nil
}

func (c *Client) Handler() *Handler { return c.handler }

func (c *Client) onConnect(client mqtt.Client) {
	log.Printf("Connected to MQTT broker %s", c.cfg.BrokerURL())

	client.Publish(c.handler.AvailabilityTopic(), 0, true, "online")

	for _, topic := range c.handler.CommandTopics() {
		if token := client.Subscribe(topic, 0, c.handleMessage); token.Wait() && token.Error() != nil {
			log.Printf("Failed to subscribe to %s: %v", topic, token.Error())
		}
	}

	if c.cfg.Discovery {
		c.publishDiscovery()
	}
	c.PublishState()
}

func (c *Client) onConnectionLost(_ mqtt.Client, err error) {
	log.Printf("MQTT connection lost: %v", err)
}

func (c *Client) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	id, err := c.handler.Apply(msg.Topic(), msg.Payload())
	if err != nil {
		log.Printf("Ignoring %s: %v", msg.Topic(), err)
		return
	}
	if c.onChange != nil {
		c.onChange(id, c.handler.params.Get(id))
	}
	c.PublishState()
}

func (c *Client) publishDiscovery() {
	entities := c.handler.Discovery(c.cfg.topic())
	for _, e := range entities {
		data, _ := json.Marshal(e.Config)
		if token := c.client.Publish(e.DiscoveryTopic(), 0, true, data); token.Wait() && token.Error() != nil {
			log.Printf("Failed to publish discovery for %s: %v", e.ID, token.Error())
		}
	}
	log.Printf("Published MQTT discovery (%d entities)", len(entities))
}

// PublishState publishes the current settings as a retained message.
func (c *Client) PublishState() {
	data, err := c.handler.State()
	if err != nil {
		log.Printf("Failed to encode state: %v", err)
		return
	}
	c.client.Publish(c.handler.StateTopic(), 0, true, data)
}

// Close marks the node offline and disconnects.
func (c *Client) Close() {
	if token := c.client.Publish(c.handler.AvailabilityTopic(), 0, true, "offline"); token.Wait() && token.Error() != nil {
		log.Printf("Failed to publish availability: %v", token.Error())
	}
	c.client.Disconnect(250)
}
