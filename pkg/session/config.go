package session

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/robotalks/gokart/pkg/env"
	"github.com/robotalks/gokart/pkg/vehicle"
)

// VehicleRef identifies a vehicle on the broker.
type VehicleRef struct {
	// Type is the vehicle type.
	Type string
	// ID is unique ID of the vehicle.
	ID string
}

// Name is the namespace of the vehicle, all its topics are under it.
func (r VehicleRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates VehicleRef is valid.
func (r VehicleRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// Meta is published retained on <namespace>/meta for discovery.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Config provides options to setup a Session.
type Config struct {
	Ref  VehicleRef
	Meta Meta

	// MQTTBrokerURL specifies the MQTT broker to use, empty disables MQTT.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// CommandTopic is relative to the namespace.
	CommandTopic string
	// WebsocketAddr and StreamAddr accept commands directly when set.
	WebsocketAddr string
	StreamAddr    string
	// Telemetry publishes JointStates after each corrected tick.
	Telemetry bool

	Vehicle *vehicle.Config
}

// Topics relative to the namespace.
const (
	DefaultCommandTopic = "control_cmd"
	MetaTopic           = "meta"
	JointStatesTopic    = "joint_states"
	CommandErrTopic     = "command_err"
)

// DefaultVehicleType is the type used in namespaces.
const DefaultVehicleType = "gokart"

var defaultConfig = Config{
	Ref:           VehicleRef{Type: DefaultVehicleType},
	Meta:          Meta{Description: "gokart joint controller"},
	MQTTBrokerURL: "mqtt://localhost:1883/robo/",
	CommandTopic:  DefaultCommandTopic,
	Telemetry:     true,
}

func init() {
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("ROBO_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "type", defaultConfig.Ref.Type, "Vehicle type")
	flag.StringVar(&defaultConfig.Ref.ID, "id", defaultConfig.Ref.ID, "Vehicle ID, default is derived from machine ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.CommandTopic, "command-topic", defaultConfig.CommandTopic, "Command topic under the vehicle namespace")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws-listen", defaultConfig.WebsocketAddr, "Accept commands over websocket on this address")
	flag.StringVar(&defaultConfig.StreamAddr, "tcp-listen", defaultConfig.StreamAddr, "Accept length-prefixed commands over TCP on this address")
	flag.BoolVar(&defaultConfig.Telemetry, "telemetry", defaultConfig.Telemetry, "Publish joint states")
	vehicle.SetupFlags()
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	if conf.Ref.ID == "" {
		conf.Ref.ID = env.MachineID()
	}
	conf.Vehicle = vehicle.NewConfig()
	return &conf
}

// MustNewConfig creates a Config with the vehicle loaded from flags,
// and fails on error.
func MustNewConfig() *Config {
	conf := NewConfig()
	conf.Vehicle = vehicle.MustNewConfig()
	return conf
}

// Namespace is the topic namespace of the vehicle.
func (c *Config) Namespace() string {
	return c.Ref.Name()
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if !c.Ref.IsValid() {
		return fmt.Errorf("vehicle type and id must be specified")
	}
	if c.Vehicle == nil {
		return fmt.Errorf("vehicle config is required")
	}
	if c.MQTTBrokerURL != "" && c.CommandTopic == "" {
		return fmt.Errorf("command topic must be specified")
	}
	return nil
}

// MustInitialize creates a Session and fails on error.
func (c *Config) MustInitialize(host Host) *Session {
	s, err := Initialize(c, host)
	if err != nil {
		log.Fatalln(err)
	}
	return s
}
