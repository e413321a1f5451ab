package vehicle

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"time"

	"gopkg.in/yaml.v3"

	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/pid"
)

// SteeringMode selects how steering joints follow the desired angle.
type SteeringMode string

// Steering modes
const (
	// SteeringModeForce runs the position PID and applies its output as force.
	SteeringModeForce SteeringMode = "force"
	// SteeringModePosition commands the joint position directly.
	SteeringModePosition SteeringMode = "position"
	// SteeringModeDisabled leaves steering joints untouched.
	SteeringModeDisabled SteeringMode = "disabled"
)

// String implements flag.Value.
func (m *SteeringMode) String() string {
	return string(*m)
}

// Set implements flag.Value.
func (m *SteeringMode) Set(val string) error {
	mode := SteeringMode(val)
	if !mode.IsValid() {
		return fmt.Errorf("invalid steering mode %q", val)
	}
	*m = mode
	return nil
}

// IsValid indicates the mode is known.
func (m SteeringMode) IsValid() bool {
	switch m {
	case SteeringModeForce, SteeringModePosition, SteeringModeDisabled:
		return true
	}
	return false
}

// JointConfig describes one controlled joint.
type JointConfig struct {
	Name   string     `yaml:"name"`
	Axis   int        `yaml:"axis"`
	Gains  pid.Gains  `yaml:"gains"`
	Limits pid.Limits `yaml:"limits"`
}

// Config describes the vehicle's controlled joints.
type Config struct {
	FrontLeftSteering  JointConfig `yaml:"front_left_steering"`
	FrontRightSteering JointConfig `yaml:"front_right_steering"`
	RearLeftDrive      JointConfig `yaml:"rear_left_drive"`
	RearRightDrive     JointConfig `yaml:"rear_right_drive"`

	SteeringMode SteeringMode `yaml:"steering_mode"`
	// MaxSteeringAngle (radians) clamps the desired angle, 0 means unlimited.
	MaxSteeringAngle float64 `yaml:"max_steering_angle"`
	// UpdatePeriod throttles corrections, 0 corrects on every tick.
	UpdatePeriod time.Duration `yaml:"update_period"`
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid vehicle config %s: %s", e.Field, e.Reason)
}

// Restoring gains are negative since the PID error is measured minus target.
var (
	defaultDriveGains    = pid.Gains{P: -10}
	defaultSteeringGains = pid.Gains{P: -10, D: -0.5}
)

var defaultConfig = Config{
	FrontLeftSteering:  JointConfig{Name: "front_left_steering_joint", Gains: defaultSteeringGains},
	FrontRightSteering: JointConfig{Name: "front_right_steering_joint", Gains: defaultSteeringGains},
	RearLeftDrive:      JointConfig{Name: "back_left_wheel_joint", Gains: defaultDriveGains},
	RearRightDrive:     JointConfig{Name: "back_right_wheel_joint", Gains: defaultDriveGains},
	SteeringMode:       SteeringModeForce,
}

var configFile string

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "vehicle-config", configFile, "Vehicle description YAML file.")
	flag.Var(&defaultConfig.SteeringMode, "steering-mode", "Steering actuation: force, position or disabled.")
	flag.Float64Var(&defaultConfig.MaxSteeringAngle, "max-steering-angle", defaultConfig.MaxSteeringAngle, "Maximum steering angle (radians), 0 means unlimited.")
	flag.DurationVar(&defaultConfig.UpdatePeriod, "update-period", defaultConfig.UpdatePeriod, "Minimum sim time between corrections, 0 corrects every tick.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	conf := NewConfig()
	if err := conf.LoadFile(path); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// MustNewConfig loads the file given by -vehicle-config if any, and
// fails on error.
func MustNewConfig() *Config {
	conf := NewConfig()
	if configFile != "" {
		if err := conf.LoadFile(configFile); err != nil {
			log.Fatalln(err)
		}
	}
	if err := conf.Validate(); err != nil {
		log.Fatalln(err)
	}
	return conf
}

// LoadFile overlays the YAML file onto c.
func (c *Config) LoadFile(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %v", path, err)
	}
	return nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	var errs fx.AggregatedError
	for _, f := range c.joints() {
		if f.conf.Name == "" {
			errs.Add(&ConfigError{Field: f.field + ".name", Reason: "required"})
		}
		if f.conf.Axis < 0 {
			errs.Add(&ConfigError{Field: f.field + ".axis", Reason: "must not be negative"})
		}
	}
	if !c.SteeringMode.IsValid() {
		errs.Add(&ConfigError{Field: "steering_mode", Reason: fmt.Sprintf("unknown mode %q", c.SteeringMode)})
	}
	if c.MaxSteeringAngle < 0 {
		errs.Add(&ConfigError{Field: "max_steering_angle", Reason: "must not be negative"})
	}
	if c.UpdatePeriod < 0 {
		errs.Add(&ConfigError{Field: "update_period", Reason: "must not be negative"})
	}
	return errs.Aggregate()
}

type jointField struct {
	field string
	conf  *JointConfig
}

func (c *Config) joints() []jointField {
	return []jointField{
		{"front_left_steering", &c.FrontLeftSteering},
		{"front_right_steering", &c.FrontRightSteering},
		{"rear_left_drive", &c.RearLeftDrive},
		{"rear_right_drive", &c.RearRightDrive},
	}
}
