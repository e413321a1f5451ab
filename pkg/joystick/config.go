package joystick

import (
	"flag"
)

// Config defines the configurations for the teleop.
type Config struct {
	DeviceIndex int
	Verbose     bool
	// MaxSteeringAngle (radians) at full axis.
	MaxSteeringAngle float64
	// MaxVelocity (rad/s on the wheels) at full axis.
	MaxVelocity float64
	// StopButton centers and stops the kart, -1 disables it.
	StopButton int
}

var defaultConfig = Config{
	DeviceIndex:      -1,
	MaxSteeringAngle: 0.5,
	MaxVelocity:      20,
	StopButton:       0,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Device index, -1 for auto detection.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Print Joystick events.")
	flag.Float64Var(&defaultConfig.MaxSteeringAngle, "max-steering", defaultConfig.MaxSteeringAngle, "Steering angle (radians) at full stick.")
	flag.Float64Var(&defaultConfig.MaxVelocity, "max-velocity", defaultConfig.MaxVelocity, "Wheel velocity (rad/s) at full stick.")
	flag.IntVar(&defaultConfig.StopButton, "stop-button", defaultConfig.StopButton, "Button stopping the kart, -1 to disable.")
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

// NewTeleop creates a Teleop using the config.
func (c *Config) NewTeleop(sender Sender) *Teleop {
	return &Teleop{Config: *c, Sender: sender}
}
