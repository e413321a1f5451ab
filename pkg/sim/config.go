package sim

import (
	"flag"
	"time"

	"github.com/robotalks/gokart/pkg/vehicle"
)

// Config defines the simulated kart.
type Config struct {
	// StepSize is the simulation time advanced per tick.
	StepSize time.Duration
	// WheelRadius (m) converts wheel velocity to ground speed.
	WheelRadius float64
	// WheelBase (m) is the distance between the axles.
	WheelBase float64
	// Track (m) is the distance between left and right wheels.
	Track float64

	Steering JointSpec
	Drive    JointSpec
}

// Defaults
const (
	DefaultStepSize    = time.Millisecond
	DefaultWheelRadius = 0.13
	DefaultWheelBase   = 1.05
	DefaultTrack       = 0.9
)

var defaultConfig = Config{
	StepSize:    DefaultStepSize,
	WheelRadius: DefaultWheelRadius,
	WheelBase:   DefaultWheelBase,
	Track:       DefaultTrack,
	Steering:    JointSpec{Inertia: 0.05, Damping: 2, Lower: -0.6, Upper: 0.6},
	Drive:       JointSpec{Inertia: 0.5, Damping: 0.2},
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&defaultConfig.StepSize, "sim-step", defaultConfig.StepSize, "Simulation time advanced per tick.")
	flag.Float64Var(&defaultConfig.WheelRadius, "wheel-radius", defaultConfig.WheelRadius, "Wheel radius (m).")
	flag.Float64Var(&defaultConfig.WheelBase, "wheel-base", defaultConfig.WheelBase, "Distance (m) between front and rear axles.")
	flag.Float64Var(&defaultConfig.Drive.Damping, "drive-damping", defaultConfig.Drive.Damping, "Viscous damping of the wheel joints.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewWorld creates the world with the joints named in the vehicle config.
func (c *Config) NewWorld(vc *vehicle.Config) *World {
	w := NewWorld(c.StepSize)
	w.Kart = &Kart{
		WheelRadius: c.WheelRadius,
		WheelBase:   c.WheelBase,
		Track:       c.Track,
		FrontLeft:   w.AddJoint(NewRevoluteJoint(vc.FrontLeftSteering.Name, c.Steering)),
		FrontRight:  w.AddJoint(NewRevoluteJoint(vc.FrontRightSteering.Name, c.Steering)),
		RearLeft:    w.AddJoint(NewRevoluteJoint(vc.RearLeftDrive.Name, c.Drive)),
		RearRight:   w.AddJoint(NewRevoluteJoint(vc.RearRightDrive.Name, c.Drive)),
	}
	return w
}
