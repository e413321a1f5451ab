// Package vehicle drives the kart's steering and wheel joints toward
// the latest control command once per simulation tick.
package vehicle

import (
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gokart/pkg/command"
	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/joint"
)

// State of the control loop.
type State int

// States
const (
	// Uninitialized means no tick has been observed yet.
	Uninitialized State = iota
	// Running means the loop has a valid last tick time.
	Running
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "uninitialized"
}

// CommandSource provides the latest command without blocking.
type CommandSource interface {
	Load() command.Command
}

// JointSnapshot is the observed state of one joint in the last
// corrected tick.
type JointSnapshot struct {
	Name       string
	Position   float64
	Velocity   float64
	Target     float64
	Correction float64
}

// Snapshot is the result of the last corrected tick.
type Snapshot struct {
	// Seq counts corrected ticks, 0 means none yet.
	Seq     uint64
	SimTime time.Duration
	Command command.Command
	Joints  [4]JointSnapshot
}

// ControlLoop owns the four actuators of the kart.
type ControlLoop struct {
	Commands         CommandSource
	SteeringMode     SteeringMode
	MaxSteeringAngle float64
	UpdatePeriod     time.Duration

	frontLeft  *joint.Actuator
	frontRight *joint.Actuator
	rearLeft   *joint.Actuator
	rearRight  *joint.Actuator

	state          State
	lastSimTime    time.Duration
	lastUpdateTime time.Duration
	snapshot       Snapshot
}

// New resolves all joints and creates the loop. Any joint which can't
// be resolved fails the whole initialization.
func New(conf *Config, resolver joint.Resolver, commands CommandSource) (*ControlLoop, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	l := &ControlLoop{
		Commands:         commands,
		SteeringMode:     conf.SteeringMode,
		MaxSteeringAngle: conf.MaxSteeringAngle,
		UpdatePeriod:     conf.UpdatePeriod,
	}
	var errs fx.AggregatedError
	bind := func(jc JointConfig) *joint.Actuator {
		a, err := joint.NewActuator(jc.Name, jc.Axis, jc.Gains, jc.Limits, resolver.Joint(jc.Name))
		errs.Add(err)
		return a
	}
	l.frontLeft = bind(conf.FrontLeftSteering)
	l.frontRight = bind(conf.FrontRightSteering)
	l.rearLeft = bind(conf.RearLeftDrive)
	l.rearRight = bind(conf.RearRightDrive)
	if err := errs.Aggregate(); err != nil {
		return nil, err
	}
	if l.SteeringMode == SteeringModePosition {
		for _, a := range l.steering() {
			if !a.SupportsPosition() {
				errs.Add(&ConfigError{Field: "steering_mode", Reason: a.Name() + ": " + joint.ErrPositionUnsupported.Error()})
			}
		}
		if err := errs.Aggregate(); err != nil {
			return nil, err
		}
	}
	for n, a := range l.Actuators() {
		l.snapshot.Joints[n].Name = a.Name()
		glog.V(2).Infof("joint %q bound on axis %d", a.Name(), a.Axis())
	}
	return l, nil
}

// Actuators returns front-left, front-right, rear-left, rear-right.
func (l *ControlLoop) Actuators() []*joint.Actuator {
	return []*joint.Actuator{l.frontLeft, l.frontRight, l.rearLeft, l.rearRight}
}

func (l *ControlLoop) steering() []*joint.Actuator {
	return []*joint.Actuator{l.frontLeft, l.frontRight}
}

// State returns the current state.
func (l *ControlLoop) State() State {
	return l.state
}

// LastSimTime is the time of the previous tick.
func (l *ControlLoop) LastSimTime() time.Duration {
	return l.lastSimTime
}

// LastUpdateTime is the time of the previous correction, or of the
// first tick.
func (l *ControlLoop) LastUpdateTime() time.Duration {
	return l.lastUpdateTime
}

// Snapshot returns the result of the last corrected tick.
func (l *ControlLoop) Snapshot() Snapshot {
	return l.snapshot
}

// Update runs one tick at simulation time now. It returns true if
// corrections were applied.
//
// The first tick, and any tick whose time is before the previous one
// (the host reset its world), only records the time.
func (l *ControlLoop) Update(now time.Duration) bool {
	if l.state == Uninitialized || now < l.lastSimTime {
		if l.state == Running {
			glog.Warningf("sim time went backwards from %v to %v, reseeding", l.lastSimTime, now)
			l.resetControllers()
		}
		l.state = Running
		l.lastSimTime, l.lastUpdateTime = now, now
		return false
	}

	dt := now - l.lastUpdateTime
	if l.UpdatePeriod > 0 && dt < l.UpdatePeriod {
		l.lastSimTime = now
		return false
	}

	cmd := l.Commands.Load()
	l.snapshot.Seq++
	l.snapshot.SimTime, l.snapshot.Command = now, cmd

	l.drive(2, l.rearLeft, cmd.Velocity, dt)
	l.drive(3, l.rearRight, cmd.Velocity, dt)

	if l.SteeringMode != SteeringModeDisabled {
		angle := cmd.SteeringAngle
		if limit := l.MaxSteeringAngle; limit > 0 {
			angle = math.Max(-limit, math.Min(limit, angle))
		}
		l.steer(0, l.frontLeft, angle, dt)
		l.steer(1, l.frontRight, angle, dt)
	}

	l.lastSimTime, l.lastUpdateTime = now, now
	return true
}

func (l *ControlLoop) drive(index int, a *joint.Actuator, target float64, dt time.Duration) {
	measured := a.ReadVelocity()
	force := a.ComputeCorrection(measured, target, dt)
	a.ApplyCorrection(force)
	l.record(index, a, target, force)
}

func (l *ControlLoop) steer(index int, a *joint.Actuator, target float64, dt time.Duration) {
	if l.SteeringMode == SteeringModePosition {
		// Checked by New.
		a.ApplyPosition(target)
		l.record(index, a, target, target)
		return
	}
	measured := a.ReadPosition()
	force := a.ComputeCorrection(measured, target, dt)
	a.ApplyCorrection(force)
	l.record(index, a, target, force)
}

func (l *ControlLoop) record(index int, a *joint.Actuator, target, correction float64) {
	js := &l.snapshot.Joints[index]
	js.Position, js.Velocity = a.ReadPosition(), a.ReadVelocity()
	js.Target, js.Correction = target, correction
}

// Reset returns the loop to Uninitialized and clears all controllers.
func (l *ControlLoop) Reset() {
	l.state = Uninitialized
	l.lastSimTime, l.lastUpdateTime = 0, 0
	l.resetControllers()
}

func (l *ControlLoop) resetControllers() {
	for _, a := range l.Actuators() {
		a.Reset()
	}
}

// Control implements Controller.
func (l *ControlLoop) Control(cc fx.ControlContext) error {
	l.Update(cc.SimTime())
	return nil
}

// AddToLoop implements LoopAdder.
func (l *ControlLoop) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvControl, l)
}
