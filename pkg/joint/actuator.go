// Package joint binds simulated joints to PID controllers.
package joint

import (
	"time"

	"github.com/robotalks/gokart/pkg/pid"
)

// Actuator drives one joint with its own PID controller.
type Actuator struct {
	name  string
	axis  int
	joint Joint
	pid   *pid.Controller
}

// NewActuator creates and initializes an Actuator.
func NewActuator(name string, axis int, gains pid.Gains, limits pid.Limits, j Joint) (*Actuator, error) {
	a := &Actuator{}
	if err := a.Init(name, axis, gains, limits, j); err != nil {
		return nil, err
	}
	return a, nil
}

// Init binds gains and the joint. It fails if the joint is unresolved.
func (a *Actuator) Init(name string, axis int, gains pid.Gains, limits pid.Limits, j Joint) error {
	if j == nil {
		return &UnresolvedError{Name: name}
	}
	if axis < 0 {
		return ErrInvalidAxis
	}
	a.name, a.axis, a.joint = name, axis, j
	a.pid = pid.New(gains, limits)
	return nil
}

// Name implements Named.
func (a *Actuator) Name() string {
	return a.name
}

// Axis returns the configured axis index.
func (a *Actuator) Axis() int {
	return a.axis
}

// ReadVelocity reads the joint velocity.
func (a *Actuator) ReadVelocity() float64 {
	return a.joint.Velocity(a.axis)
}

// ReadPosition reads the joint position.
func (a *Actuator) ReadPosition() float64 {
	return a.joint.Position(a.axis)
}

// ComputeCorrection runs one PID update with error measured - target.
// It mutates controller state and must be called once per tick.
func (a *Actuator) ComputeCorrection(measured, target float64, dt time.Duration) float64 {
	return a.pid.Update(measured-target, dt)
}

// ApplyCorrection applies the force to the joint.
func (a *Actuator) ApplyCorrection(force float64) {
	a.joint.SetForce(a.axis, force)
}

// SupportsPosition indicates ApplyPosition can be used.
func (a *Actuator) SupportsPosition() bool {
	_, ok := a.joint.(PositionSetter)
	return ok
}

// ApplyPosition commands the joint position directly.
func (a *Actuator) ApplyPosition(pos float64) error {
	setter, ok := a.joint.(PositionSetter)
	if !ok {
		return ErrPositionUnsupported
	}
	setter.SetPosition(a.axis, pos)
	return nil
}

// PID exposes the controller for inspection.
func (a *Actuator) PID() *pid.Controller {
	return a.pid
}

// Reset clears controller state.
func (a *Actuator) Reset() {
	a.pid.Reset()
}
