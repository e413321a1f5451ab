package sim

import (
	"math"
	"time"
)

// JointSpec describes the dynamics of a revolute joint.
type JointSpec struct {
	// Inertia (kg*m^2) about the axis, must be positive.
	Inertia float64
	// Damping is the viscous friction coefficient.
	Damping float64
	// Lower and Upper limit the position when Upper > Lower.
	Lower float64
	Upper float64
}

// RevoluteJoint is a single-axis joint driven by force or position.
// Forces only last for the next Step, like a physics engine's
// per-step force.
type RevoluteJoint struct {
	Spec JointSpec

	name     string
	position float64
	velocity float64
	force    float64

	target    float64
	hasTarget bool
}

// NewRevoluteJoint creates a joint at rest.
func NewRevoluteJoint(name string, spec JointSpec) *RevoluteJoint {
	return &RevoluteJoint{Spec: spec, name: name}
}

// Name implements Named.
func (j *RevoluteJoint) Name() string {
	return j.name
}

// Velocity implements joint.Joint. Only axis 0 exists.
func (j *RevoluteJoint) Velocity(axis int) float64 {
	if axis != 0 {
		return 0
	}
	return j.velocity
}

// Position implements joint.Joint.
func (j *RevoluteJoint) Position(axis int) float64 {
	if axis != 0 {
		return 0
	}
	return j.position
}

// SetForce implements joint.Joint. Forces set within a step accumulate.
func (j *RevoluteJoint) SetForce(axis int, force float64) {
	if axis == 0 {
		j.force += force
	}
}

// SetPosition implements joint.PositionSetter. The joint reaches the
// position at the next Step.
func (j *RevoluteJoint) SetPosition(axis int, pos float64) {
	if axis == 0 {
		j.target, j.hasTarget = pos, true
	}
}

// Force is the force accumulated for the next step.
func (j *RevoluteJoint) Force() float64 {
	return j.force
}

// Step integrates the joint over dt with semi-implicit Euler.
func (j *RevoluteJoint) Step(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}
	if j.hasTarget {
		target := j.clamp(j.target)
		j.velocity = (target - j.position) / secs
		j.position = target
	} else {
		accel := (j.force - j.Spec.Damping*j.velocity) / j.Spec.Inertia
		j.velocity += accel * secs
		j.position += j.velocity * secs
		if pos := j.clamp(j.position); pos != j.position {
			j.position, j.velocity = pos, 0
		}
	}
	j.force, j.hasTarget = 0, false
}

// Reset puts the joint at rest at position 0.
func (j *RevoluteJoint) Reset() {
	j.position, j.velocity, j.force, j.hasTarget = 0, 0, 0, false
}

func (j *RevoluteJoint) clamp(pos float64) float64 {
	if j.Spec.Upper > j.Spec.Lower {
		return math.Max(j.Spec.Lower, math.Min(j.Spec.Upper, pos))
	}
	return pos
}
