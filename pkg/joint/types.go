package joint

import (
	"errors"
	"fmt"
)

// Joint is the host's simulated joint. The host owns its lifetime.
type Joint interface {
	// Velocity gets the angular velocity on axis.
	Velocity(axis int) float64
	// Position gets the angular position on axis.
	Position(axis int) float64
	// SetForce applies force (or torque) on axis for the next step.
	SetForce(axis int, force float64)
}

// PositionSetter is implemented by joints which accept position commands.
type PositionSetter interface {
	SetPosition(axis int, pos float64)
}

// Resolver finds joints by name. Joint returns nil if not found.
type Resolver interface {
	Joint(name string) Joint
}

// ResolveFunc is the func form of Resolver.
type ResolveFunc func(name string) Joint

// Joint implements Resolver.
func (f ResolveFunc) Joint(name string) Joint {
	return f(name)
}

// UnresolvedError indicates the host has no joint with the name.
type UnresolvedError struct {
	Name string
}

// Error implements error.
func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("joint %q not found", e.Name)
}

var (
	// ErrPositionUnsupported indicates the joint can't take position commands.
	ErrPositionUnsupported = errors.New("joint does not support position commands")
	// ErrInvalidAxis indicates a negative axis index.
	ErrInvalidAxis = errors.New("invalid joint axis")
)
