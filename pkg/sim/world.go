package sim

import (
	"math"
	"sort"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/joint"
)

// World owns the joints and the simulation clock. It's not safe for
// concurrent use, everything runs on the tick.
type World struct {
	StepSize time.Duration
	Kart     *Kart

	simTime   time.Duration
	joints    map[string]*RevoluteJoint
	listeners []ChangeListener
}

// NewWorld creates an empty world.
func NewWorld(stepSize time.Duration) *World {
	if stepSize <= 0 {
		stepSize = DefaultStepSize
	}
	return &World{StepSize: stepSize, joints: make(map[string]*RevoluteJoint)}
}

// AddJoint adds a joint, replacing the one with the same name.
func (w *World) AddJoint(j *RevoluteJoint) *RevoluteJoint {
	w.joints[j.Name()] = j
	return j
}

// Joint implements joint.Resolver.
func (w *World) Joint(name string) joint.Joint {
	if j, ok := w.joints[name]; ok {
		return j
	}
	return nil
}

// JointNames lists the joints in name order.
func (w *World) JointNames() []string {
	names := make([]string, 0, len(w.joints))
	for name := range w.joints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimTime implements framework.Clock.
func (w *World) SimTime() time.Duration {
	return w.simTime
}

// Subscribe adds a listener for world changes.
func (w *World) Subscribe(ln ChangeListener) {
	w.listeners = append(w.listeners, ln)
}

// Step advances the world by dt.
func (w *World) Step(dt time.Duration) {
	for _, j := range w.joints {
		j.Step(dt)
	}
	if w.Kart != nil {
		w.Kart.Step(dt)
	}
	w.simTime += dt
}

// Reset rewinds the clock to 0 and puts everything at rest.
func (w *World) Reset() {
	glog.Infof("world reset at %v", w.simTime)
	w.simTime = 0
	for _, j := range w.joints {
		j.Reset()
	}
	if w.Kart != nil {
		w.Kart.Pose = Pose2D{}
	}
	for _, ln := range w.listeners {
		ln.WorldReset()
	}
}

// Control implements Controller. It integrates the forces applied in
// this tick.
func (w *World) Control(cc fx.ControlContext) error {
	w.Step(w.StepSize)
	if w.Kart != nil {
		for _, ln := range w.listeners {
			ln.ObjectsChanged(cc, w.Kart)
		}
	}
	return nil
}

// AddToLoop implements LoopAdder. Physics runs last so controllers
// observe the state at the tick's time.
func (w *World) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPhysics, w)
}

// Kart moves on the ground plane following a bicycle model of its
// joints.
type Kart struct {
	WheelRadius float64
	WheelBase   float64
	Track       float64
	Pose        Pose2D

	FrontLeft, FrontRight *RevoluteJoint
	RearLeft, RearRight   *RevoluteJoint
}

// Name implements Object.
func (k *Kart) Name() string {
	return "gokart"
}

// Position2D implements Positionable2D.
func (k *Kart) Position2D() Pose2D {
	return k.Pose
}

// OutlineRect implements Rectangular.
func (k *Kart) OutlineRect() Rect {
	return Rect{
		Pos2D:  Pos2D{X: -k.WheelBase / 2, Y: -k.Track / 2},
		Size2D: Size2D{CX: k.WheelBase, CY: k.Track},
	}
}

// Speed is the ground speed (m/s) from the rear wheels.
func (k *Kart) Speed() float64 {
	return (k.RearLeft.Velocity(0) + k.RearRight.Velocity(0)) / 2 * k.WheelRadius
}

// SteeringAngle is the mean of the front wheel angles.
func (k *Kart) SteeringAngle() float64 {
	return (k.FrontLeft.Position(0) + k.FrontRight.Position(0)) / 2
}

// Step moves the kart by dt with current joint states.
func (k *Kart) Step(dt time.Duration) {
	secs := dt.Seconds()
	speed := k.Speed()
	if k.WheelBase > 0 {
		k.Pose.Orientation = k.Pose.Orientation.AddRadians(speed / k.WheelBase * math.Tan(k.SteeringAngle()) * secs)
	}
	k.Pose.Pos2D.OffsetBy(k.Pose.Orientation.Project(speed * secs))
}
