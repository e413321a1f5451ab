package session

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/msgs"
	"github.com/robotalks/gokart/pkg/vehicle"
)

// SnapshotSource provides the result of the last corrected tick.
type SnapshotSource interface {
	Snapshot() vehicle.Snapshot
}

// Telemetry publishes a JointStates event for each corrected tick.
type Telemetry struct {
	Publisher Publisher
	Topic     string
	Source    SnapshotSource

	lastSeq uint64
}

// JointStatesFrom converts a snapshot into the event message.
func JointStatesFrom(snap vehicle.Snapshot) *msgs.JointStates {
	states := &msgs.JointStates{SimTimeNs: int64(snap.SimTime)}
	for _, j := range snap.Joints {
		states.Joints = append(states.Joints, &msgs.JointState{
			Name:       j.Name,
			Position:   j.Position,
			Velocity:   j.Velocity,
			Target:     j.Target,
			Correction: j.Correction,
		})
	}
	return states
}

// Report publishes the snapshot if it hasn't been published. It
// returns true if something was published.
func (t *Telemetry) Report() bool {
	snap := t.Source.Snapshot()
	if snap.Seq == 0 || snap.Seq == t.lastSeq {
		return false
	}
	t.lastSeq = snap.Seq
	pkt, err := msgs.Encode(JointStatesFrom(snap))
	if err != nil {
		glog.Errorf("encode joint states: %v", err)
		return false
	}
	// fire and forget, the tick must not wait on the broker.
	t.Publisher.PubWith(t.Topic, pkt, 0, false)
	return true
}

// Control implements Controller.
func (t *Telemetry) Control(fx.ControlContext) error {
	t.Report()
	return nil
}

// AddToLoop implements LoopAdder.
func (t *Telemetry) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPostProc, t)
}
