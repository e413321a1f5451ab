package vehicle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gokart/pkg/command"
	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/joint"
	"github.com/robotalks/gokart/pkg/pid"
)

type fakeJoint struct {
	velocity float64
	position float64
	writes   []float64
	posCmds  []float64
}

func (j *fakeJoint) Velocity(axis int) float64        { return j.velocity }
func (j *fakeJoint) Position(axis int) float64        { return j.position }
func (j *fakeJoint) SetForce(axis int, force float64) { j.writes = append(j.writes, force) }

type positionJoint struct {
	*fakeJoint
}

func (j positionJoint) SetPosition(axis int, pos float64) { j.posCmds = append(j.posCmds, pos) }

type testVehicle struct {
	t      *testing.T
	joints map[string]*fakeJoint
	cell   command.Cell
	loop   *ControlLoop
}

func testConfig(gains pid.Gains) *Config {
	conf := NewConfig()
	for _, f := range conf.joints() {
		f.conf.Gains = gains
	}
	return conf
}

func newTestVehicle(t *testing.T, conf *Config) *testVehicle {
	v := &testVehicle{t: t, joints: make(map[string]*fakeJoint)}
	for _, f := range conf.joints() {
		v.joints[f.conf.Name] = &fakeJoint{}
	}
	loop, err := New(conf, joint.ResolveFunc(func(name string) joint.Joint {
		if j, ok := v.joints[name]; ok {
			return j
		}
		return nil
	}), &v.cell)
	require.NoError(t, err)
	v.loop = loop
	return v
}

func (v *testVehicle) joint(name string) *fakeJoint {
	return v.joints[name]
}

func (v *testVehicle) totalWrites() int {
	var n int
	for _, j := range v.joints {
		n += len(j.writes) + len(j.posCmds)
	}
	return n
}

func TestFirstTickSeedsOnly(t *testing.T) {
	v := newTestVehicle(t, testConfig(pid.Gains{P: 10}))
	v.cell.Store(command.Command{Velocity: 5, SteeringAngle: 0.2})
	require.Equal(t, Uninitialized, v.loop.State())
	require.False(t, v.loop.Update(2*time.Second))
	require.Equal(t, Running, v.loop.State())
	require.Equal(t, 2*time.Second, v.loop.LastSimTime())
	require.Equal(t, 2*time.Second, v.loop.LastUpdateTime())
	require.Zero(t, v.totalWrites())
}

func TestDriveCorrection(t *testing.T) {
	v := newTestVehicle(t, testConfig(pid.Gains{P: 10}))
	v.cell.Store(command.Command{Velocity: 5})
	v.joint("back_left_wheel_joint").velocity = 3
	v.joint("back_right_wheel_joint").velocity = 5

	v.loop.Update(time.Second)
	require.True(t, v.loop.Update(time.Second+10*time.Millisecond))
	require.Equal(t, []float64{-20}, v.joint("back_left_wheel_joint").writes)
	require.Equal(t, []float64{0}, v.joint("back_right_wheel_joint").writes)
	require.Equal(t, time.Second+10*time.Millisecond, v.loop.LastSimTime())

	snap := v.loop.Snapshot()
	require.Equal(t, uint64(1), snap.Seq)
	require.Equal(t, "back_left_wheel_joint", snap.Joints[2].Name)
	require.Equal(t, -20.0, snap.Joints[2].Correction)
	require.Equal(t, 5.0, snap.Joints[2].Target)
}

func TestNoCommandTargetsZero(t *testing.T) {
	v := newTestVehicle(t, testConfig(pid.Gains{P: 1}))
	rl := v.joint("back_left_wheel_joint")
	rl.velocity = 2
	for i := 0; i <= 5; i++ {
		v.loop.Update(time.Duration(i) * 8 * time.Millisecond)
	}
	require.Equal(t, []float64{2, 2, 2, 2, 2}, rl.writes)
	require.Equal(t, command.Command{}, v.loop.Snapshot().Command)
}

func TestLatestCommandWins(t *testing.T) {
	v := newTestVehicle(t, testConfig(pid.Gains{P: 1}))
	v.loop.Update(0)
	v.cell.Store(command.Command{Velocity: 1})
	v.cell.Store(command.Command{Velocity: 7})
	v.loop.Update(8 * time.Millisecond)
	require.Equal(t, []float64{-7}, v.joint("back_left_wheel_joint").writes)
}

func TestIntegralGrowsAcrossTicks(t *testing.T) {
	v := newTestVehicle(t, testConfig(pid.Gains{I: 1}))
	v.cell.Store(command.Command{Velocity: 1})
	v.loop.Update(0)
	v.loop.Update(10 * time.Millisecond)
	v.loop.Update(20 * time.Millisecond)
	writes := v.joint("back_left_wheel_joint").writes
	require.Len(t, writes, 2)
	require.True(t, writes[1] < writes[0] && writes[0] < 0, "%v", writes)
}

func TestZeroDtTick(t *testing.T) {
	v := newTestVehicle(t, testConfig(pid.Gains{P: 1, I: 1, D: 1}))
	v.cell.Store(command.Command{Velocity: 1})
	v.loop.Update(time.Second)
	v.loop.Update(time.Second)
	// P only: no integral accumulated and no derivative at dt == 0.
	require.Equal(t, []float64{-1}, v.joint("back_left_wheel_joint").writes)
}

func TestSteeringForce(t *testing.T) {
	conf := testConfig(pid.Gains{P: 10})
	conf.MaxSteeringAngle = 0.5
	v := newTestVehicle(t, conf)
	v.cell.Store(command.Command{SteeringAngle: 0.8})
	v.joint("front_left_steering_joint").position = 0.25
	v.loop.Update(0)
	v.loop.Update(8 * time.Millisecond)
	require.Equal(t, []float64{-2.5}, v.joint("front_left_steering_joint").writes)
	require.Equal(t, []float64{-5}, v.joint("front_right_steering_joint").writes)
	require.Equal(t, 0.5, v.loop.Snapshot().Joints[0].Target)
}

func TestSteeringDisabled(t *testing.T) {
	conf := testConfig(pid.Gains{P: 10})
	conf.SteeringMode = SteeringModeDisabled
	v := newTestVehicle(t, conf)
	v.cell.Store(command.Command{SteeringAngle: 0.3})
	v.loop.Update(0)
	v.loop.Update(8 * time.Millisecond)
	require.Empty(t, v.joint("front_left_steering_joint").writes)
	require.Empty(t, v.joint("front_right_steering_joint").writes)
}

func TestSteeringPosition(t *testing.T) {
	conf := testConfig(pid.Gains{P: 10})
	conf.SteeringMode = SteeringModePosition
	fl, fr := &fakeJoint{}, &fakeJoint{}
	joints := map[string]joint.Joint{
		conf.FrontLeftSteering.Name:  positionJoint{fl},
		conf.FrontRightSteering.Name: positionJoint{fr},
		conf.RearLeftDrive.Name:      &fakeJoint{},
		conf.RearRightDrive.Name:     &fakeJoint{},
	}
	var cell command.Cell
	loop, err := New(conf, joint.ResolveFunc(func(name string) joint.Joint { return joints[name] }), &cell)
	require.NoError(t, err)
	cell.Store(command.Command{SteeringAngle: -0.25})
	loop.Update(0)
	loop.Update(8 * time.Millisecond)
	require.Equal(t, []float64{-0.25}, fl.posCmds)
	require.Equal(t, []float64{-0.25}, fr.posCmds)
	require.Empty(t, fl.writes)
}

func TestSteeringPositionUnsupported(t *testing.T) {
	conf := NewConfig()
	conf.SteeringMode = SteeringModePosition
	_, err := New(conf, joint.ResolveFunc(func(string) joint.Joint { return &fakeJoint{} }), &command.Cell{})
	require.Error(t, err)
	errs := err.(*fx.AggregatedError).Errors
	require.Len(t, errs, 2)
	require.IsType(t, &ConfigError{}, errs[0])
}

func TestUnresolvedJoints(t *testing.T) {
	conf := NewConfig()
	_, err := New(conf, joint.ResolveFunc(func(name string) joint.Joint {
		if name == conf.RearLeftDrive.Name {
			return &fakeJoint{}
		}
		return nil
	}), &command.Cell{})
	require.Error(t, err)
	errs := err.(*fx.AggregatedError).Errors
	require.Len(t, errs, 3)
	require.Equal(t, &joint.UnresolvedError{Name: "front_left_steering_joint"}, errs[0])
}

func TestUpdatePeriod(t *testing.T) {
	conf := testConfig(pid.Gains{I: 1})
	conf.UpdatePeriod = 10 * time.Millisecond
	v := newTestVehicle(t, conf)
	v.cell.Store(command.Command{Velocity: 1})
	rl := v.joint("back_left_wheel_joint")
	v.loop.Update(0)
	require.False(t, v.loop.Update(4*time.Millisecond))
	require.False(t, v.loop.Update(8*time.Millisecond))
	require.Equal(t, 8*time.Millisecond, v.loop.LastSimTime())
	require.True(t, v.loop.Update(12*time.Millisecond))
	require.Equal(t, 12*time.Millisecond, v.loop.LastUpdateTime())
	// integral of -1 over 12ms.
	require.InDelta(t, -0.012, rl.writes[0], 1e-12)
}

func TestTimeBackwardsReseeds(t *testing.T) {
	v := newTestVehicle(t, testConfig(pid.Gains{P: 1, I: 1}))
	v.cell.Store(command.Command{Velocity: 1})
	v.loop.Update(time.Second)
	v.loop.Update(2 * time.Second)
	rl := v.joint("back_left_wheel_joint")
	require.Len(t, rl.writes, 1)

	require.False(t, v.loop.Update(0))
	require.Equal(t, time.Duration(0), v.loop.LastSimTime())
	integral, _, _ := v.loop.rearLeft.PID().State()
	require.Zero(t, integral)
	require.Len(t, rl.writes, 1)
}

func TestReset(t *testing.T) {
	v := newTestVehicle(t, testConfig(pid.Gains{I: 1}))
	v.cell.Store(command.Command{Velocity: 1})
	v.loop.Update(0)
	v.loop.Update(time.Second)
	v.loop.Reset()
	require.Equal(t, Uninitialized, v.loop.State())
	require.False(t, v.loop.Update(5*time.Second))
	require.True(t, v.loop.Update(6*time.Second))
	writes := v.joint("back_left_wheel_joint").writes
	require.Equal(t, writes[0], writes[1])
}
