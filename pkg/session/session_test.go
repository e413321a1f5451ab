package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gokart/pkg/command"
	"github.com/robotalks/gokart/pkg/joint"
	"github.com/robotalks/gokart/pkg/msgs"
	"github.com/robotalks/gokart/pkg/pid"
	"github.com/robotalks/gokart/pkg/vehicle"
)

type fakeJoint struct {
	velocity float64
	writes   []float64
}

func (j *fakeJoint) Velocity(axis int) float64        { return j.velocity }
func (j *fakeJoint) Position(axis int) float64        { return 0 }
func (j *fakeJoint) SetForce(axis int, force float64) { j.writes = append(j.writes, force) }

type fakeHost map[string]*fakeJoint

func (h fakeHost) Joint(name string) joint.Joint {
	if j, ok := h[name]; ok {
		return j
	}
	return nil
}

func newHost(conf *vehicle.Config) fakeHost {
	return fakeHost{
		conf.FrontLeftSteering.Name:  &fakeJoint{},
		conf.FrontRightSteering.Name: &fakeJoint{},
		conf.RearLeftDrive.Name:      &fakeJoint{},
		conf.RearRightDrive.Name:     &fakeJoint{},
	}
}

type published struct {
	topic   string
	payload []byte
	retain  bool
}

type fakePublisher struct {
	lock sync.Mutex
	msgs []published
}

func (p *fakePublisher) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.msgs = append(p.msgs, published{topic: topic, payload: payload, retain: retain})
	return &paho.DummyToken{}
}

func testConfig() *Config {
	conf := &Config{
		Ref:          VehicleRef{Type: "gokart", ID: "test"},
		CommandTopic: DefaultCommandTopic,
		Vehicle:      vehicle.NewConfig(),
	}
	conf.Vehicle.RearLeftDrive.Gains = pid.Gains{P: 10}
	return conf
}

func TestInitializeUnresolved(t *testing.T) {
	conf := testConfig()
	host := newHost(conf.Vehicle)
	delete(host, conf.Vehicle.RearRightDrive.Name)
	s, err := Initialize(conf, host)
	require.Error(t, err)
	require.Nil(t, s)
	require.Equal(t, `joint "back_right_wheel_joint" not found`, err.Error())
}

func TestInitializeInvalidConfig(t *testing.T) {
	conf := testConfig()
	conf.Ref.ID = ""
	_, err := Initialize(conf, fakeHost{})
	require.Error(t, err)
	conf = testConfig()
	conf.Vehicle = nil
	_, err = Initialize(conf, fakeHost{})
	require.Error(t, err)
}

func TestSessionTicks(t *testing.T) {
	conf := testConfig()
	host := newHost(conf.Vehicle)
	host[conf.Vehicle.RearLeftDrive.Name].velocity = 3
	s, err := Initialize(conf, host)
	require.NoError(t, err)

	s.Commands().Store(command.Command{Velocity: 5})
	require.False(t, s.OnTick(time.Second))
	require.True(t, s.OnTick(time.Second+8*time.Millisecond))
	require.Equal(t, []float64{-20}, host[conf.Vehicle.RearLeftDrive.Name].writes)
	require.Equal(t, vehicle.Running, s.Loop().State())

	s.Reset()
	require.Equal(t, vehicle.Uninitialized, s.Loop().State())
	require.False(t, s.OnTick(0))
}

func TestStartShutdown(t *testing.T) {
	conf := testConfig()
	s, err := Initialize(conf, newHost(conf.Vehicle))
	require.NoError(t, err)
	s.OnTick(0)
	s.Start(context.Background())
	require.NoError(t, s.Shutdown())
	require.Equal(t, vehicle.Uninitialized, s.Loop().State())
	require.NoError(t, s.Shutdown())
}

func TestInitializeWithMQTT(t *testing.T) {
	conf := testConfig()
	conf.MQTTBrokerURL = "mqtt://localhost:1883/robo/"
	conf.Telemetry = true
	s, err := Initialize(conf, newHost(conf.Vehicle))
	require.NoError(t, err)
	require.NotNil(t, s.telemetry)
	require.Equal(t, "gokart/test/joint_states", s.telemetry.Topic)
	require.Len(t, s.feeders, 1)
	ch := s.feeders[0].(*command.MQTTChannel)
	require.Equal(t, "gokart/test/control_cmd", ch.Topic)

	conf.MQTTBrokerURL = "mqtt://%zz"
	_, err = Initialize(conf, newHost(conf.Vehicle))
	require.Error(t, err)
}

func TestTelemetryReport(t *testing.T) {
	conf := testConfig()
	host := newHost(conf.Vehicle)
	host[conf.Vehicle.RearLeftDrive.Name].velocity = 3
	s, err := Initialize(conf, host)
	require.NoError(t, err)
	pub := &fakePublisher{}
	s.telemetry = &Telemetry{Publisher: pub, Topic: "gokart/test/joint_states", Source: s.Loop()}

	s.OnTick(0)
	require.False(t, s.telemetry.Report())
	s.OnTick(10 * time.Millisecond)
	require.False(t, s.telemetry.Report())
	require.Len(t, pub.msgs, 1)

	msg, typed, err := msgs.DecodePacket(pub.msgs[0].payload)
	require.NoError(t, err)
	require.True(t, typed.IsEvent())
	states := msg.(*msgs.JointStates)
	require.Equal(t, int64(10*time.Millisecond), states.SimTimeNs)
	require.Len(t, states.Joints, 4)
	require.Equal(t, "back_left_wheel_joint", states.Joints[2].Name)
	require.Equal(t, 3.0, states.Joints[2].Velocity)
	require.Equal(t, 30.0, states.Joints[2].Correction)
}

func TestRegistrar(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRegistrar(pub, "gokart/test", Meta{Description: "kart", Labels: map[string]string{"sim": "true"}})
	r.Announce()
	require.NoError(t, r.Clear())
	require.Len(t, pub.msgs, 2)
	require.Equal(t, "gokart/test/meta", pub.msgs[0].topic)
	require.True(t, pub.msgs[0].retain)
	var meta Meta
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &meta))
	require.Equal(t, "kart", meta.Description)
	require.Empty(t, pub.msgs[1].payload)
	require.True(t, pub.msgs[1].retain)
}

func TestParseMeta(t *testing.T) {
	info, ok := ParseMeta("gokart/abc/meta", []byte(`{"description":"kart"}`))
	require.True(t, ok)
	require.Equal(t, VehicleRef{Type: "gokart", ID: "abc"}, info.Ref)
	require.Equal(t, "kart", info.Meta.Description)

	_, ok = ParseMeta("gokart/abc/meta", nil)
	require.False(t, ok)
	_, ok = ParseMeta("gokart/meta", []byte(`{}`))
	require.False(t, ok)
	_, ok = ParseMeta("gokart/abc/meta", []byte(`{`))
	require.False(t, ok)
}

func TestVehicleRef(t *testing.T) {
	ref := VehicleRef{Type: "gokart", ID: "1"}
	require.True(t, ref.IsValid())
	require.Equal(t, "gokart/1", ref.Name())
	require.False(t, VehicleRef{Type: "gokart"}.IsValid())
}
