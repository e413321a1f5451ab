// Package session binds the vehicle control loop to a simulation host
// and to the transports delivering its commands.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gokart/pkg/command"
	"github.com/robotalks/gokart/pkg/comm/mqtt"
	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/joint"
	"github.com/robotalks/gokart/pkg/msgs"
	"github.com/robotalks/gokart/pkg/vehicle"
)

// Host is what the simulator provides: named joints.
type Host interface {
	joint.Resolver
}

// Session is one vehicle bound to a host.
type Session struct {
	Config *Config

	cell      command.Cell
	loop      *vehicle.ControlLoop
	queue     *mqtt.Queue
	registrar *Registrar
	telemetry *Telemetry
	feeders   []fx.Runnable

	cancel func()
	done   chan error
}

// Initialize resolves the joints and builds the control loop and its
// command feeders. Nothing is started.
func Initialize(conf *Config, host Host) (*Session, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	s := &Session{Config: conf}
	loop, err := vehicle.New(conf.Vehicle, host, &s.cell)
	if err != nil {
		return nil, err
	}
	s.loop = loop

	ns := conf.Namespace()
	if conf.MQTTBrokerURL != "" {
		opts, topicPrefix, err := mqtt.ClientOptionsFromURL(conf.MQTTBrokerURL)
		if err != nil {
			return nil, fmt.Errorf("invalid MQTT broker URL: %v", err)
		}
		SetWill(opts, topicPrefix, ns)
		if opts.ClientID == "" {
			opts.SetClientID("gokart:" + ns)
		}
		s.queue = mqtt.NewQueue(opts, topicPrefix)
		s.registrar = NewRegistrar(s.queue, ns, conf.Meta)
		s.queue.OnConnect = s.registrar.OnConnect
		s.feeders = append(s.feeders, &command.MQTTChannel{
			Queue:    s.queue,
			Topic:    ns + "/" + conf.CommandTopic,
			Cell:     &s.cell,
			OnReject: s.reject,
		})
		if conf.Telemetry {
			s.telemetry = &Telemetry{
				Publisher: s.queue,
				Topic:     ns + "/" + JointStatesTopic,
				Source:    s.loop,
			}
		}
	}
	if conf.WebsocketAddr != "" || conf.StreamAddr != "" {
		s.feeders = append(s.feeders, &command.Server{
			Cell:          &s.cell,
			WebsocketAddr: conf.WebsocketAddr,
			StreamAddr:    conf.StreamAddr,
		})
	}
	glog.Infof("session %s initialized, steering %s", ns, conf.Vehicle.SteeringMode)
	return s, nil
}

// Loop returns the vehicle control loop.
func (s *Session) Loop() *vehicle.ControlLoop {
	return s.loop
}

// Commands returns the cell holding the latest command.
func (s *Session) Commands() *command.Cell {
	return &s.cell
}

// OnTick is the host's per-step callback with current sim time. It
// returns true if corrections were applied.
func (s *Session) OnTick(now time.Duration) bool {
	corrected := s.loop.Update(now)
	if corrected && s.telemetry != nil {
		s.telemetry.Report()
	}
	return corrected
}

// Reset is called when the host resets its world.
func (s *Session) Reset() {
	s.loop.Reset()
}

// Name implements Named.
func (s *Session) Name() string {
	return "session:" + s.Config.Namespace()
}

// Run implements Runnable. It connects the broker, announces the
// vehicle and runs the command feeders until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	if s.queue != nil {
		token := s.queue.Connect()
		token.Wait()
		if err := token.Error(); err != nil {
			return fmt.Errorf("connect MQTT broker: %v", err)
		}
		defer s.queue.Close()
		defer func() {
			if err := s.registrar.Clear(); err != nil {
				glog.Warningf("clear meta: %v", err)
			}
		}()
	}
	runner := fx.NewRunnerWith(ctx)
	runner.Go(s.feeders...)
	return runner.Wait()
}

// Start runs the session in background.
func (s *Session) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan error, 1)
	go func() {
		s.done <- s.Run(ctx)
	}()
}

// Shutdown stops the background feeders and resets the control state.
// Joint handles belong to the host and are left alone.
func (s *Session) Shutdown() error {
	var errs fx.AggregatedError
	if s.cancel != nil {
		s.cancel()
		if err := <-s.done; err != context.Canceled {
			errs.Add(err)
		}
		s.cancel = nil
	}
	s.loop.Reset()
	glog.Infof("session %s shutdown", s.Config.Namespace())
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (s *Session) AddToLoop(loop *fx.Loop) {
	loop.Add(s.loop)
	if s.telemetry != nil {
		loop.Add(s.telemetry)
	}
	loop.AddRunnable(s)
}

func (s *Session) reject(err error) {
	pkt, encErr := msgs.Encode(msgs.NewCommandErr(err))
	if encErr != nil {
		return
	}
	s.queue.Pub(s.Config.Namespace()+"/"+CommandErrTopic, pkt)
}
