// Package joystick drives a kart from a joystick.
package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gokart/pkg/command"
)

// Sender delivers commands to the kart.
type Sender interface {
	Send(command.Command) error
}

// Teleop maps joystick events to commands: axis 0 (or the d-pad 6)
// steers, axis 1 (or 7) drives.
type Teleop struct {
	Config Config
	Sender Sender

	cmd command.Command
}

const reopenDelay = time.Second

// Name implements Named.
func (t *Teleop) Name() string {
	return "joystick"
}

// HandleEvent updates the command from ev. It returns true if the
// command changed.
func (t *Teleop) HandleEvent(ev *Event) bool {
	prev := t.cmd
	if ev.Axis {
		val := float64(ev.Value) / AxisMax
		switch ev.Index {
		case 0, 6:
			// stick left is negative, a left turn is a positive angle.
			t.cmd.SteeringAngle = -val * t.Config.MaxSteeringAngle
		case 1, 7:
			// stick up is negative.
			t.cmd.Velocity = -val * t.Config.MaxVelocity
		}
	} else if ev.Index == t.Config.StopButton && ev.Pressed() {
		t.cmd = command.Command{}
	}
	return t.cmd != prev
}

// Command returns the current command.
func (t *Teleop) Command() command.Command {
	return t.cmd
}

// Run implements Runnable. It keeps reopening the device, and stops
// the kart whenever the device is lost.
func (t *Teleop) Run(ctx context.Context) error {
	for {
		dev, err := t.open()
		if err == ErrUnsupported {
			return err
		}
		if dev != nil {
			glog.Infof("joystick %d %q opened", dev.Index(), dev.Name())
			err = t.poll(ctx, dev)
			glog.Warningf("joystick lost: %v", err)
			t.cmd = command.Command{}
			t.send()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reopenDelay):
		}
	}
}

func (t *Teleop) open() (Device, error) {
	if t.Config.DeviceIndex >= 0 {
		dev, err := Open(t.Config.DeviceIndex)
		if err != nil {
			glog.V(2).Infof("open joystick %d: %v", t.Config.DeviceIndex, err)
		}
		return dev, err
	}
	dev, err := DetectAndOpen(0)
	if err != nil {
		glog.V(2).Infof("detect joystick: %v", err)
	}
	return dev, err
}

func (t *Teleop) poll(ctx context.Context, dev Device) error {
	evCh := make(chan *Event, 1)
	errCh := make(chan error, 1)
	go func() {
		for {
			ev, err := dev.ReadEvent()
			if err != nil {
				errCh <- err
				return
			}
			if ev == nil {
				continue
			}
			select {
			case evCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	defer dev.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case ev := <-evCh:
			if t.Config.Verbose {
				glog.Infof("joystick event %+v", *ev)
			}
			if t.HandleEvent(ev) {
				t.send()
			}
		}
	}
}

func (t *Teleop) send() {
	if err := t.Sender.Send(t.cmd); err != nil {
		glog.Warningf("send command: %v", err)
	}
}
