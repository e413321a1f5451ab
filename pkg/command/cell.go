// Package command delivers the latest control command to the tick loop.
package command

import (
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/gokart/pkg/comm"
	"github.com/robotalks/gokart/pkg/msgs"
)

var _ comm.PacketHandler = (*Cell)(nil)

// Command is the desired steering angle (radians) and velocity.
type Command struct {
	SteeringAngle float64
	Velocity      float64
}

// Cell holds the most recently received Command. Stores and loads
// replace the whole record atomically, so a reader never sees the
// angle of one command with the velocity of another.
type Cell struct {
	seq   uint64 // first for 64-bit alignment
	value atomic.Value
}

// Store replaces the current command.
func (c *Cell) Store(cmd Command) {
	c.value.Store(cmd)
	atomic.AddUint64(&c.seq, 1)
}

// Load returns the current command, or zero if nothing was received.
func (c *Cell) Load() Command {
	if cmd, ok := c.value.Load().(Command); ok {
		return cmd
	}
	return Command{}
}

// Seq returns the number of commands stored so far.
func (c *Cell) Seq() uint64 {
	return atomic.LoadUint64(&c.seq)
}

// HandlePacket implements comm.PacketHandler. Packets which are not a
// ControlCommand are dropped.
func (c *Cell) HandlePacket(pkt []byte) {
	if err := c.StorePacket(pkt); err != nil {
		glog.Warningf("drop command packet: %v", err)
	}
}

// StorePacket decodes a typed packet and stores it if it's a ControlCommand.
func (c *Cell) StorePacket(pkt []byte) error {
	msg, _, err := msgs.DecodePacket(pkt)
	if err != nil {
		return err
	}
	cmd, ok := msg.(*msgs.ControlCommand)
	if !ok {
		return &UnexpectedError{TypeID: msg.TypeID()}
	}
	c.Store(Command{SteeringAngle: cmd.SteeringAngle, Velocity: cmd.Velocity})
	glog.V(2).Infof("command: steering=%v velocity=%v", cmd.SteeringAngle, cmd.Velocity)
	return nil
}
