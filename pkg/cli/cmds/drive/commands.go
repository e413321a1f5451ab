// Package drive adds kart driving commands to the shell.
package drive

import (
	"fmt"
	"math"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/gokart/pkg/cli/sh"
	"github.com/robotalks/gokart/pkg/command"
)

// ParseVelocity parses the desired wheel velocity.
func ParseVelocity(arg string) (float64, error) {
	val, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid VELOCITY: %v", err)
	}
	return val, nil
}

// ParseSteering parses a steering angle in degrees into radians.
func ParseSteering(arg string) (float64, error) {
	val, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid ANGLE: %v", err)
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, fmt.Errorf("Invalid ANGLE: %s", arg)
	}
	return val * math.Pi / 180, nil
}

var (
	// DriveCmd changes the velocity, keeping the steering.
	DriveCmd = ishell.Cmd{
		Name:    "drive",
		Aliases: []string{"v"},
		Help:    "VELOCITY(rad/s)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("VELOCITY required"))
				return
			}
			val, err := ParseVelocity(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			cmd := sh.ShellFrom(c).Last
			cmd.Velocity = val
			sh.Send(c, cmd)
		}),
	}

	// SteerCmd changes the steering, keeping the velocity.
	SteerCmd = ishell.Cmd{
		Name:    "steer",
		Aliases: []string{"s"},
		Help:    "ANGLE(degrees)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ANGLE required"))
				return
			}
			val, err := ParseSteering(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			cmd := sh.ShellFrom(c).Last
			cmd.SteeringAngle = val
			sh.Send(c, cmd)
		}),
	}

	// CmdCmd sends a full command.
	CmdCmd = ishell.Cmd{
		Name: "cmd",
		Help: "ANGLE(degrees) VELOCITY(rad/s)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("ANGLE and VELOCITY required"))
				return
			}
			var cmd command.Command
			var err error
			if cmd.SteeringAngle, err = ParseSteering(c.Args[0]); err != nil {
				c.Err(err)
				return
			}
			if cmd.Velocity, err = ParseVelocity(c.Args[1]); err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, cmd)
		}),
	}

	// StopCmd centers the steering and stops the wheels.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"x"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Send(c, command.Command{})
		}),
	}
)

func init() {
	sh.AddCmds(
		&DriveCmd,
		&SteerCmd,
		&CmdCmd,
		&StopCmd,
	)
}
