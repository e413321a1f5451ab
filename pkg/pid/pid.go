// Package pid implements the PID controller used by joint actuators.
package pid

import "time"

// Gains are the proportional, integral and derivative coefficients.
type Gains struct {
	P float64 `yaml:"p"`
	I float64 `yaml:"i"`
	D float64 `yaml:"d"`
}

// Limits bounds the integral term and the output. A pair only takes
// effect when its max is greater than its min.
type Limits struct {
	IMin   float64 `yaml:"i_min"`
	IMax   float64 `yaml:"i_max"`
	CmdMin float64 `yaml:"cmd_min"`
	CmdMax float64 `yaml:"cmd_max"`
}

// Controller is a PID controller. The error passed to Update is
// measured minus target.
type Controller struct {
	Gains  Gains
	Limits Limits

	integral float64
	prevErr  float64
	cmd      float64
}

// New creates a Controller.
func New(gains Gains, limits Limits) *Controller {
	return &Controller{Gains: gains, Limits: limits}
}

// Update advances the controller by dt and returns the output.
// A non-positive dt contributes no integral and no derivative.
func (c *Controller) Update(err float64, dt time.Duration) float64 {
	secs := dt.Seconds()
	var derivative float64
	if secs > 0 {
		c.integral = clamp(c.integral+err*secs, c.Limits.IMin, c.Limits.IMax)
		derivative = (err - c.prevErr) / secs
	}
	c.prevErr = err
	c.cmd = clamp(c.Gains.P*err+c.Gains.I*c.integral+c.Gains.D*derivative,
		c.Limits.CmdMin, c.Limits.CmdMax)
	return c.cmd
}

// Reset clears integral and previous error.
func (c *Controller) Reset() {
	c.integral, c.prevErr, c.cmd = 0, 0, 0
}

// State returns the accumulated integral, the previous error and the
// last output.
func (c *Controller) State() (integral, prevErr, cmd float64) {
	return c.integral, c.prevErr, c.cmd
}

func clamp(v, min, max float64) float64 {
	if max <= min {
		return v
	}
	if v > max {
		return max
	}
	if v < min {
		return min
	}
	return v
}
