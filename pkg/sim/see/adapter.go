// Package see streams the simulated kart to github.com/robotalks/see
// as JSON lines.
package see

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/sim"
)

// Config represents configuration for see.
type Config struct {
	// Scale converts meters to display units.
	Scale float64
	// Interval throttles reports in sim time.
	Interval time.Duration
}

var defaultConfig = Config{
	Scale:    100,
	Interval: 40 * time.Millisecond,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Scale, "see-scale", defaultConfig.Scale, "Display units per meter")
	flag.DurationVar(&defaultConfig.Interval, "see-interval", defaultConfig.Interval, "Minimum sim time between visualization updates")
}

// NewConfig creates a default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewAdapter creates adapter from config.
func (c *Config) NewAdapter() *Adapter {
	return &Adapter{Config: c, Writer: os.Stdout, initial: true}
}

// Adapter is the visualization adapter writing see messages.
type Adapter struct {
	Config *Config
	Writer io.Writer

	initial    bool
	lastReport time.Duration
	updated    map[string]sim.Object
}

// Subscribe is a helper to subscribe world changes.
func (a *Adapter) Subscribe(w *sim.World) *Adapter {
	w.Subscribe(a)
	return a
}

// ObjectsChanged implements ChangeListener.
func (a *Adapter) ObjectsChanged(cc fx.ControlContext, objs ...sim.Object) {
	if a.updated == nil {
		a.updated = make(map[string]sim.Object)
	}
	for _, obj := range objs {
		a.updated[obj.Name()] = obj
	}
}

// WorldReset implements ChangeListener.
func (a *Adapter) WorldReset() {
	a.initial, a.lastReport = true, 0
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(a.ReportChanges))
}

// ReportChanges is a controller to report changes.
func (a *Adapter) ReportChanges(cc fx.ControlContext) error {
	var msgs []Message
	if a.initial {
		msgs = append(msgs, Message{Action: ActionReset})
		a.initial = false
	} else if cc.SimTime()-a.lastReport < a.Config.Interval {
		return nil
	}
	a.lastReport = cc.SimTime()
	for _, obj := range a.updated {
		if vo, ok := obj.(VisibleObject); ok {
			for _, mapped := range KartObjects(vo, a.Config.Scale) {
				msgs = append(msgs, Message{Action: ActionObject, Object: mapped})
			}
		}
	}
	a.updated = nil
	if len(msgs) == 0 {
		return nil
	}
	encoded, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.Writer, string(encoded))
	return err
}
