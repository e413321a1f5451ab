package framework

import (
	"context"
	"log"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick period used when Interval is zero.
const DefaultInterval = 8 * time.Millisecond

// Loop ticks controllers by priority level against a simulation clock.
type Loop struct {
	Interval time.Duration
	Clock    Clock

	controllers [PriorityLevels][]Controller
	runners     []Runnable
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type tick struct {
	ctx           context.Context
	simTime       time.Duration
	priorityLevel int
}

func (t *tick) Context() context.Context { return t.ctx }
func (t *tick) SimTime() time.Duration   { return t.simTime }
func (t *tick) PriorityLevel() int       { return t.priorityLevel }

// NewLoop creates a Loop reading time from clock.
func NewLoop(clock Clock) *Loop {
	return &Loop{Interval: DefaultInterval, Clock: clock}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Step runs one tick through all priority levels. The simulation time
// is sampled from Clock before the first level and stays fixed for
// the whole tick.
func (l *Loop) Step(ctx context.Context) {
	t := &tick{ctx: ctx, simTime: l.Clock.SimTime()}
	for i := 0; i < PriorityLevels; i++ {
		t.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(t); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step(ctx)
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail(ctx context.Context) {
	if err := l.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}
