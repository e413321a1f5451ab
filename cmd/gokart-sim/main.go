package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/golang/glog"

	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/session"
	"github.com/robotalks/gokart/pkg/sim"
	"github.com/robotalks/gokart/pkg/sim/see"
)

var visualize bool

func init() {
	session.SetupFlags()
	sim.SetupFlags()
	see.SetupFlags()
	flag.BoolVar(&visualize, "see", visualize, "Print the kart as github.com/robotalks/see messages on stdout.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := session.MustNewConfig()
	conf.Meta.Labels = map[string]string{"sim": "true"}
	world := sim.NewConfig().NewWorld(conf.Vehicle)
	s := conf.MustInitialize(world)

	loop := fx.NewLoop(world)
	loop.Interval = world.StepSize
	loop.Add(s, world)
	if visualize {
		loop.Add(see.NewConfig().NewAdapter().Subscribe(world))
	}

	runner := fx.NewRunnerWith(context.Background()).HandleSignals()
	loop.RunOrFail(runner.Context)
	if err := s.Shutdown(); err != nil {
		log.Fatalln(err)
	}
}
