package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/gokart/pkg/cli/sh"
	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/joystick"
	"github.com/robotalks/gokart/pkg/session"
)

func init() {
	sh.SetupFlags()
	joystick.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := sh.NewConfig()
	remote, err := session.Dial(conf.BrokerURL, conf.Ref)
	if err != nil {
		log.Fatalln(err)
	}
	defer remote.Close()

	runner := fx.NewRunnerWith(context.Background()).HandleSignals()
	runner.Go(joystick.NewConfig().NewTeleop(remote))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
