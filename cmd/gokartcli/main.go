package main

import (
	"github.com/robotalks/gokart/pkg/cli/sh"

	_ "github.com/robotalks/gokart/pkg/cli/cmds/drive"
)

//go-build: CGO_ENABLED=0

func init() {
	sh.SetupFlags()
}

func main() {
	sh.Main()
}
