package cmd

import (
	"github.com/urfave/cli"

	"github.com/conor722/go-ray-tracer/pkg/log"
)

var logger = log.New("go-ray-tracer")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
