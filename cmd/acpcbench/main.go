package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Play      PlayCmd          `cmd:"" help:"Play one dealer match between two coded policies"`
	Benchmark BenchmarkCmd     `cmd:"" help:"Score a coded policy over the evaluation point population"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("acpcbench"),
		kong.Description("Match evaluation harness for the ACPC limit hold'em dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
