package main

import (
	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/build"
	"github.com/mobilecoinofficial/fs-build/misc"
)

type BuildToolBuild struct {
	Network string `type:"[0]" desc:"test, main or alpha, given after all flags; anything else keeps the ambient environment"`
	Config  string `desc:"toml config file"`
	Home    string `desc:"directory holding .mobilecoin, defaults to the user home"`
	Timeout string `default:"5m"`
	Dir     string `desc:"build directory, overrides build.dir"`
	Report  string `desc:"write a build report to this file"`
}

func (b *BuildToolBuild) FlaglyHandle() error {
	launcher, cfg, err := newLauncher(b.Config, b.Home, b.Timeout)
	if err != nil {
		return logex.Trace(err)
	}
	if b.Dir != "" {
		cfg.Build.Dir = b.Dir
	}

	ctx, cancel := signalContext()
	defer cancel()
	plan, err := launcher.Prepare(ctx, b.Network)
	if err != nil {
		return logex.Trace(err)
	}

	builder := build.NewBuilder(cfg.Build, plan, nil)
	if err := builder.Build(); err != nil {
		return logex.Trace(err)
	}

	if b.Report != "" {
		report, err := builder.Report()
		if err != nil {
			return logex.Trace(err)
		}
		if err := misc.WriteReport(b.Report, report); err != nil {
			return logex.Trace(err)
		}
		logex.Info("save report to:", b.Report)
	}
	return nil
}
