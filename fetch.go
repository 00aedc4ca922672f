package main

import (
	"github.com/chzyer/logex"
)

type BuildToolFetch struct {
	Network string `type:"[0]" desc:"network name, given after all flags"`
	Config  string
	Home    string
	Timeout string `default:"5m"`
}

func (f *BuildToolFetch) FlaglyHandle() error {
	launcher, _, err := newLauncher(f.Config, f.Home, f.Timeout)
	if err != nil {
		return logex.Trace(err)
	}
	ctx, cancel := signalContext()
	defer cancel()
	plan, err := launcher.Prepare(ctx, f.Network)
	if err != nil {
		return logex.Trace(err)
	}
	if plan.PassThrough() {
		logex.Infof("network %q has no sigstruct to fetch", f.Network)
		return nil
	}
	logex.Info("sigstruct:", plan.Sigstruct)
	return nil
}
