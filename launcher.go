package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/build"
	"github.com/mobilecoinofficial/fs-build/enclave"
	"github.com/mobilecoinofficial/fs-build/misc"
)

// newLauncher wires the config file, cache root and HTTP client shared by
// every network-taking command.
func newLauncher(configFile, home, timeout string) (*build.Launcher, *build.Config, error) {
	cfg, err := build.NewConfig(configFile)
	if err != nil {
		return nil, nil, logex.Trace(err)
	}
	registry, err := cfg.Registry()
	if err != nil {
		return nil, nil, logex.Trace(err)
	}
	root, err := enclave.DefaultRoot(home)
	if err != nil {
		return nil, nil, logex.Trace(err)
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, nil, logex.Trace(err, timeout)
	}
	launcher := build.NewLauncher(registry, enclave.NewCache(root, misc.NewHTTPClient(d)))
	launcher.ExtraEnv = cfg.Build.Env
	return launcher, cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
