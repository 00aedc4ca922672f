package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/build"
)

type BuildToolEnv struct {
	Network string `type:"[0]" desc:"network name, given after all flags"`
	Config  string
	Home    string
	Timeout string `default:"5m"`
}

func (e *BuildToolEnv) FlaglyHandle() error {
	launcher, _, err := newLauncher(e.Config, e.Home, e.Timeout)
	if err != nil {
		return logex.Trace(err)
	}
	ctx, cancel := signalContext()
	defer cancel()
	plan, err := launcher.Prepare(ctx, e.Network)
	if err != nil {
		return logex.Trace(err)
	}
	writeExports(os.Stdout, plan)
	return nil
}

// writeExports prints the plan's variables as sourceable shell lines.
func writeExports(w io.Writer, plan *build.Plan) {
	exports := plan.Exports()
	keys := make([]string, 0, len(exports))
	for key := range exports {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "export %s=%s\n", key, shellQuote(exports[key]))
	}
}

// shellQuote single-quotes s so eval leaves it untouched.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
