package main

import (
	"os"
	"strings"

	"github.com/chzyer/flagly"
	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/misc"
)

type BuildTool struct {
	Build  *BuildToolBuild  `flagly:"handler"`
	Fetch  *BuildToolFetch  `flagly:"handler"`
	Env    *BuildToolEnv    `flagly:"handler"`
	SGX    *BuildToolSGX    `flagly:"handler"`
	Report *BuildToolReport `flagly:"handler"`
}

func main() {
	fset := flagly.New(os.Args[0])
	app := BuildTool{}
	if err := fset.Compile(app); err != nil {
		logex.Fatal(err)
	}
	if err := checkFlagOrder(os.Args[1:]); err != nil {
		logex.Error(err)
		os.Exit(2)
	}
	if err := fset.Run(os.Args[1:]); err != nil {
		logex.Error(err)
		os.Exit(misc.ExitCode(err))
	}
}

// networkCommands take the network as their only positional argument.
var networkCommands = map[string]bool{"build": true, "fetch": true, "env": true}

// checkFlagOrder rejects flags given after the network name. flagly stops
// parsing at the first positional, so they would otherwise be dropped.
// Every flag of the network commands takes a value.
func checkFlagOrder(args []string) error {
	if len(args) == 0 || !networkCommands[args[0]] {
		return nil
	}
	positional := ""
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return nil
		}
		if !strings.HasPrefix(arg, "-") {
			if positional != "" {
				return logex.NewErrorf("%v: unexpected argument %q after network %q", args[0], arg, positional)
			}
			positional = arg
			continue
		}
		if positional != "" {
			return logex.NewErrorf("%v: flag %v must come before network %q", args[0], arg, positional)
		}
		if !strings.Contains(arg, "=") {
			i++
		}
	}
	return nil
}
