package misc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/chzyer/logex"
)

type LogOutput struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Command is a child process description. A nil Env inherits the current
// process environment.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func Exec(out *LogOutput, c *Command) error {
	if out == nil {
		out = &LogOutput{}
	}
	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = os.Stderr
	}
	fmt.Fprintf(out.Stdout, "exec %q\n", c.String())

	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stderr = out.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = out.Stdout
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			return logex.NewErrorf("%v exit by code: %v", c.Name, code).SetCode(code)
		}
		return logex.Trace(err)
	}
	return nil
}

// ExitCode maps an error returned from a handler to a process exit status.
// Codes set on logex errors in [1, 255] are kept, everything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if coded, ok := err.(interface{ GetCode() int }); ok {
		if code := coded.GetCode(); code > 0 && code < 256 {
			return code
		}
	}
	return 1
}

func InDir(dir string, run func() error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return logex.Trace(err)
	}
	if err := os.Chdir(dir); err != nil {
		return logex.Trace(err)
	}
	defer os.Chdir(cwd)
	if err := run(); err != nil {
		return logex.Trace(err)
	}
	return nil
}
