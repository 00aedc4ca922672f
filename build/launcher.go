package build

import (
	"context"
	"os"
	"strconv"

	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/enclave"
	"github.com/mobilecoinofficial/fs-build/misc"
	"github.com/mobilecoinofficial/fs-build/network"
)

// Plan is the resolved environment for one downstream build.
type Plan struct {
	Network string
	// Profile is nil when the network is not recognized and the build runs
	// with the ambient environment.
	Profile   *network.Profile
	Sigstruct string
	Env       []string
}

func (p *Plan) PassThrough() bool {
	return p.Profile == nil
}

// Exports are the variables the plan sets on top of the parent environment.
func (p *Plan) Exports() map[string]string {
	if p.PassThrough() {
		return nil
	}
	return map[string]string{
		network.EnvSGXMode:             string(p.Profile.SGXMode),
		network.EnvIASMode:             string(p.Profile.IASMode),
		network.EnvConsensusEnclaveCSS: p.Sigstruct,
	}
}

type Launcher struct {
	Registry *network.Registry
	Cache    *enclave.Cache
	// Environ supplies the parent environment, os.Environ when nil.
	Environ func() []string
	// ExtraEnv is appended after the plan's exports.
	ExtraEnv []string
}

func NewLauncher(registry *network.Registry, cache *enclave.Cache) *Launcher {
	return &Launcher{Registry: registry, Cache: cache}
}

func (l *Launcher) environ() []string {
	if l.Environ != nil {
		return l.Environ()
	}
	return os.Environ()
}

// Prepare resolves name into a plan. Recognized networks get their modes and
// a guaranteed present sigstruct; anything else passes the environment
// through untouched.
func (l *Launcher) Prepare(ctx context.Context, name string) (*Plan, error) {
	plan := &Plan{Network: name}
	profile, ok := l.Registry.Lookup(name)
	if !ok {
		if name != "" {
			logex.Warn("unknown network", strconv.Quote(name), "using ambient environment")
		}
		plan.Env = append(l.environ(), l.ExtraEnv...)
		return plan, nil
	}

	fp, err := l.Cache.Ensure(ctx, profile)
	if err != nil {
		return nil, logex.Trace(err)
	}
	plan.Profile = profile
	plan.Sigstruct = fp
	plan.Env = append(misc.MergeEnv(l.environ(), plan.Exports()), l.ExtraEnv...)
	logex.Infof("network=%v namespace=%v %v=%v %v=%v", name, profile.Namespace,
		network.EnvSGXMode, profile.SGXMode, network.EnvIASMode, profile.IASMode)
	return plan, nil
}
