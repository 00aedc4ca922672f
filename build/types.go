package build

import (
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/network"
)

type Config struct {
	Build    *BuildConfig                 `toml:"build"`
	Networks map[string]*network.Override `toml:"networks"`
}

type BuildConfig struct {
	Cmd  string   `toml:"cmd"`
	Args []string `toml:"args"`
	Dir  string   `toml:"dir"`
	// Outputs are glob patterns, relative to Dir, digested into the report.
	Outputs []string `toml:"outputs"`
	// Env entries (KEY=VALUE) are appended to the child environment on every
	// path, including pass-through.
	Env []string `toml:"env"`
}

func DefaultConfig() *Config {
	return &Config{
		Build: &BuildConfig{
			Cmd:     "cargo",
			Args:    []string{"build", "--release"},
			Dir:     ".",
			Outputs: []string{"target/release/full-service"},
		},
	}
}

// NewConfig loads file on top of DefaultConfig. An empty file name returns
// the defaults. Unknown keys are rejected.
func NewConfig(file string) (*Config, error) {
	cfg := DefaultConfig()
	if file == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(file, cfg)
	if err != nil {
		return nil, logex.Trace(err, file)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return nil, logex.NewErrorf("%v: unknown keys %v", file, keys)
	}
	if cfg.Build == nil {
		cfg.Build = DefaultConfig().Build
	}
	if cfg.Build.Dir == "" {
		cfg.Build.Dir = "."
	}
	if cfg.Build.Cmd == "" {
		return nil, logex.NewErrorf("%v: build.cmd is empty", file)
	}
	return cfg, nil
}

// Registry returns the built-in network profiles with the configured
// overrides applied.
func (c *Config) Registry() (*network.Registry, error) {
	registry := network.DefaultRegistry()
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := registry.Apply(name, c.Networks[name]); err != nil {
			return nil, logex.Trace(err)
		}
	}
	return registry, nil
}
