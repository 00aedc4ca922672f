// Package network describes the deployment profiles a launcher build can
// target and where each profile publishes its enclave artifacts.
package network

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chzyer/logex"
)

type Name string

const (
	Test  Name = "test"
	Main  Name = "main"
	Alpha Name = "alpha"
)

// Environment variables handed to the downstream build.
const (
	EnvSGXMode             = "SGX_MODE"
	EnvIASMode             = "IAS_MODE"
	EnvConsensusEnclaveCSS = "CONSENSUS_ENCLAVE_CSS"
)

type SGXMode string

const (
	SGXModeHW SGXMode = "HW"
	SGXModeSW SGXMode = "SW"
)

type IASMode string

const (
	IASModeProd IASMode = "PROD"
	IASModeDev  IASMode = "DEV"
)

const distributionURLFormat = "https://enclave-distribution.%s.mobilecoin.com"

type Profile struct {
	Name      Name
	Namespace string
	SGXMode   SGXMode
	IASMode   IASMode
	// FetchSigstruct is false for profiles that never publish a production
	// manifest; their sigstruct must already be cached.
	FetchSigstruct bool
	// Distribution overrides the namespaced distribution endpoint.
	Distribution string
}

func (p *Profile) DistributionURL() string {
	if p.Distribution != "" {
		return strings.TrimRight(p.Distribution, "/")
	}
	return fmt.Sprintf(distributionURLFormat, p.Namespace)
}

func (p *Profile) ManifestURL() string {
	return p.DistributionURL() + "/production.json"
}

func (p *Profile) ArtifactURL(uri string) string {
	return p.DistributionURL() + "/" + strings.TrimLeft(uri, "/")
}

func (p *Profile) Validate() error {
	if p.Name == "" {
		return logex.NewErrorf("profile name is empty")
	}
	if p.Namespace == "" && p.Distribution == "" {
		return logex.NewErrorf("network %v: namespace is empty", p.Name)
	}
	switch p.SGXMode {
	case SGXModeHW, SGXModeSW:
	default:
		return logex.NewErrorf("network %v: invalid sgx mode %q", p.Name, p.SGXMode)
	}
	switch p.IASMode {
	case IASModeProd, IASModeDev:
	default:
		return logex.NewErrorf("network %v: invalid ias mode %q", p.Name, p.IASMode)
	}
	return nil
}

// Override carries the configurable fields of a profile. Empty strings and a
// nil FetchSigstruct leave the current value untouched.
type Override struct {
	Namespace      string `toml:"namespace"`
	SGXMode        string `toml:"sgx_mode"`
	IASMode        string `toml:"ias_mode"`
	FetchSigstruct *bool  `toml:"fetch_sigstruct"`
	Distribution   string `toml:"distribution"`
}

type Registry struct {
	profiles map[Name]*Profile
}

func DefaultRegistry() *Registry {
	r := &Registry{profiles: make(map[Name]*Profile)}
	for _, p := range []*Profile{
		{Name: Test, Namespace: "test", SGXMode: SGXModeHW, IASMode: IASModeProd, FetchSigstruct: true},
		{Name: Main, Namespace: "prod", SGXMode: SGXModeHW, IASMode: IASModeProd, FetchSigstruct: true},
		{Name: Alpha, Namespace: "alpha", SGXMode: SGXModeHW, IASMode: IASModeDev},
	} {
		r.profiles[p.Name] = p
	}
	return r
}

// Lookup returns a copy of the named profile.
func (r *Registry) Lookup(name string) (*Profile, bool) {
	p, ok := r.profiles[Name(name)]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Apply merges o into the named profile, declaring it if it does not exist.
func (r *Registry) Apply(name string, o *Override) error {
	if name == "" {
		return logex.NewErrorf("network name is empty")
	}
	p, ok := r.profiles[Name(name)]
	if !ok {
		p = &Profile{Name: Name(name), Namespace: name, SGXMode: SGXModeHW, IASMode: IASModeProd}
	}
	cp := *p
	if o != nil {
		if o.Namespace != "" {
			cp.Namespace = o.Namespace
		}
		if o.SGXMode != "" {
			cp.SGXMode = SGXMode(strings.ToUpper(o.SGXMode))
		}
		if o.IASMode != "" {
			cp.IASMode = IASMode(strings.ToUpper(o.IASMode))
		}
		if o.FetchSigstruct != nil {
			cp.FetchSigstruct = *o.FetchSigstruct
		}
		if o.Distribution != "" {
			cp.Distribution = o.Distribution
		}
	}
	if err := cp.Validate(); err != nil {
		return logex.Trace(err)
	}
	r.profiles[cp.Name] = &cp
	return nil
}

func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})
	return names
}
