package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []Name{Alpha, Main, Test}, r.Names())

	tests := []struct {
		name      string
		namespace string
		ias       IASMode
		fetch     bool
	}{
		{"test", "test", IASModeProd, true},
		{"main", "prod", IASModeProd, true},
		{"alpha", "alpha", IASModeDev, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := r.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, Name(tt.name), p.Name)
			assert.Equal(t, tt.namespace, p.Namespace)
			assert.Equal(t, SGXModeHW, p.SGXMode)
			assert.Equal(t, tt.ias, p.IASMode)
			assert.Equal(t, tt.fetch, p.FetchSigstruct)
		})
	}

	for _, name := range []string{"", "prod", "TEST", "local"} {
		_, ok := r.Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestProfileURLs(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Lookup("main")
	assert.Equal(t, "https://enclave-distribution.prod.mobilecoin.com/production.json", p.ManifestURL())
	assert.Equal(t,
		"https://enclave-distribution.prod.mobilecoin.com/pool/abc/def/consensus-enclave.css",
		p.ArtifactURL("pool/abc/def/consensus-enclave.css"))

	p.Distribution = "http://127.0.0.1:8080/"
	assert.Equal(t, "http://127.0.0.1:8080/production.json", p.ManifestURL())
	assert.Equal(t, "http://127.0.0.1:8080/pool/x.css", p.ArtifactURL("/pool/x.css"))
}

func TestLookupReturnsCopy(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Lookup("test")
	p.Namespace = "changed"

	again, _ := r.Lookup("test")
	assert.Equal(t, "test", again.Namespace)
}

func TestRegistryApply(t *testing.T) {
	r := DefaultRegistry()
	fetch := true
	require.NoError(t, r.Apply("alpha", &Override{
		FetchSigstruct: &fetch,
		Distribution:   "http://localhost:9000",
	}))
	p, _ := r.Lookup("alpha")
	assert.True(t, p.FetchSigstruct)
	assert.Equal(t, IASModeDev, p.IASMode, "unset fields are kept")
	assert.Equal(t, "http://localhost:9000/production.json", p.ManifestURL())

	require.NoError(t, r.Apply("local", &Override{SGXMode: "sw", IASMode: "dev"}))
	p, ok := r.Lookup("local")
	require.True(t, ok)
	assert.Equal(t, "local", p.Namespace)
	assert.Equal(t, SGXModeSW, p.SGXMode)
	assert.Equal(t, IASModeDev, p.IASMode)
	assert.False(t, p.FetchSigstruct)
}

func TestRegistryApplyInvalid(t *testing.T) {
	r := DefaultRegistry()
	assert.Error(t, r.Apply("", &Override{}))
	assert.Error(t, r.Apply("test", &Override{SGXMode: "SIM"}))
	assert.Error(t, r.Apply("test", &Override{IASMode: "STAGING"}))

	p, _ := r.Lookup("test")
	assert.Equal(t, SGXModeHW, p.SGXMode, "failed apply leaves the profile untouched")
}
