package misc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/usr/bin", "SGX_MODE=SW", "HOME=/root", "SGX_MODE=SIM"}
	orig := append([]string(nil), base...)
	got := MergeEnv(base, map[string]string{
		"SGX_MODE":              "HW",
		"IAS_MODE":              "PROD",
		"CONSENSUS_ENCLAVE_CSS": "/tmp/css",
	})

	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"SGX_MODE=HW",
		"HOME=/root",
		"CONSENSUS_ENCLAVE_CSS=/tmp/css",
		"IAS_MODE=PROD",
	}, got)
	assert.Equal(t, orig, base, "base must not be modified")
}

func TestMergeEnvWithoutOverrides(t *testing.T) {
	base := []string{"A=1", "B=2"}
	assert.Equal(t, base, MergeEnv(base, nil))
}

func TestLookupEnv(t *testing.T) {
	env := []string{"A=1", "B=", "A=3"}

	val, ok := LookupEnv(env, "A")
	assert.True(t, ok)
	assert.Equal(t, "3", val)

	val, ok = LookupEnv(env, "B")
	assert.True(t, ok)
	assert.Empty(t, val)

	_, ok = LookupEnv(env, "C")
	assert.False(t, ok)
}
