package build

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mobilecoinofficial/fs-build/misc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shellConfig(dir, script string) *BuildConfig {
	return &BuildConfig{
		Cmd:     "sh",
		Args:    []string{"-c", script},
		Dir:     dir,
		Outputs: []string{"target/release/*"},
	}
}

func TestBuilderInheritsPlanEnv(t *testing.T) {
	launcher, _ := newTestLauncher(t)
	plan, err := launcher.Prepare(context.Background(), "test")
	require.NoError(t, err)

	dir := t.TempDir()
	var out bytes.Buffer
	builder := NewBuilder(shellConfig(dir, `echo "$SGX_MODE $IAS_MODE $CONSENSUS_ENCLAVE_CSS" > env.txt`), plan, &misc.LogOutput{Stdout: &out, Stderr: &out})
	require.NoError(t, builder.Build())

	data, err := os.ReadFile(filepath.Join(dir, "env.txt"))
	require.NoError(t, err)
	assert.Equal(t, "HW PROD "+plan.Sigstruct, strings.TrimSpace(string(data)))
	assert.Contains(t, out.String(), `exec "sh -c`)
}

func TestBuilderPassThroughKeepsAmbientEnv(t *testing.T) {
	launcher, _ := newTestLauncher(t)
	plan, err := launcher.Prepare(context.Background(), "")
	require.NoError(t, err)

	dir := t.TempDir()
	var out bytes.Buffer
	builder := NewBuilder(shellConfig(dir, `echo "$SGX_MODE $IAS_MODE $CONSENSUS_ENCLAVE_CSS" > env.txt`), plan, &misc.LogOutput{Stdout: &out, Stderr: &out})
	require.NoError(t, builder.Build())

	data, err := os.ReadFile(filepath.Join(dir, "env.txt"))
	require.NoError(t, err)
	assert.Equal(t, "SW DEV /opt/old.css", strings.TrimSpace(string(data)))
}

func TestBuilderExitCode(t *testing.T) {
	launcher, _ := newTestLauncher(t)
	plan, err := launcher.Prepare(context.Background(), "")
	require.NoError(t, err)

	var out bytes.Buffer
	builder := NewBuilder(shellConfig(t.TempDir(), "exit 101"), plan, &misc.LogOutput{Stdout: &out, Stderr: &out})
	err = builder.Build()
	require.Error(t, err)
	assert.Equal(t, 101, misc.ExitCode(err))
}

func TestBuilderReport(t *testing.T) {
	launcher, _ := newTestLauncher(t)
	plan, err := launcher.Prepare(context.Background(), "main")
	require.NoError(t, err)

	dir := t.TempDir()
	commit := strings.Repeat("ab", 20)
	for name, content := range map[string]string{
		".git/HEAD":                   "ref: refs/heads/main\n",
		".git/refs/heads/main":        commit + "\n",
		"target/release/full-service": "elf",
	} {
		fp := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0755))
		require.NoError(t, os.WriteFile(fp, []byte(content), 0644))
	}

	var out bytes.Buffer
	builder := NewBuilder(shellConfig(dir, "true"), plan, &misc.LogOutput{Stdout: &out, Stderr: &out})
	require.NoError(t, builder.Build())
	report, err := builder.Report()
	require.NoError(t, err)

	assert.Equal(t, commit, report.GitCommit)
	assert.Equal(t, "main", report.Network)
	assert.Equal(t, "prod", report.Namespace)
	assert.Equal(t, "HW", report.SGXMode)
	assert.Equal(t, "PROD", report.IASMode)
	assert.Equal(t, plan.Sigstruct, report.Sigstruct)
	assert.Equal(t, strings.Repeat("aa", 32), report.MrEnclave)
	assert.Equal(t, []string{filepath.Join("target", "release", "full-service")}, report.Outputs)
	assert.Equal(t, hex.EncodeToString(builder.OutputResult.Root), report.OutputHash)
}

func TestBuilderReportWithoutOutputs(t *testing.T) {
	launcher, _ := newTestLauncher(t)
	plan, err := launcher.Prepare(context.Background(), "")
	require.NoError(t, err)

	builder := NewBuilder(shellConfig(t.TempDir(), "true"), plan, nil)
	_, err = builder.Report()
	assert.Error(t, err)
}
