package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/mobilecoinofficial/fs-build/misc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReport(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "target", "release", "full-service")
	require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0755))
	require.NoError(t, os.WriteFile(fp, []byte("elf"), 0644))

	var result *misc.MerkleTreeResult
	require.NoError(t, misc.InDir(dir, func() error {
		var err error
		result, err = misc.FilesMerkleTree([]string{"target/release/*"}, 2, nil)
		return err
	}))
	report := &misc.BuildReport{
		OutputHash: hex.EncodeToString(result.Root),
		Outputs:    result.FileList,
	}
	require.NoError(t, checkReport(report, dir))

	require.NoError(t, os.WriteFile(fp, []byte("rebuilt"), 0644))
	err := checkReport(report, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output hash mismatch")
}

func TestCheckReportMissingSigstruct(t *testing.T) {
	report := &misc.BuildReport{Sigstruct: filepath.Join(t.TempDir(), "consensus-enclave.css")}
	assert.Error(t, checkReport(report, "."))
}
