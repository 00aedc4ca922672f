package misc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadReport(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "build-report.json")
	report := &BuildReport{
		GitCommit:  testCommit,
		Network:    "test",
		Namespace:  "test",
		SGXMode:    "HW",
		IASMode:    "PROD",
		OutputHash: "ab",
		Outputs:    []string{"target/release/full-service"},
	}
	require.NoError(t, WriteReport(fp, report))

	data, err := os.ReadFile(fp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sgx_mode": "HW"`)
	assert.NotContains(t, string(data), "mrenclave", "empty fields are omitted")

	got, err := ReadReport(fp)
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestReadReportInvalid(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "build-report.json")
	require.NoError(t, os.WriteFile(fp, []byte("{"), 0644))

	_, err := ReadReport(fp)
	assert.Error(t, err)
}
