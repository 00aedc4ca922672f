package misc

import (
	"encoding/json"
	"os"

	"github.com/chzyer/logex"
)

// BuildReport records what a launcher build was configured with and what it
// produced.
type BuildReport struct {
	GitCommit  string   `json:"git_commit,omitempty"`
	Network    string   `json:"network,omitempty"`
	Namespace  string   `json:"namespace,omitempty"`
	SGXMode    string   `json:"sgx_mode,omitempty"`
	IASMode    string   `json:"ias_mode,omitempty"`
	Sigstruct  string   `json:"sigstruct,omitempty"`
	MrEnclave  string   `json:"mrenclave,omitempty"`
	OutputHash string   `json:"output_hash,omitempty"`
	Outputs    []string `json:"outputs,omitempty"`
}

func WriteReport(file string, report *BuildReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return logex.Trace(err)
	}
	if err := os.WriteFile(file, append(data, '\n'), 0644); err != nil {
		return logex.Trace(err, file)
	}
	return nil
}

func ReadReport(file string) (*BuildReport, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, logex.Trace(err, file)
	}
	var report BuildReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, logex.Trace(err, file)
	}
	return &report, nil
}
