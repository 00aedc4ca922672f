package build

import (
	"encoding/hex"

	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/misc"
)

type Builder struct {
	Config       *BuildConfig
	Plan         *Plan
	OutputResult *misc.MerkleTreeResult
	logOutput    *misc.LogOutput
}

func NewBuilder(config *BuildConfig, plan *Plan, logOutput *misc.LogOutput) *Builder {
	return &Builder{Config: config, Plan: plan, logOutput: logOutput}
}

func (b *Builder) Command() *misc.Command {
	return &misc.Command{
		Name: b.Config.Cmd,
		Args: b.Config.Args,
		Dir:  b.Config.Dir,
		Env:  b.Plan.Env,
	}
}

// Build runs the downstream build. A non-zero exit is returned with its exit
// code set on the error.
func (b *Builder) Build() error {
	cmd := b.Command()
	logex.Infof("running cmd: %q in %v", cmd.String(), cmd.Dir)
	if err := misc.Exec(b.logOutput, cmd); err != nil {
		return logex.Trace(err)
	}
	return nil
}

// Digest computes the merkle root over the configured outputs.
func (b *Builder) Digest() (*misc.MerkleTreeResult, error) {
	var result *misc.MerkleTreeResult
	if err := misc.InDir(b.Config.Dir, func() error {
		var err error
		result, err = misc.FilesMerkleTree(b.Config.Outputs, 10, nil)
		return err
	}); err != nil {
		return nil, logex.Trace(err)
	}
	b.OutputResult = result
	logex.Infof("hash: %x", result.Root)
	return result, nil
}

func (b *Builder) Report() (*misc.BuildReport, error) {
	if b.OutputResult == nil {
		if _, err := b.Digest(); err != nil {
			return nil, logex.Trace(err)
		}
	}
	report := &misc.BuildReport{
		Network:    b.Plan.Network,
		OutputHash: hex.EncodeToString(b.OutputResult.Root),
		Outputs:    b.OutputResult.FileList,
	}
	if gitInfo, err := misc.GetGitInfo(b.Config.Dir); err == nil {
		report.GitCommit = gitInfo.Commit
	} else {
		logex.Warn("git info unavailable:", err)
	}
	if !b.Plan.PassThrough() {
		report.Namespace = b.Plan.Profile.Namespace
		report.SGXMode = string(b.Plan.Profile.SGXMode)
		report.IASMode = string(b.Plan.Profile.IASMode)
		report.Sigstruct = b.Plan.Sigstruct
		sig, err := misc.ReadSigstruct(b.Plan.Sigstruct)
		if err != nil {
			return nil, logex.Trace(err)
		}
		report.MrEnclave = hex.EncodeToString(sig.MrEnclave[:])
	}
	return report, nil
}
