package main

import (
	"encoding/hex"
	"fmt"

	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/misc"
)

type BuildToolReport struct {
	File string `type:"[0]"`
	Dir  string `default:"." desc:"directory the report outputs are relative to"`
}

func (r *BuildToolReport) FlaglyHandle() error {
	report, err := misc.ReadReport(r.File)
	if err != nil {
		return logex.Trace(err)
	}
	logex.Pretty(report)
	if err := checkReport(report, r.Dir); err != nil {
		return logex.Trace(err, r.File)
	}
	fmt.Println("report matches")
	return nil
}

// checkReport recomputes the output hash under dir and, when the report names
// one, the sigstruct MRENCLAVE.
func checkReport(report *misc.BuildReport, dir string) error {
	if len(report.Outputs) > 0 {
		var result *misc.MerkleTreeResult
		if err := misc.InDir(dir, func() error {
			var err error
			result, err = misc.FilesMerkleTree(report.Outputs, 10, nil)
			return err
		}); err != nil {
			return logex.Trace(err)
		}
		if got := hex.EncodeToString(result.Root); got != report.OutputHash {
			return logex.NewErrorf("output hash mismatch: got %v, want %v", got, report.OutputHash)
		}
	}
	if report.Sigstruct != "" {
		sig, err := misc.ReadSigstruct(report.Sigstruct)
		if err != nil {
			return logex.Trace(err)
		}
		if got := hex.EncodeToString(sig.MrEnclave[:]); got != report.MrEnclave {
			return logex.NewErrorf("mrenclave mismatch: got %v, want %v", got, report.MrEnclave)
		}
	}
	return nil
}
