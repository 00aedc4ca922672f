package main

import (
	"fmt"

	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/misc"
)

type BuildToolSGX struct {
	MrEnclave *BuildToolSGXMrEnclave `flagly:"handler"`
	Sigstruct *BuildToolSGXSigstruct `flagly:"handler"`
}

type BuildToolSGXMrEnclave struct {
	File string `type:"[0]"`
}

func (h *BuildToolSGXMrEnclave) FlaglyHandle() error {
	mrenclave, err := misc.GetMrEnclave(h.File)
	if err != nil {
		return logex.Trace(err)
	}
	fmt.Printf("0x%x\n", mrenclave)
	return nil
}

type BuildToolSGXSigstruct struct {
	File string `type:"[0]"`
}

func (h *BuildToolSGXSigstruct) FlaglyHandle() error {
	sig, err := misc.ReadSigstruct(h.File)
	if err != nil {
		return logex.Trace(err)
	}
	mrsigner := sig.MrSigner()
	fmt.Printf("MRENCLAVE:   0x%x\n", sig.MrEnclave)
	fmt.Printf("MRSIGNER:    0x%x\n", mrsigner)
	fmt.Printf("ISVPRODID:   %v\n", sig.ISVProdID)
	fmt.Printf("ISVSVN:      %v\n", sig.ISVSVN)
	fmt.Printf("DATE:        %v\n", sig.BuildDate())
	if err := sig.Verify(); err != nil {
		return logex.Trace(err, h.File)
	}
	fmt.Println("SIGNATURE:   ok")
	return nil
}
