package misc

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"math/big"
	"os"

	"github.com/chzyer/logex"
)

// SIGSTRUCT layout, Intel SDM vol. 3D 38.13.
const (
	SigstructSize = 1808

	sigstructModulusOffset    = 128
	sigstructExponentOffset   = 512
	sigstructSignatureOffset  = 516
	sigstructMiscSelectOffset = 900
	sigstructMrEnclaveOffset  = 960

	sigstructKeySize = 384
)

var (
	sigstructHeader  = []byte{0x06, 0x00, 0x00, 0x00, 0xe1, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}
	sigstructHeader2 = []byte{0x01, 0x01, 0x00, 0x00, 0x60, 0x00, 0x00, 0x00, 0x60, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}
)

// Sigstruct is a parsed enclave signature structure, the content of a
// consensus-enclave.css file.
type Sigstruct struct {
	Vendor     uint32
	Date       uint32
	SwDefined  uint32
	Modulus    [sigstructKeySize]byte
	Exponent   uint32
	Signature  [sigstructKeySize]byte
	MiscSelect uint32
	MiscMask   uint32
	Attributes [16]byte
	AttrMask   [16]byte
	MrEnclave  [32]byte
	ISVProdID  uint16
	ISVSVN     uint16

	raw []byte
}

// CheckSigstruct validates size and the fixed header fields.
func CheckSigstruct(data []byte) error {
	if len(data) != SigstructSize {
		return logex.NewErrorf("sigstruct size mismatch: got %v bytes, want %v", len(data), SigstructSize)
	}
	if !bytes.Equal(data[0:16], sigstructHeader) {
		return logex.NewErrorf("sigstruct header mismatch: %x", data[0:16])
	}
	if !bytes.Equal(data[24:40], sigstructHeader2) {
		return logex.NewErrorf("sigstruct header2 mismatch: %x", data[24:40])
	}
	return nil
}

func ParseSigstruct(data []byte) (*Sigstruct, error) {
	if err := CheckSigstruct(data); err != nil {
		return nil, logex.Trace(err)
	}
	sig := &Sigstruct{raw: append([]byte(nil), data...)}
	sig.Vendor = binary.LittleEndian.Uint32(data[16:20])
	sig.Date = binary.LittleEndian.Uint32(data[20:24])
	sig.SwDefined = binary.LittleEndian.Uint32(data[40:44])
	copy(sig.Modulus[:], data[sigstructModulusOffset:])
	sig.Exponent = binary.LittleEndian.Uint32(data[sigstructExponentOffset:])
	copy(sig.Signature[:], data[sigstructSignatureOffset:])
	sig.MiscSelect = binary.LittleEndian.Uint32(data[sigstructMiscSelectOffset:])
	sig.MiscMask = binary.LittleEndian.Uint32(data[sigstructMiscSelectOffset+4:])
	copy(sig.Attributes[:], data[928:944])
	copy(sig.AttrMask[:], data[944:960])
	copy(sig.MrEnclave[:], data[sigstructMrEnclaveOffset:])
	sig.ISVProdID = binary.LittleEndian.Uint16(data[1024:1026])
	sig.ISVSVN = binary.LittleEndian.Uint16(data[1026:1028])
	return sig, nil
}

func ReadSigstruct(file string) (*Sigstruct, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, logex.Trace(err, file)
	}
	sig, err := ParseSigstruct(data)
	if err != nil {
		return nil, logex.Trace(err, file)
	}
	return sig, nil
}

// BuildDate decodes the BCD yyyymmdd date field.
func (s *Sigstruct) BuildDate() string {
	return fmt.Sprintf("%04x-%02x-%02x", s.Date>>16, (s.Date>>8)&0xff, s.Date&0xff)
}

// MrSigner is the sha256 of the little-endian signer modulus.
func (s *Sigstruct) MrSigner() [32]byte {
	return sha256.Sum256(s.Modulus[:])
}

// SigningData is the part of the structure covered by the signature.
func (s *Sigstruct) SigningData() []byte {
	data := make([]byte, 0, 256)
	data = append(data, s.raw[0:128]...)
	data = append(data, s.raw[sigstructMiscSelectOffset:sigstructMiscSelectOffset+128]...)
	return data
}

// Verify checks the RSA PKCS#1 v1.5 SHA-256 signature against the embedded
// modulus. Both modulus and signature are stored little-endian.
func (s *Sigstruct) Verify() error {
	if s.Exponent == 0 {
		return logex.NewErrorf("sigstruct exponent is zero")
	}
	pub := &rsa.PublicKey{
		N: new(big.Int).SetBytes(reverseBytes(s.Modulus[:])),
		E: int(s.Exponent),
	}
	digest := sha256.Sum256(s.SigningData())
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], reverseBytes(s.Signature[:])); err != nil {
		return logex.Trace(err)
	}
	return nil
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[i] = b[len(b)-1-i]
	}
	return out
}

// GetMrEnclave reads MRENCLAVE out of the .note.sgxmeta section of a signed
// enclave shared object.
func GetMrEnclave(file string) ([]byte, error) {
	f, err := elf.Open(file)
	if err != nil {
		return nil, logex.Trace(err)
	}
	defer f.Close()

	for _, sect := range f.Sections {
		if sect.Name == ".note.sgxmeta" {
			data, err := sect.Data()
			if err != nil {
				return nil, logex.Trace(err)
			}
			if len(data) < 1049+32 {
				return nil, logex.NewErrorf("sgxmeta too short: %v bytes", len(data))
			}
			var hash [32]byte
			copy(hash[:], data[1049:1049+32])
			return hash[:], nil
		}
	}
	return nil, logex.NewErrorf("sgxmeta not found in %v", file)
}
