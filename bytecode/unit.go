// Package bytecode defines the Loom compiled code unit: the binary,
// loadable representation of one function or class, as stored in .lbc
// files and .lar archive members.
package bytecode

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// UnitVersion is the current unit format version. Increment on
// incompatible changes.
const UnitVersion uint16 = 1

// UnitSuffix is the file suffix for a compiled code unit.
const UnitSuffix = ".lbc"

// UnitMagic prefixes every encoded unit, ahead of the CBOR payload.
var UnitMagic = []byte{'L', 'M', 'B', 'C'}

var (
	ErrBadMagic        = errors.New("invalid unit magic")
	ErrVersionMismatch = errors.New("unit version mismatch")
)

// UnitFlags carries compilation flags for a unit.
type UnitFlags uint16

const (
	// UnitFlagDebug indicates a source map is present.
	UnitFlagDebug UnitFlags = 1 << 0

	// UnitFlagClosure indicates the unit captures its environment.
	UnitFlagClosure UnitFlags = 1 << 1
)

// SourceLocation maps a code offset to a source position.
type SourceLocation struct {
	Offset uint32 `cbor:"1,keyasint"`
	Line   uint32 `cbor:"2,keyasint"`
	Column uint16 `cbor:"3,keyasint"`
}

// Unit is a compiled code unit: header, constant pool and code section.
type Unit struct {
	Version    uint16    `cbor:"1,keyasint"`
	Name       string    `cbor:"2,keyasint"` // qualified name, dot separated
	Flags      UnitFlags `cbor:"3,keyasint"`
	Constants  []string  `cbor:"4,keyasint"`
	ParamNames []string  `cbor:"5,keyasint"`
	LocalCount uint8     `cbor:"6,keyasint"`
	Code       []byte    `cbor:"7,keyasint"`

	// Present when UnitFlagDebug is set.
	SourceMap []SourceLocation `cbor:"8,keyasint,omitempty"`
}

// cborEncMode uses canonical options so identical units encode to
// identical bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// NewUnit returns an empty unit for the given qualified name at the
// current format version.
func NewUnit(name string) *Unit {
	return &Unit{Version: UnitVersion, Name: name}
}

// Encode serializes the unit as magic bytes followed by a CBOR payload.
func (u *Unit) Encode() ([]byte, error) {
	payload, err := cborEncMode.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal unit: %w", err)
	}
	out := make([]byte, 0, len(UnitMagic)+len(payload))
	out = append(out, UnitMagic...)
	return append(out, payload...), nil
}

// Decode parses an encoded unit, validating magic and version.
func Decode(data []byte) (*Unit, error) {
	if len(data) < len(UnitMagic) || !bytes.Equal(data[:len(UnitMagic)], UnitMagic) {
		return nil, ErrBadMagic
	}
	var u Unit
	if err := cbor.Unmarshal(data[len(UnitMagic):], &u); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal unit: %w", err)
	}
	if u.Version != UnitVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, u.Version, UnitVersion)
	}
	return &u, nil
}

// Emit appends a bare opcode to the code section.
func (u *Unit) Emit(op Opcode) {
	u.Code = append(u.Code, byte(op))
}

// EmitOperand appends an opcode followed by raw operand bytes.
func (u *Unit) EmitOperand(op Opcode, operands ...byte) {
	u.Code = append(u.Code, byte(op))
	u.Code = append(u.Code, operands...)
}

// EmitConstant interns s in the constant pool and emits OpConst for it.
func (u *Unit) EmitConstant(s string) {
	idx := len(u.Constants)
	for i, c := range u.Constants {
		if c == s {
			idx = i
			break
		}
	}
	if idx == len(u.Constants) {
		u.Constants = append(u.Constants, s)
	}
	u.EmitOperand(OpConst, byte(idx>>8), byte(idx))
}

// ResourcePath converts a qualified unit name to its conventional
// resource path: dots become slashes and the unit suffix is appended.
func ResourcePath(qualifiedName string) string {
	return pathify(qualifiedName) + UnitSuffix
}

func pathify(qualifiedName string) string {
	b := []byte(qualifiedName)
	for i, c := range b {
		if c == '.' {
			b[i] = '/'
		}
	}
	return string(b)
}
