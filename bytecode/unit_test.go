package bytecode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleUnit() *Unit {
	u := NewUnit("app.core.greet")
	u.ParamNames = []string{"name"}
	u.LocalCount = 1
	u.EmitConstant("hello, ")
	u.EmitOperand(OpLoadParam, 0)
	u.EmitOperand(OpCall, 2)
	u.Emit(OpReturn)
	return u
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	u := sampleUnit()
	data, err := u.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	assert.Equal(t, UnitMagic, data[:4])

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.Constants, got.Constants)
	assert.Equal(t, u.Code, got.Code)
	assert.Equal(t, u.ParamNames, got.ParamNames)
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode([]byte("nope"))
	assert.True(t, errors.Is(err, ErrBadMagic))

	_, err = Decode([]byte{'L', 'M'})
	assert.True(t, errors.Is(err, ErrBadMagic))
}

func TestDecodeVersionMismatch(t *testing.T) {
	u := sampleUnit()
	u.Version = UnitVersion + 1
	data, err := u.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	_, err = Decode(data)
	assert.True(t, errors.Is(err, ErrVersionMismatch))
}

func TestEmitConstantInterns(t *testing.T) {
	u := NewUnit("app.core.dup")
	u.EmitConstant("x")
	u.EmitConstant("y")
	u.EmitConstant("x")
	assert.Equal(t, []string{"x", "y"}, u.Constants)
	// Third emit points back at index 0.
	assert.Equal(t, byte(0), u.Code[len(u.Code)-1])
}

func TestResourcePath(t *testing.T) {
	assert.Equal(t, "app/core/greet.lbc", ResourcePath("app.core.greet"))
	assert.Equal(t, "main.lbc", ResourcePath("main"))
}
