package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvLookup(t *testing.T) {
	env := NewEnv()
	fn := NewFunction("app.core.hit", nil)
	env.DefineFn("app.core/hit", fn)

	got, ok := env.Lookup("app.core/hit")
	assert.True(t, ok)
	assert.Same(t, fn, got)

	_, ok = env.Lookup("app.core/miss")
	assert.False(t, ok)
}

func TestEnvMacroShadowsFn(t *testing.T) {
	env := NewEnv()
	fn := NewFunction("app.core.when", nil)
	macro := NewFunction("app.core.when__macro", nil)
	env.DefineFn("app.core/when", fn)
	env.DefineMacro("app.core/when", macro)

	got, ok := env.Lookup("app.core/when")
	assert.True(t, ok)
	assert.Same(t, macro, got)
}

func TestDescribe(t *testing.T) {
	cls := NewClass("app.core.Thing", nil, "")
	cases := []struct {
		ref  Value
		want string
	}{
		{NewFunction("app.core.f", cls), "function app.core.f"},
		{&Interpreted{Name: "g"}, "interpreted fn g"},
		{&Interpreted{}, "interpreted fn"},
		{NewGeneric("h", nil), "generic h"},
		{&Method{Name: "run", Declaring: cls}, "method app.core.Thing.run"},
		{cls, "class app.core.Thing"},
		{Symbol("app.core/f"), "symbol app.core/f"},
		{Raw([]byte{1, 2, 3}), "raw bytes (3)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Describe(tc.ref))
	}
}

func TestInterpretedSource(t *testing.T) {
	i := &Interpreted{Name: "add", Params: []string{"a", "b"}, Body: "(+ a b)"}
	src := i.Source()
	assert.Contains(t, src, "fn add")
	assert.Contains(t, src, "[a b]")
	assert.Contains(t, src, "(+ a b)")

	anon := &Interpreted{Body: "nil"}
	assert.Contains(t, anon.Source(), "anonymous")
}
