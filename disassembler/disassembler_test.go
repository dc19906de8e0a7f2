package disassembler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name      string
	available bool
}

func (s *fakeStrategy) Name() string    { return s.name }
func (s *fakeStrategy) Available() bool { return s.available }

func (s *fakeStrategy) Disassemble(code []byte) (string, error) {
	return fmt.Sprintf("%s:%d", s.name, len(code)), nil
}

func TestSelectByName(t *testing.T) {
	r := NewRegistry()
	a := &fakeStrategy{name: "a", available: true}
	b := &fakeStrategy{name: "b", available: true}
	r.Register("a", a)
	r.Register("b", b)

	got, err := r.Select("b")
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Same(t, b, r.Active())
}

func TestSelectUnknown(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeStrategy{name: "a", available: true})

	_, err := r.Select("zzz")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestSelectUnavailable(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeStrategy{name: "a", available: false})

	_, err := r.Select("a")
	assert.True(t, errors.Is(err, ErrStrategyUnavailable))
}

func TestDuplicateNameEarliestWins(t *testing.T) {
	r := NewRegistry()
	first := &fakeStrategy{name: "dup", available: true}
	second := &fakeStrategy{name: "dup", available: true}
	r.Register("dup", first)
	r.Register("dup", second)

	got, err := r.Select("dup")
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestActiveFallbackScan(t *testing.T) {
	// Only one entry is available; the scan must find it regardless of
	// registration position.
	for pos := 0; pos < 3; pos++ {
		r := NewRegistry()
		var want *fakeStrategy
		for i := 0; i < 3; i++ {
			s := &fakeStrategy{name: fmt.Sprintf("s%d", i), available: i == pos}
			if i == pos {
				want = s
			}
			r.Register(s.name, s)
		}
		assert.Same(t, want, r.Active(), "position %d", pos)
	}
}

func TestActiveNoneAvailable(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeStrategy{name: "a"})
	r.Register("b", &fakeStrategy{name: "b"})

	// Non-fatal: nil, not a panic or error.
	assert.Nil(t, r.Active())
}

func TestActiveSticky(t *testing.T) {
	r := NewRegistry()
	a := &fakeStrategy{name: "a", available: true}
	b := &fakeStrategy{name: "b", available: true}
	r.Register("a", a)
	r.Register("b", b)

	_, err := r.Select("b")
	require.NoError(t, err)
	assert.Same(t, b, r.Active(), "selection must stick across reads")
	assert.Same(t, b, r.Active())
}

func TestActiveReprobesStickySelection(t *testing.T) {
	r := NewRegistry()
	a := &fakeStrategy{name: "a", available: true}
	b := &fakeStrategy{name: "b", available: true}
	r.Register("a", a)
	r.Register("b", b)

	_, err := r.Select("b")
	require.NoError(t, err)

	// The selected strategy breaking is detected on the next read and
	// the fallback scan adopts the first available entry.
	b.available = false
	assert.Same(t, a, r.Active())
}

func TestList(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeStrategy{name: "a", available: true})
	r.Register("b", &fakeStrategy{name: "b"})

	_, err := r.Select("a")
	require.NoError(t, err)

	infos := r.List()
	require.Len(t, infos, 2)
	assert.Equal(t, Info{Name: "a", Available: true, Selected: true}, infos[0])
	assert.Equal(t, Info{Name: "b", Available: false, Selected: false}, infos[1])
}
