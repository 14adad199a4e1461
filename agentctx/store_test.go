package agentctx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileItem struct {
	source string
	body   string
}

func (f fileItem) Source() string { return f.source }
func (f fileItem) String() string { return f.body }

func newFile(name string) fileItem {
	return fileItem{source: name, body: "File " + name}
}

func sources(s *Store) []string {
	var out []string
	for _, it := range s.Items() {
		out = append(out, it.Source())
	}
	return out
}

func TestStore_Fresh(t *testing.T) {
	s := NewStore()

	assert.True(t, s.IsEmpty())
	assert.False(t, s.NonEmpty())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.FormatNumbered())
}

func TestStore_FormatNumbered(t *testing.T) {
	s := NewStore()
	s.Add(newFile("a.txt"))
	s.Add(newFile("b.txt"))

	assert.Equal(t, "1. File a.txt\n\n2. File b.txt", s.FormatNumbered())
}

func TestStore_FormatNumberedInsertionOrder(t *testing.T) {
	s := NewStore()
	for i := 1; i <= 12; i++ {
		s.Add(fileItem{source: fmt.Sprint(i), body: fmt.Sprintf("item-%d", i)})
	}

	out := s.FormatNumbered()
	assert.Contains(t, out, "1. item-1\n\n2. item-2")
	assert.Contains(t, out, "11. item-11\n\n12. item-12")
	assert.NotContains(t, out, "\n\n\n")
	assert.Equal(t, 11, countSeparators(out))
}

func countSeparators(s string) int {
	n := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\n' && s[i+1] == '\n' {
			n++
			i++
		}
	}
	return n
}

func TestStore_ContainsBySource(t *testing.T) {
	s := NewStore()
	a := newFile("a.txt")
	s.Add(a)

	assert.True(t, s.Contains(a))
	assert.True(t, s.Contains(fileItem{source: "a.txt", body: "something else"}))
	assert.False(t, s.Contains(newFile("b.txt")))
}

func TestStore_AddAllowsDuplicates(t *testing.T) {
	s := NewStore()
	s.Add(newFile("a.txt"))
	s.Add(fileItem{source: "a.txt", body: "other rendering"})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "1. File a.txt\n\n2. other rendering", s.FormatNumbered())
}

func TestStore_Close(t *testing.T) {
	s := NewStore()
	s.Add(newFile("a"))
	s.Add(newFile("b"))
	s.Add(newFile("c"))

	require.NoError(t, s.Close(2))
	assert.Equal(t, []string{"a", "c"}, sources(s))
	assert.Equal(t, "1. File a\n\n2. File c", s.FormatNumbered())

	require.NoError(t, s.Close(2))
	assert.Equal(t, []string{"a"}, sources(s))

	require.NoError(t, s.Close(1))
	assert.True(t, s.IsEmpty())
}

func TestStore_CloseOutOfRange(t *testing.T) {
	s := NewStore()
	s.Add(newFile("a"))
	s.Add(newFile("b"))

	for _, pos := range []int{0, -1, 3, 100} {
		err := s.Close(pos)
		require.ErrorIs(t, err, ErrOutOfRange, "position %d", pos)
		assert.Equal(t, []string{"a", "b"}, sources(s), "store mutated for position %d", pos)
	}

	assert.ErrorIs(t, NewStore().Close(1), ErrOutOfRange)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Clear()
	assert.True(t, s.IsEmpty())

	s.Add(newFile("a"))
	s.Add(newFile("b"))
	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, "", s.FormatNumbered())

	s.Clear()
	assert.True(t, s.IsEmpty())

	s.Add(newFile("c"))
	assert.Equal(t, "1. File c", s.FormatNumbered())
}

func TestStore_ItemsIsCopy(t *testing.T) {
	s := NewStore()
	s.Add(newFile("a"))

	items := s.Items()
	items[0] = newFile("z")

	assert.Equal(t, []string{"a"}, sources(s))
}

func TestNewStore_Independent(t *testing.T) {
	s1 := NewStore()
	s2 := NewStore()
	s1.Add(newFile("a"))

	assert.True(t, s2.IsEmpty())
}
