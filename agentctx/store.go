package agentctx

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrOutOfRange is returned by Close for a position outside [1, Len()].
var ErrOutOfRange = errors.New("context item position out of range")

// Item is anything that can be kept open in a Store. Source identifies the
// item (a path, a URL) and is the only thing Contains compares; String is the
// rendering shown to the model.
type Item interface {
	Source() string
	String() string
}

// Store is an ordered collection of context items. Insertion order is
// significant: it fixes both the numbering in FormatNumbered and the position
// Close expects. Items sharing a source may coexist; callers that want
// uniqueness check Contains before Add.
type Store struct {
	items []Item
}

// NewStore returns an empty store with its own backing slice.
func NewStore() *Store {
	return &Store{items: []Item{}}
}

// IsEmpty reports whether the store holds no items.
func (s *Store) IsEmpty() bool { return len(s.items) == 0 }

// NonEmpty reports whether the store holds at least one item.
func (s *Store) NonEmpty() bool { return len(s.items) > 0 }

// Len returns the number of items.
func (s *Store) Len() int { return len(s.items) }

// Items returns a copy of the items in insertion order.
func (s *Store) Items() []Item { return slices.Clone(s.items) }

// Contains reports whether an item with the same source as item is open.
func (s *Store) Contains(item Item) bool {
	src := item.Source()
	return slices.ContainsFunc(s.items, func(i Item) bool { return i.Source() == src })
}

// Add appends item. It performs no uniqueness check.
func (s *Store) Add(item Item) {
	s.items = append(s.items, item)
}

// Close removes the item at the 1-based position, the same numbering shown
// by FormatNumbered. The store is left untouched when position is invalid.
func (s *Store) Close(position int) error {
	if position < 1 || position > len(s.items) {
		return fmt.Errorf("%w: position %d not in [1, %d]", ErrOutOfRange, position, len(s.items))
	}

	s.items = slices.Delete(s.items, position-1, position)

	return nil
}

// Clear removes all items.
func (s *Store) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// FormatNumbered renders every item as "{i}. {item}" with 1-based numbering,
// separated by a blank line. An empty store renders as "".
func (s *Store) FormatNumbered() string {
	entries := make([]string, len(s.items))
	for i, item := range s.items {
		entries[i] = strconv.Itoa(i+1) + ". " + item.String()
	}
	return strings.Join(entries, "\n\n")
}
