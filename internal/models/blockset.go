package models

import (
	"encoding/json"
	"fmt"
	"slices"
)

// BlockSet is a set of block indices. The zero value is an empty set.
type BlockSet struct {
	m map[int]struct{}
}

// NewBlockSet returns a set holding the given indices.
func NewBlockSet(indices ...int) BlockSet {
	var s BlockSet
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

func (s *BlockSet) Add(i int) {
	if s.m == nil {
		s.m = make(map[int]struct{})
	}
	s.m[i] = struct{}{}
}

func (s BlockSet) Has(i int) bool {
	_, ok := s.m[i]
	return ok
}

func (s BlockSet) Len() int { return len(s.m) }

// Elements returns the indices in ascending order.
func (s BlockSet) Elements() []int {
	out := make([]int, 0, len(s.m))
	for i := range s.m {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

func (s BlockSet) Clone() BlockSet {
	return NewBlockSet(s.Elements()...)
}

// MarshalJSON encodes the set as {"kind":"set","entries":[...]}.
func (s BlockSet) MarshalJSON() ([]byte, error) {
	entries, err := json.Marshal(s.Elements())
	if err != nil {
		return nil, err
	}
	return json.Marshal(taggedContainer{Kind: kindSet, Entries: entries})
}

// UnmarshalJSON decodes the tagged form, a legacy bare array, or null.
func (s *BlockSet) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = BlockSet{}
		return nil
	}
	raw, err := containerEntries(b, kindSet)
	if err != nil {
		return fmt.Errorf("block set: %w", err)
	}
	var indices []int
	if err := json.Unmarshal(raw, &indices); err != nil {
		return fmt.Errorf("block set entries: %w", err)
	}
	*s = NewBlockSet(indices...)
	return nil
}
