package models

import (
	"encoding/json"
	"fmt"
	"iter"
)

// RevealData is the attribution attached to a claimed block.
type RevealData struct {
	Username   string `json:"username"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

// UnmarshalJSON accepts the object form and the legacy bare username string.
func (r *RevealData) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*r = RevealData{Username: name}
		return nil
	}
	type plain RevealData
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("reveal data: %w", err)
	}
	*r = RevealData(p)
	return nil
}

// LedgerView is the read-only surface of a Ledger handed to renderers.
type LedgerView interface {
	Get(index int) (RevealData, bool)
	Has(index int) bool
	Len() int
	All() iter.Seq2[int, RevealData]
}

// Ledger is the shared mapping from block index to its revealer. Entries
// keep insertion order and are never overwritten or removed; a global reset
// replaces the whole ledger.
type Ledger struct {
	order   []int
	entries map[int]RevealData
}

var _ LedgerView = (*Ledger)(nil)

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[int]RevealData)}
}

func (l *Ledger) Get(index int) (RevealData, bool) {
	if l == nil {
		return RevealData{}, false
	}
	r, ok := l.entries[index]
	return r, ok
}

func (l *Ledger) Has(index int) bool {
	_, ok := l.Get(index)
	return ok
}

func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// Claim records r at index. It reports false and leaves the ledger unchanged
// when the index is already claimed.
func (l *Ledger) Claim(index int, r RevealData) bool {
	if l.entries == nil {
		l.entries = make(map[int]RevealData)
	}
	if _, ok := l.entries[index]; ok {
		return false
	}
	l.entries[index] = r
	l.order = append(l.order, index)
	return true
}

// Restamp replaces the attribution of already claimed indices. Unclaimed
// indices are skipped. It returns the number of entries updated.
func (l *Ledger) Restamp(indices []int, r RevealData) int {
	n := 0
	for _, i := range indices {
		if _, ok := l.entries[i]; ok {
			l.entries[i] = r
			n++
		}
	}
	return n
}

// All iterates entries in claim order.
func (l *Ledger) All() iter.Seq2[int, RevealData] {
	return func(yield func(int, RevealData) bool) {
		if l == nil {
			return
		}
		for _, i := range l.order {
			if !yield(i, l.entries[i]) {
				return
			}
		}
	}
}

// Keys returns the claimed indices in claim order.
func (l *Ledger) Keys() []int {
	if l == nil {
		return nil
	}
	return append([]int(nil), l.order...)
}

func (l *Ledger) Clone() *Ledger {
	out := NewLedger()
	for i, r := range l.All() {
		out.Claim(i, r)
	}
	return out
}

const (
	kindMap = "map"
	kindSet = "set"
)

type taggedContainer struct {
	Kind    string          `json:"kind"`
	Entries json.RawMessage `json:"entries"`
}

// MarshalJSON encodes the ledger as {"kind":"map","entries":[[index,reveal],...]}.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, 0, l.Len())
	for i, r := range l.All() {
		pairs = append(pairs, [2]any{i, r})
	}
	entries, err := json.Marshal(pairs)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taggedContainer{Kind: kindMap, Entries: entries})
}

// UnmarshalJSON decodes the tagged form and the legacy bare entry array.
// Duplicate indices keep their first claimant.
func (l *Ledger) UnmarshalJSON(b []byte) error {
	raw, err := containerEntries(b, kindMap)
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return fmt.Errorf("ledger entries: %w", err)
	}
	out := NewLedger()
	for _, p := range pairs {
		var index int
		if err := json.Unmarshal(p[0], &index); err != nil {
			return fmt.Errorf("ledger index: %w", err)
		}
		var r RevealData
		if err := json.Unmarshal(p[1], &r); err != nil {
			return err
		}
		out.Claim(index, r)
	}
	*l = *out
	return nil
}

// containerEntries extracts the entries of a tagged container, or returns b
// unchanged when it is a bare JSON array.
func containerEntries(b []byte, kind string) (json.RawMessage, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(b, &arr); err == nil {
		return b, nil
	}
	var c taggedContainer
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, fmt.Errorf("unexpected container kind %q, want %q", c.Kind, kind)
	}
	if len(c.Entries) == 0 || string(c.Entries) == "null" {
		return json.RawMessage("[]"), nil
	}
	return c.Entries, nil
}
