// Package dictionary holds the morpheme dictionary backing lattice
// construction. Entries are indexed in a Patricia trie keyed by reading,
// so building a lattice is one common-prefix walk per input position.
package dictionary

import (
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is one morpheme: a reading (key), its written form (value), the
// intrinsic word cost and the grammatical identifiers the connector and
// the word-class tables are keyed on.
type Entry struct {
	Key     string `msgpack:"k"`
	Value   string `msgpack:"v"`
	Cost    int32  `msgpack:"c"`
	LeftID  uint16 `msgpack:"l"`
	RightID uint16 `msgpack:"r"`
	PosID   uint16 `msgpack:"p"`
}

// Dictionary is an immutable-after-load morpheme index.
type Dictionary struct {
	trie       *patricia.Trie
	entryCount int
}

// New creates an empty dictionary
func New() *Dictionary {
	return &Dictionary{trie: patricia.NewTrie()}
}

// Add inserts an entry under its reading. Multiple entries may share a
// reading (homophones), so the trie item is a slice.
func (d *Dictionary) Add(e Entry) {
	prefix := patricia.Prefix(e.Key)
	if item := d.trie.Get(prefix); item != nil {
		d.trie.Set(prefix, append(item.([]Entry), e))
	} else {
		d.trie.Insert(prefix, []Entry{e})
	}
	d.entryCount++
}

// Lookup returns all entries whose reading matches key exactly
func (d *Dictionary) Lookup(key string) []Entry {
	item := d.trie.Get(patricia.Prefix(key))
	if item == nil {
		return nil
	}
	return item.([]Entry)
}

// CommonPrefixSearch returns every entry whose reading is a prefix of s.
// This is the lattice builder's per-position lookup.
func (d *Dictionary) CommonPrefixSearch(s string) []Entry {
	var out []Entry
	d.trie.VisitPrefixes(patricia.Prefix(s), func(p patricia.Prefix, item patricia.Item) error {
		out = append(out, item.([]Entry)...)
		return nil
	})
	return out
}

// Len returns the number of entries added
func (d *Dictionary) Len() int {
	return d.entryCount
}
