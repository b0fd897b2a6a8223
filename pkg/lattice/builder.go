package lattice

import (
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"kanabest/pkg/dictionary"
)

// unknownWordCost is the intrinsic cost of a synthesized single-rune
// node. High enough that any dictionary route beats it, low enough to
// keep uncovered readings convertible.
const unknownWordCost int32 = 10000

// Lookup is the dictionary access the builder needs: all entries whose
// reading is a prefix of s. Satisfied by dictionary.Dictionary.
type Lookup interface {
	CommonPrefixSearch(s string) []dictionary.Entry
}

// Build constructs the lattice for key from dictionary lookups. At each
// rune boundary every common-prefix match becomes a node; positions
// where no entry begins get a single-rune unknown node (key as value,
// identifiers zero) so the lattice always spans the reading.
func Build(key string, dict Lookup) (*Lattice, error) {
	l, err := New(key)
	if err != nil {
		return nil, err
	}

	for pos := 0; pos < len(key); {
		entries := dict.CommonPrefixSearch(key[pos:])
		for _, e := range entries {
			l.Insert(pos, pos+len(e.Key), e.Key, e.Value, e.Cost, e.LeftID, e.RightID, e.PosID)
		}
		r, width := utf8.DecodeRuneInString(key[pos:])
		if r == utf8.RuneError && width <= 1 {
			width = 1
		}
		if len(entries) == 0 {
			sub := key[pos : pos+width]
			l.Insert(pos, pos+width, sub, sub, unknownWordCost, 0, 0, 0)
		}
		pos += width
	}

	log.Debugf("Lattice built for %q: %d nodes", key, l.Len())
	return l, nil
}
