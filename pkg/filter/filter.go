// Package filter implements the surface-form blacklists applied to
// candidates before they are emitted: the suppression dictionary
// (exact reading/value pairs the user never wants to see) and the
// bad-suggestion list (values unfit for predictive requests).
package filter

import (
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// pairSep joins key and value into one trie prefix. Tab never occurs
// inside a reading or a written form.
const pairSep = "\t"

// Suppression is a membership set of (key, value) pairs.
type Suppression struct {
	trie *patricia.Trie
	n    int
}

// NewSuppression creates an empty suppression dictionary
func NewSuppression() *Suppression {
	return &Suppression{trie: patricia.NewTrie()}
}

// Add registers a reading/value pair for suppression
func (s *Suppression) Add(key, value string) {
	if s.trie.Insert(patricia.Prefix(key+pairSep+value), struct{}{}) {
		s.n++
	}
}

// IsSuppressed reports whether the exact pair was registered
func (s *Suppression) IsSuppressed(key, value string) bool {
	return s.trie.Get(patricia.Prefix(key+pairSep+value)) != nil
}

// Len returns the number of suppressed pairs
func (s *Suppression) Len() int { return s.n }

// BadSuggestion is a value blacklist with exact entries and prefix
// rules, consulted for prediction and suggestion requests only.
type BadSuggestion struct {
	exact    *patricia.Trie
	prefixes *patricia.Trie
}

// NewBadSuggestion creates an empty bad-suggestion filter
func NewBadSuggestion() *BadSuggestion {
	return &BadSuggestion{exact: patricia.NewTrie(), prefixes: patricia.NewTrie()}
}

// Add registers a value to reject exactly
func (b *BadSuggestion) Add(value string) {
	b.exact.Insert(patricia.Prefix(value), struct{}{})
}

// AddPrefix registers a prefix; any value starting with it is rejected
func (b *BadSuggestion) AddPrefix(prefix string) {
	if prefix == "" {
		log.Warn("Ignoring empty bad-suggestion prefix")
		return
	}
	b.prefixes.Insert(patricia.Prefix(prefix), struct{}{})
}

// IsBadSuggestion reports whether value matches an exact entry or any
// registered prefix.
func (b *BadSuggestion) IsBadSuggestion(value string) bool {
	if b.exact.Get(patricia.Prefix(value)) != nil {
		return true
	}
	bad := false
	b.prefixes.VisitPrefixes(patricia.Prefix(value), func(p patricia.Prefix, item patricia.Item) error {
		bad = true
		return nil
	})
	return bad
}
