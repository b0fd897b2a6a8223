/*
Package grammar carries the closed grammatical tables the candidate
ranker consults: word classes for the content/functional merge rule,
the bigram connection cost matrix, and the segment-boundary rule table
behind the legality oracle. Everything here is a pure lookup; nothing
mutates after construction.
*/
package grammar

import (
	"kanabest/pkg/lattice"
)

// WordClass drives inner-segment content accumulation.
type WordClass uint8

const (
	// ContentWord carries meaning on its own (nouns, most stems).
	ContentWord WordClass = iota
	// FunctionalWord attaches to content (particles, auxiliaries, copulas).
	FunctionalWord
	// InflectableContentWord is a content word that inflects (yougen);
	// its trailing functional suffixes belong to the same content unit.
	InflectableContentWord
)

func (c WordClass) String() string {
	switch c {
	case ContentWord:
		return "content"
	case FunctionalWord:
		return "functional"
	case InflectableContentWord:
		return "inflectable"
	}
	return "unknown"
}

// Classifier maps a part-of-speech identifier to its word class.
type Classifier interface {
	Classify(posID uint16) WordClass
}

// TableClassifier is a map-backed Classifier. Unlisted identifiers
// classify as ContentWord, the safe default for unknown words.
type TableClassifier struct {
	classes map[uint16]WordClass
}

// NewTableClassifier builds a classifier from raw class codes, as
// stored in a dictionary bundle.
func NewTableClassifier(classes map[uint16]uint8) *TableClassifier {
	t := &TableClassifier{classes: make(map[uint16]WordClass, len(classes))}
	for pos, code := range classes {
		if code <= uint8(InflectableContentWord) {
			t.classes[pos] = WordClass(code)
		}
	}
	return t
}

// Classify returns the word class registered for posID
func (t *TableClassifier) Classify(posID uint16) WordClass {
	if c, ok := t.classes[posID]; ok {
		return c
	}
	return ContentWord
}

// MatrixConnector is a dense bigram transition cost matrix indexed by
// (right identifier of the left morpheme, left identifier of the right
// morpheme). Identifiers outside the matrix fall back to the default.
type MatrixConnector struct {
	size        int
	costs       []int16
	defaultCost int16
}

// NewMatrixConnector allocates a size×size matrix filled with defaultCost.
func NewMatrixConnector(size int, defaultCost int16) *MatrixConnector {
	costs := make([]int16, size*size)
	for i := range costs {
		costs[i] = defaultCost
	}
	return &MatrixConnector{size: size, costs: costs, defaultCost: defaultCost}
}

// Set records the transition cost for one identifier pair
func (m *MatrixConnector) Set(rightID, leftID uint16, cost int16) {
	if int(rightID) < m.size && int(leftID) < m.size {
		m.costs[int(rightID)*m.size+int(leftID)] = cost
	}
}

// TransitionCost implements lattice.Connector
func (m *MatrixConnector) TransitionCost(rightID, leftID uint16) int32 {
	if int(rightID) >= m.size || int(leftID) >= m.size {
		return int32(m.defaultCost)
	}
	return int32(m.costs[int(rightID)*m.size+int(leftID)])
}

// RuleSegmenter is the boundary legality oracle. By default a cut
// between two morphemes is a legal segment boundary; pairs registered
// as attaching (particle after noun, auxiliary after verb stem, する
// after a suru-noun) are not. On top of the rule table, IsLegalBoundary
// enforces the original user segmentation recorded in the group array.
type RuleSegmenter struct {
	attach map[uint32]struct{}
}

// NewRuleSegmenter registers attach pairs keyed by (right identifier of
// the left morpheme, left identifier of the right morpheme).
func NewRuleSegmenter(attachPairs [][2]uint16) *RuleSegmenter {
	s := &RuleSegmenter{attach: make(map[uint32]struct{}, len(attachPairs))}
	for _, p := range attachPairs {
		s.attach[pairKey(p[0], p[1])] = struct{}{}
	}
	return s
}

func pairKey(rightID, leftID uint16) uint32 {
	return uint32(rightID)<<16 | uint32(leftID)
}

// IsInnerBoundary reports whether the rule table places a segment
// boundary between two adjacent nodes, ignoring the user segmentation.
// Sentinel edges are always boundaries. Inner-segment decomposition is
// built on this.
func (s *RuleSegmenter) IsInnerBoundary(left, right *lattice.Node) bool {
	if left.IsBOS() || right.IsEOS() {
		return true
	}
	_, attached := s.attach[pairKey(left.RightID, right.LeftID)]
	return !attached
}

// IsLegalBoundary reports whether cutting between left and right is
// consistent with the original segmentation. Sentinel edges are always
// legal. When singleSegment is set the whole span is one logical
// segment and no internal cut is legal. Otherwise a cut must fall on an
// original segment boundary (a group change) and the rule table must
// agree.
func (s *RuleSegmenter) IsLegalBoundary(left, right *lattice.Node, group []uint16, singleSegment bool) bool {
	if left.IsBOS() || right.IsEOS() {
		return true
	}
	if singleSegment {
		return false
	}
	if left.End > 0 && right.Begin < len(group) && group[left.End-1] == group[right.Begin] {
		return false
	}
	return s.IsInnerBoundary(left, right)
}
