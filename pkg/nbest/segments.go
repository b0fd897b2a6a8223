package nbest

import (
	"kanabest/pkg/grammar"
	"kanabest/pkg/lattice"
)

// decompose splits an accepted path into inner segments. A new
// sub-segment opens when the group array says the node crosses into a
// different original segment, or when the boundary oracle's rule table
// places a grammar boundary between the nodes.
//
// Within a sub-segment the content unit is its leading span: content
// words extend it; a plain functional word closes it; functional words
// directly following an inflectable content word are inflectional
// suffixes and extend the content unit instead of closing it, so an
// inflecting stem plus its auxiliaries reads as one content unit.
func (g *Generator) decompose(nodes []*lattice.Node) []InnerSegment {
	segments := make([]InnerSegment, 0, 4)
	var cur InnerSegment
	contentOpen := true
	absorbing := false

	for i, n := range nodes {
		if i > 0 && g.isSegmentBreak(nodes[i-1], n) {
			segments = append(segments, closeSegment(cur))
			cur = InnerSegment{}
			contentOpen = true
			absorbing = false
		}

		cur.KeyLen += len(n.Key)
		cur.ValueLen += len(n.Value)

		if !contentOpen {
			continue
		}
		switch g.classifier.Classify(n.PosID) {
		case grammar.ContentWord:
			cur.ContentKeyLen += len(n.Key)
			cur.ContentValueLen += len(n.Value)
			absorbing = false
		case grammar.InflectableContentWord:
			cur.ContentKeyLen += len(n.Key)
			cur.ContentValueLen += len(n.Value)
			absorbing = true
		case grammar.FunctionalWord:
			if absorbing {
				cur.ContentKeyLen += len(n.Key)
				cur.ContentValueLen += len(n.Value)
			} else {
				contentOpen = false
			}
		}
	}
	return append(segments, closeSegment(cur))
}

// closeSegment finalizes a sub-segment. A segment with no content word
// (a lone particle or auxiliary run) counts as its own content unit.
func closeSegment(s InnerSegment) InnerSegment {
	if s.ContentKeyLen == 0 {
		s.ContentKeyLen = s.KeyLen
		s.ContentValueLen = s.ValueLen
	}
	return s
}

// isSegmentBreak reports whether a sub-segment boundary opens between
// two adjacent path nodes.
func (g *Generator) isSegmentBreak(prev, n *lattice.Node) bool {
	if g.groupChanged(prev, n) {
		return true
	}
	return g.segmenter.IsInnerBoundary(prev, n)
}

// groupChanged reports whether the cut between prev and n falls on an
// original user segment boundary.
func (g *Generator) groupChanged(prev, n *lattice.Node) bool {
	if prev.End == 0 || n.Begin >= len(g.group) {
		return false
	}
	return g.group[prev.End-1] != g.group[n.Begin]
}
