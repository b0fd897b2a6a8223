/*
Package nbest enumerates ranked whole-phrase conversion candidates
between two lattice boundary nodes.

The generator runs a best-first search over the Viterbi-annotated
lattice: an agenda of partial paths grows from the end node toward the
begin node, ordered by the exact cost of each path's best completion:
the suffix cost accumulated so far plus the transition into the
frontier node and that node's forward Viterbi cost. Complete paths
therefore surface in non-decreasing total cost.
Each completed path must pass the boundary-mode legality checks and the
surface filters before it is emitted; rejected paths are discarded
silently and the search resumes. The first completed path of an epoch
is the Viterbi-best route, already validated by the lattice producer,
and is exempt from the boundary checks.

A generator is resettable: Reset fixes a new span and boundary mode and
discards all prior search state. One generator must not be shared
between goroutines, but any number of generators may search the same
lattice concurrently.
*/
package nbest

import (
	"container/heap"
	"fmt"

	"github.com/charmbracelet/log"

	"kanabest/pkg/grammar"
	"kanabest/pkg/lattice"
)

// Segmenter is the boundary legality oracle the generator consults.
// Satisfied by grammar.RuleSegmenter.
type Segmenter interface {
	IsLegalBoundary(left, right *lattice.Node, group []uint16, singleSegment bool) bool
	IsInnerBoundary(left, right *lattice.Node) bool
}

// Classifier maps part-of-speech identifiers to word classes.
// Satisfied by grammar.TableClassifier.
type Classifier interface {
	Classify(posID uint16) grammar.WordClass
}

// SuppressionFilter rejects reading/value pairs the user blacklisted.
type SuppressionFilter interface {
	IsSuppressed(key, value string) bool
}

// SuggestionFilter rejects values unfit for predictive requests.
type SuggestionFilter interface {
	IsBadSuggestion(value string) bool
}

// Config wires a generator's collaborators. All references are borrowed:
// the caller guarantees they outlive the generator. Nil filters disable
// the corresponding check; everything else is required.
type Config struct {
	Lattice       *lattice.Lattice
	Connector     lattice.Connector
	Segmenter     Segmenter
	Classifier    Classifier
	Suppression   SuppressionFilter
	Suggestion    SuggestionFilter
	Group         []uint16
	SingleSegment bool
}

type searchState uint8

const (
	stateIdle searchState = iota
	stateSearching
	stateExhausted
)

// Generator is the resettable N-best search. Zero value is unusable;
// construct with NewGenerator.
type Generator struct {
	lat           *lattice.Lattice
	connector     lattice.Connector
	segmenter     Segmenter
	classifier    Classifier
	suppression   SuppressionFilter
	suggestion    SuggestionFilter
	group         []uint16
	singleSegment bool

	state  searchState
	mode   BoundaryMode
	begin  *lattice.Node
	end    *lattice.Node
	agenda pathHeap
	// topSeen flips after the first path of an epoch completes; only
	// that first path skips the boundary-mode checks.
	topSeen bool
}

// NewGenerator validates the wiring and returns a generator in the idle
// state. The lattice must already be annotated.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Lattice == nil {
		return nil, fmt.Errorf("nbest: nil lattice")
	}
	if !cfg.Lattice.Annotated() {
		return nil, fmt.Errorf("nbest: lattice is not annotated")
	}
	if cfg.Connector == nil || cfg.Segmenter == nil || cfg.Classifier == nil {
		return nil, fmt.Errorf("nbest: missing grammar collaborators")
	}
	return &Generator{
		lat:           cfg.Lattice,
		connector:     cfg.Connector,
		segmenter:     cfg.Segmenter,
		classifier:    cfg.Classifier,
		suppression:   cfg.Suppression,
		suggestion:    cfg.Suggestion,
		group:         cfg.Group,
		singleSegment: cfg.SingleSegment,
		state:         stateIdle,
	}, nil
}

// Reset begins a new drain epoch over the span [begin, end), discarding
// any prior search state. begin and end must be nodes of the
// generator's lattice with begin preceding end; violating that is a
// caller bug and panics.
func (g *Generator) Reset(begin, end *lattice.Node, mode BoundaryMode) {
	if begin == nil || end == nil {
		panic("nbest: Reset with nil span node")
	}
	if mode > OnlyEdge {
		panic(fmt.Sprintf("nbest: Reset with undefined boundary mode %d", mode))
	}
	if begin.End > end.Begin || begin.ID == end.ID {
		panic(fmt.Sprintf("nbest: Reset with disconnected span [%d, %d)", begin.End, end.Begin))
	}

	g.begin = begin
	g.end = end
	g.mode = mode
	g.topSeen = false
	g.agenda = g.agenda[:0]
	heap.Push(&g.agenda, &pathElement{
		node: end,
		gx:   0,
		fx:   end.CostFromStart,
	})
	g.state = stateSearching
	log.Debugf("nbest reset: span [%d, %d), mode %s", begin.End, end.Begin, mode)
}

// Next drains the next-best accepted candidate for key under the given
// request type, or nil when the epoch is exhausted. Exhaustion is the
// expected terminal condition of iteration, not an error.
func (g *Generator) Next(key string, requestType RequestType) *Candidate {
	if g.state != stateSearching {
		return nil
	}

	for g.agenda.Len() > 0 {
		top := heap.Pop(&g.agenda).(*pathElement)
		if top.node.ID == g.begin.ID {
			if cand := g.accept(top, requestType); cand != nil {
				return cand
			}
			continue
		}
		g.expand(top)
	}

	g.state = stateExhausted
	log.Debugf("nbest exhausted: span [%d, %d), mode %s", g.begin.End, g.end.Begin, g.mode)
	return nil
}

// Exhausted reports whether the current epoch has no further candidates
func (g *Generator) Exhausted() bool { return g.state == stateExhausted }

// expand pushes every in-span predecessor of the element's node. gx
// accumulates the transition into the popped node plus the
// predecessor's own word cost (the span's begin node contributes no
// word cost; it lies outside the candidate). fx adds the predecessor's
// forward Viterbi cost to the suffix cost instead, so the word cost is
// counted exactly once: CostFromStart already includes it.
func (g *Generator) expand(e *pathElement) {
	n := e.node
	for _, pid := range g.lat.EndsAt(n.Begin) {
		p := g.lat.Node(pid)
		if p.ID != g.begin.ID && p.Begin < g.begin.End {
			continue
		}
		transition := g.connector.TransitionCost(p.RightID, n.LeftID)
		gx := e.gx + transition
		if p.ID != g.begin.ID {
			gx += p.WordCost
		}
		heap.Push(&g.agenda, &pathElement{
			node: p,
			next: e,
			gx:   gx,
			fx:   e.gx + transition + p.CostFromStart,
		})
	}
}

// accept runs a completed path through the boundary-mode checks and the
// surface filters, returning the finished candidate or nil on
// rejection.
func (g *Generator) accept(e *pathElement, requestType RequestType) *Candidate {
	nodes := g.pathNodes(e)
	if len(nodes) == 0 {
		return nil
	}

	exempt := !g.topSeen
	g.topSeen = true
	if !exempt && !g.checkBoundaries(nodes) {
		return nil
	}

	var key, value string
	for _, n := range nodes {
		key += n.Key
		value += n.Value
	}
	if g.suppression != nil && g.suppression.IsSuppressed(key, value) {
		log.Debugf("nbest: suppressed candidate %q", value)
		return nil
	}
	if requestType != Conversion && g.suggestion != nil && g.suggestion.IsBadSuggestion(value) {
		log.Debugf("nbest: bad suggestion %q", value)
		return nil
	}

	return &Candidate{
		Key:      key,
		Value:    value,
		Cost:     e.gx,
		segments: g.decompose(nodes),
	}
}

// pathNodes collects the interior nodes of a completed path, begin to
// end exclusive, in reading order.
func (g *Generator) pathNodes(e *pathElement) []*lattice.Node {
	var nodes []*lattice.Node
	for el := e.next; el != nil && el.node.ID != g.end.ID; el = el.next {
		nodes = append(nodes, el.node)
	}
	return nodes
}

// checkBoundaries applies the mode's legality table to every required
// cut point of the path.
func (g *Generator) checkBoundaries(nodes []*lattice.Node) bool {
	if g.mode == Strict || g.mode == OnlyMid {
		for i := 0; i+1 < len(nodes); i++ {
			if !g.segmenter.IsLegalBoundary(nodes[i], nodes[i+1], g.group, g.singleSegment) {
				return false
			}
		}
	}
	if g.mode == Strict || g.mode == OnlyEdge {
		if !g.segmenter.IsLegalBoundary(g.begin, nodes[0], g.group, g.singleSegment) {
			return false
		}
		if !g.segmenter.IsLegalBoundary(nodes[len(nodes)-1], g.end, g.group, g.singleSegment) {
			return false
		}
	}
	return true
}

// pathElement is one agenda entry: a node plus the chain of elements
// toward the span's end node. gx is the exact accumulated cost from the
// end node back to (and including) this node. fx is the exact cost of
// the best whole-span path through this element: the suffix cost beyond
// the node plus the transition into it and its forward Viterbi cost,
// which already includes the node's own word cost.
type pathElement struct {
	node *lattice.Node
	next *pathElement
	gx   int32
	fx   int32
}

// pathHeap orders the agenda by fx; equal-cost entries order by the
// most recently expanded node's ID, which fixes a deterministic tie
// order across runs.
type pathHeap []*pathElement

func (h pathHeap) Len() int { return len(h) }

func (h pathHeap) Less(i, j int) bool {
	if h[i].fx != h[j].fx {
		return h[i].fx < h[j].fx
	}
	return h[i].node.ID < h[j].node.ID
}

func (h pathHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pathHeap) Push(x any) { *h = append(*h, x.(*pathElement)) }

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	el := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return el
}
