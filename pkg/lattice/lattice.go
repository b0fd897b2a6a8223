/*
Package lattice models the morpheme hypothesis graph a conversion
request is searched over.

A lattice is an arena of nodes addressed by dense integer IDs, indexed
by the byte positions where each node's reading begins and ends, with a
begin-of-string and end-of-string sentinel. After construction the
Viterbi pass annotates every node with its exact forward and backward
best-path costs and threads the best-path chain; the N-best generator
consumes those annotations read-only.
*/
package lattice

import "errors"

var (
	// ErrEmptyKey is returned when a lattice is requested for an empty reading.
	ErrEmptyKey = errors.New("lattice: empty key")
	// ErrNoPath is returned by Annotate when no path connects BOS to EOS.
	ErrNoPath = errors.New("lattice: no complete path from BOS to EOS")
)

// infCost marks nodes unreachable during annotation. Kept well below
// MaxInt32 so cost sums never overflow.
const infCost int32 = 1 << 29

// NodeID indexes a node inside its lattice's arena.
type NodeID int32

// Nil is the absent-node marker, used for unthreaded best-path links.
const Nil NodeID = -1

// NodeKind discriminates sentinels from dictionary nodes.
type NodeKind uint8

const (
	NodeNormal NodeKind = iota
	NodeBOS
	NodeEOS
)

// Node is one morpheme occurrence. Begin/End are byte offsets into the
// lattice key; CostFromStart/CostToEnd are the exact Viterbi
// annotations filled in by Annotate.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Begin    int
	End      int
	Key      string
	Value    string
	WordCost int32
	LeftID   uint16
	RightID  uint16
	PosID    uint16

	CostFromStart int32
	CostToEnd     int32
	BestNext      NodeID
}

// IsBOS reports whether the node is the begin-of-string sentinel
func (n *Node) IsBOS() bool { return n.Kind == NodeBOS }

// IsEOS reports whether the node is the end-of-string sentinel
func (n *Node) IsEOS() bool { return n.Kind == NodeEOS }

// Connector supplies bigram transition costs between adjacent morphemes'
// grammatical classes. Satisfied by grammar.MatrixConnector.
type Connector interface {
	TransitionCost(rightID, leftID uint16) int32
}

// Lattice owns the node arena for one conversion request. It is
// read-only after Annotate; any number of generators may search it
// concurrently.
type Lattice struct {
	key       string
	nodes     []Node
	starts    [][]NodeID // starts[pos]: nodes whose reading begins at byte pos
	ends      [][]NodeID // ends[pos]: nodes whose reading ends at byte pos
	bos, eos  NodeID
	annotated bool
}

// New creates a lattice for the given reading with BOS/EOS sentinels in place.
func New(key string) (*Lattice, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	l := &Lattice{
		key:    key,
		starts: make([][]NodeID, len(key)+1),
		ends:   make([][]NodeID, len(key)+1),
	}
	l.bos = l.insert(Node{Kind: NodeBOS, Begin: 0, End: 0, CostToEnd: infCost, BestNext: Nil})
	l.eos = l.insert(Node{Kind: NodeEOS, Begin: len(key), End: len(key), CostFromStart: infCost, BestNext: Nil})
	return l, nil
}

// insert places a node in the arena and position indices. BOS is only
// indexed as an end (it precedes position 0), EOS only as a start.
func (l *Lattice) insert(n Node) NodeID {
	id := NodeID(len(l.nodes))
	n.ID = id
	l.nodes = append(l.nodes, n)
	switch n.Kind {
	case NodeBOS:
		l.ends[0] = append(l.ends[0], id)
	case NodeEOS:
		l.starts[len(l.key)] = append(l.starts[len(l.key)], id)
	default:
		l.starts[n.Begin] = append(l.starts[n.Begin], id)
		l.ends[n.End] = append(l.ends[n.End], id)
	}
	return id
}

// Insert adds a dictionary node spanning [begin, end) of the key.
// Viterbi fields are initialized to unreachable; call Annotate after
// all inserts. Inserting into an annotated lattice is a caller bug.
func (l *Lattice) Insert(begin, end int, key, value string, wordCost int32, leftID, rightID, posID uint16) *Node {
	if l.annotated {
		panic("lattice: Insert after Annotate")
	}
	if begin < 0 || end > len(l.key) || begin >= end {
		panic("lattice: Insert span out of range")
	}
	id := l.insert(Node{
		Kind:          NodeNormal,
		Begin:         begin,
		End:           end,
		Key:           key,
		Value:         value,
		WordCost:      wordCost,
		LeftID:        leftID,
		RightID:       rightID,
		PosID:         posID,
		CostFromStart: infCost,
		CostToEnd:     infCost,
		BestNext:      Nil,
	})
	return &l.nodes[id]
}

// Key returns the reading this lattice spans
func (l *Lattice) Key() string { return l.key }

// BOS returns the begin-of-string sentinel
func (l *Lattice) BOS() *Node { return &l.nodes[l.bos] }

// EOS returns the end-of-string sentinel
func (l *Lattice) EOS() *Node { return &l.nodes[l.eos] }

// Node resolves an ID to its node. IDs are only valid for this lattice.
func (l *Lattice) Node(id NodeID) *Node { return &l.nodes[id] }

// Len returns the number of nodes in the arena, sentinels included
func (l *Lattice) Len() int { return len(l.nodes) }

// StartsAt returns the nodes whose reading begins at byte pos
func (l *Lattice) StartsAt(pos int) []NodeID { return l.starts[pos] }

// EndsAt returns the nodes whose reading ends at byte pos
func (l *Lattice) EndsAt(pos int) []NodeID { return l.ends[pos] }

// Successors returns the nodes adjacent to n on its right
func (l *Lattice) Successors(n *Node) []NodeID {
	if n.IsEOS() {
		return nil
	}
	return l.starts[n.End]
}

// Predecessors returns the nodes adjacent to n on its left
func (l *Lattice) Predecessors(n *Node) []NodeID {
	if n.IsBOS() {
		return nil
	}
	return l.ends[n.Begin]
}

// Annotated reports whether the Viterbi pass has run
func (l *Lattice) Annotated() bool { return l.annotated }

// SegmentEndNode walks the best path and returns the first node that
// begins inside a later original segment than the path's first node,
// or EOS when the whole span belongs to one segment. This is the end
// bound a caller hands to the generator when converting the first
// user segment. The group slice must map every key byte to its
// segment index.
func (l *Lattice) SegmentEndNode(group []uint16) *Node {
	if !l.annotated || len(group) < len(l.key) {
		return l.EOS()
	}
	first := group[0]
	for id := l.BOS().BestNext; id != Nil; {
		n := &l.nodes[id]
		if n.IsEOS() {
			return n
		}
		if group[n.Begin] != first {
			return n
		}
		id = n.BestNext
	}
	return l.EOS()
}
