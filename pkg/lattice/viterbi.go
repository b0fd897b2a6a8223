package lattice

import "github.com/charmbracelet/log"

// Annotate runs the forward and backward Viterbi passes, filling every
// node's CostFromStart and CostToEnd with exact shortest-path costs and
// threading the BestNext chain along the globally cheapest path.
// A node's cost includes its own word cost and the transition into it
// (forward) or out of it (backward). Returns ErrNoPath when EOS is
// unreachable from BOS.
func (l *Lattice) Annotate(conn Connector) error {
	l.BOS().CostFromStart = 0
	l.EOS().CostToEnd = 0

	// Forward: positions ascend, so every predecessor is final when a
	// node is relaxed.
	for pos := 0; pos <= len(l.key); pos++ {
		for _, id := range l.starts[pos] {
			n := &l.nodes[id]
			best := infCost
			for _, pid := range l.ends[pos] {
				p := &l.nodes[pid]
				if p.CostFromStart >= infCost {
					continue
				}
				cost := p.CostFromStart + conn.TransitionCost(p.RightID, n.LeftID) + n.WordCost
				if cost < best {
					best = cost
				}
			}
			n.CostFromStart = best
		}
	}

	if l.EOS().CostFromStart >= infCost {
		return ErrNoPath
	}

	// Backward mirror; BestNext records the argmin successor.
	for pos := len(l.key); pos >= 0; pos-- {
		for _, id := range l.ends[pos] {
			n := &l.nodes[id]
			best := infCost
			bestNext := Nil
			for _, sid := range l.starts[pos] {
				s := &l.nodes[sid]
				if s.CostToEnd >= infCost {
					continue
				}
				cost := conn.TransitionCost(n.RightID, s.LeftID) + s.WordCost + s.CostToEnd
				if cost < best {
					best = cost
					bestNext = sid
				}
			}
			n.CostToEnd = best
			n.BestNext = bestNext
		}
	}

	l.annotated = true
	log.Debugf("Lattice annotated: best path cost %d", l.EOS().CostFromStart)
	return nil
}
