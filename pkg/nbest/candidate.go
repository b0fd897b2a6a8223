package nbest

// InnerSegment describes one sub-span of a candidate, as byte lengths
// into the candidate's key and value. The content lengths cover the
// leading content unit of the sub-span; they never exceed the full
// lengths.
type InnerSegment struct {
	KeyLen          int
	ValueLen        int
	ContentKeyLen   int
	ContentValueLen int
}

// Candidate is one accepted conversion for a span, immutable once
// emitted. The generator keeps no reference to it.
type Candidate struct {
	Key   string
	Value string
	Cost  int32

	segments []InnerSegment
}

// InnerSegmentCount returns the number of sub-segments
func (c *Candidate) InnerSegmentCount() int { return len(c.segments) }

// InnerSegments returns a fresh forward-only iterator over the
// candidate's sub-segments. Call again to restart.
func (c *Candidate) InnerSegments() *InnerSegmentIterator {
	return &InnerSegmentIterator{cand: c, index: -1}
}

// InnerSegmentIterator yields each sub-segment's key, value,
// content-key and content-value in order. Usage:
//
//	for it := cand.InnerSegments(); it.Next(); {
//	    _ = it.Key()
//	}
type InnerSegmentIterator struct {
	cand     *Candidate
	index    int
	keyOff   int
	valueOff int
}

// Next advances to the following sub-segment, returning false after the
// last one. It never wraps around.
func (it *InnerSegmentIterator) Next() bool {
	if it.index >= 0 && it.index < len(it.cand.segments) {
		seg := it.cand.segments[it.index]
		it.keyOff += seg.KeyLen
		it.valueOff += seg.ValueLen
	}
	it.index++
	return it.index < len(it.cand.segments)
}

func (it *InnerSegmentIterator) cur() InnerSegment {
	return it.cand.segments[it.index]
}

// Key returns the current sub-segment's reading
func (it *InnerSegmentIterator) Key() string {
	return it.cand.Key[it.keyOff : it.keyOff+it.cur().KeyLen]
}

// Value returns the current sub-segment's written form
func (it *InnerSegmentIterator) Value() string {
	return it.cand.Value[it.valueOff : it.valueOff+it.cur().ValueLen]
}

// ContentKey returns the reading of the sub-segment's content unit
func (it *InnerSegmentIterator) ContentKey() string {
	return it.cand.Key[it.keyOff : it.keyOff+it.cur().ContentKeyLen]
}

// ContentValue returns the written form of the sub-segment's content unit
func (it *InnerSegmentIterator) ContentValue() string {
	return it.cand.Value[it.valueOff : it.valueOff+it.cur().ContentValueLen]
}
