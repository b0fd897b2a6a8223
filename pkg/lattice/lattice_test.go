package lattice_test

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanabest/pkg/dictionary"
	"kanabest/pkg/grammar"
	"kanabest/pkg/lattice"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func testDictionary() *dictionary.Dictionary {
	d := dictionary.New()
	for _, e := range []dictionary.Entry{
		{Key: "しんこう", Value: "進行", Cost: 300, LeftID: 2, RightID: 2, PosID: 2},
		{Key: "しんこう", Value: "信仰", Cost: 400, LeftID: 2, RightID: 2, PosID: 2},
		{Key: "する", Value: "する", Cost: 100, LeftID: 3, RightID: 3, PosID: 3},
		{Key: "す", Value: "巣", Cost: 600, LeftID: 1, RightID: 1, PosID: 1},
	} {
		d.Add(e)
	}
	return d
}

func flatConnector() *grammar.MatrixConnector {
	return grammar.NewMatrixConnector(8, 0)
}

func TestNewRejectsEmptyKey(t *testing.T) {
	_, err := lattice.New("")
	assert.ErrorIs(t, err, lattice.ErrEmptyKey)
}

func TestSentinels(t *testing.T) {
	l, err := lattice.New("する")
	require.NoError(t, err)

	bos, eos := l.BOS(), l.EOS()
	assert.True(t, bos.IsBOS())
	assert.True(t, eos.IsEOS())
	assert.Equal(t, 0, bos.End)
	assert.Equal(t, len("する"), eos.Begin)
	assert.Contains(t, l.EndsAt(0), bos.ID)
	assert.Contains(t, l.StartsAt(len("する")), eos.ID)
}

func TestBuildCoversReading(t *testing.T) {
	key := "しんこうする"
	l, err := lattice.Build(key, testDictionary())
	require.NoError(t, err)

	// Dictionary nodes at position 0 and 12, unknown single-rune nodes
	// where no entry begins.
	require.Len(t, l.StartsAt(0), 2)
	for _, id := range l.StartsAt(0) {
		assert.Equal(t, "しんこう", l.Node(id).Key)
	}

	// する and 巣 both begin at the す position.
	var values []string
	for _, id := range l.StartsAt(12) {
		values = append(values, l.Node(id).Value)
	}
	assert.ElementsMatch(t, []string{"する", "巣"}, values)

	// ん has no dictionary entry: a synthesized node spans just it.
	require.Len(t, l.StartsAt(3), 1)
	unk := l.Node(l.StartsAt(3)[0])
	assert.Equal(t, "ん", unk.Key)
	assert.Equal(t, "ん", unk.Value)
	assert.Equal(t, uint16(0), unk.LeftID)
}

func TestAnnotateExactCosts(t *testing.T) {
	key := "しんこうする"
	l, err := lattice.Build(key, testDictionary())
	require.NoError(t, err)
	require.False(t, l.Annotated())

	require.NoError(t, l.Annotate(flatConnector()))
	require.True(t, l.Annotated())

	// Best path BOS → 進行(300) → する(100) → EOS.
	assert.Equal(t, int32(400), l.EOS().CostFromStart)
	assert.Equal(t, int32(400), l.BOS().CostToEnd)

	next := l.Node(l.BOS().BestNext)
	assert.Equal(t, "進行", next.Value)
	assert.Equal(t, int32(300), next.CostFromStart)
	assert.Equal(t, int32(100), next.CostToEnd)

	next = l.Node(next.BestNext)
	assert.Equal(t, "する", next.Value)
	assert.Equal(t, int32(400), next.CostFromStart)

	assert.True(t, l.Node(next.BestNext).IsEOS())
}

func TestAnnotateTransitionCosts(t *testing.T) {
	key := "しんこうする"
	l, err := lattice.Build(key, testDictionary())
	require.NoError(t, err)

	// Penalize the (suru-noun, する) transition; the best route absorbs it.
	conn := grammar.NewMatrixConnector(8, 0)
	conn.Set(2, 3, 250)
	require.NoError(t, l.Annotate(conn))

	assert.Equal(t, int32(650), l.EOS().CostFromStart)
}

func TestAnnotateNoPath(t *testing.T) {
	l, err := lattice.New("する")
	require.NoError(t, err)
	// Only a node over the first rune: nothing reaches EOS.
	l.Insert(0, 3, "す", "巣", 600, 1, 1, 1)

	assert.ErrorIs(t, l.Annotate(flatConnector()), lattice.ErrNoPath)
}

func TestInsertPanics(t *testing.T) {
	l, err := lattice.Build("する", testDictionary())
	require.NoError(t, err)

	assert.Panics(t, func() { l.Insert(0, 9, "する", "する", 0, 0, 0, 0) })
	assert.Panics(t, func() { l.Insert(3, 3, "", "", 0, 0, 0, 0) })

	require.NoError(t, l.Annotate(flatConnector()))
	assert.Panics(t, func() { l.Insert(0, 3, "す", "す", 0, 0, 0, 0) })
}

func TestNeighbors(t *testing.T) {
	l, err := lattice.Build("しんこうする", testDictionary())
	require.NoError(t, err)

	first := l.Node(l.StartsAt(0)[0])
	succ := l.Successors(first)
	require.Len(t, succ, 2)
	pred := l.Predecessors(first)
	require.Len(t, pred, 1)
	assert.True(t, l.Node(pred[0]).IsBOS())

	assert.Nil(t, l.Successors(l.EOS()))
	assert.Nil(t, l.Predecessors(l.BOS()))
}

func TestSegmentEndNode(t *testing.T) {
	key := "しんこうする"
	l, err := lattice.Build(key, testDictionary())
	require.NoError(t, err)

	group := make([]uint16, len(key))
	for i := len("しんこう"); i < len(key); i++ {
		group[i] = 1
	}

	// Before annotation there is no best chain to walk.
	assert.True(t, l.SegmentEndNode(group).IsEOS())

	require.NoError(t, l.Annotate(flatConnector()))
	end := l.SegmentEndNode(group)
	assert.Equal(t, "する", end.Key)
	assert.Equal(t, len("しんこう"), end.Begin)

	// A single-segment group never cuts the chain.
	assert.True(t, l.SegmentEndNode(make([]uint16, len(key))).IsEOS())

	// A short group array cannot index the key and is ignored.
	assert.True(t, l.SegmentEndNode(nil).IsEOS())
}
