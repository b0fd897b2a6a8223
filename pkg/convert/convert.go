/*
Package convert orchestrates one conversion request end to end: it
stitches the user's segments into a reading, builds and annotates the
lattice, runs the N-best generator over the requested span and returns
the ranked, deduplicated candidate list.
*/
package convert

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"kanabest/pkg/dictionary"
	"kanabest/pkg/filter"
	"kanabest/pkg/grammar"
	"kanabest/pkg/lattice"
	"kanabest/pkg/nbest"
)

// SegmentType marks whether the user pinned a segment's span.
type SegmentType uint8

const (
	// SegmentFree spans may be re-segmented by the engine.
	SegmentFree SegmentType = iota
	// SegmentFixed spans keep the user's boundary.
	SegmentFixed
)

// Segment is one user-delimited span of the reading.
type Segment struct {
	Key  string
	Type SegmentType
}

// Request describes one conversion.
type Request struct {
	Segments      []Segment
	Type          nbest.RequestType
	Mode          nbest.BoundaryMode
	Limit         int
	SingleSegment bool
}

// DefaultLimit bounds a drain when the request does not.
const DefaultLimit = 10

// Converter holds the immutable collaborators shared by requests. Safe
// for concurrent use: each Convert call owns its lattice and generator.
type Converter struct {
	dict        *dictionary.Dictionary
	connector   lattice.Connector
	segmenter   nbest.Segmenter
	classifier  nbest.Classifier
	suppression nbest.SuppressionFilter
	suggestion  nbest.SuggestionFilter
}

// NewConverter wires a converter from explicit collaborators
func NewConverter(dict *dictionary.Dictionary, conn lattice.Connector, seg nbest.Segmenter,
	class nbest.Classifier, sup nbest.SuppressionFilter, sug nbest.SuggestionFilter) *Converter {
	return &Converter{
		dict:        dict,
		connector:   conn,
		segmenter:   seg,
		classifier:  class,
		suppression: sup,
		suggestion:  sug,
	}
}

// FromBundle builds a converter from a loaded dictionary bundle.
func FromBundle(bundle *dictionary.Bundle) *Converter {
	conn := grammar.NewMatrixConnector(connectorSize(bundle), bundle.ConnectionDefault)
	for _, c := range bundle.Connections {
		conn.Set(c.RightID, c.LeftID, c.Cost)
	}

	sup := filter.NewSuppression()
	for _, pair := range bundle.Suppressed {
		sup.Add(pair[0], pair[1])
	}
	sug := filter.NewBadSuggestion()
	for _, v := range bundle.BadSuggestions {
		sug.Add(v)
	}
	for _, p := range bundle.BadSuggestionPrefixes {
		sug.AddPrefix(p)
	}

	return NewConverter(
		dictionary.FromBundle(bundle),
		conn,
		grammar.NewRuleSegmenter(bundle.AttachPairs),
		grammar.NewTableClassifier(bundle.WordClasses),
		sup,
		sug,
	)
}

// connectorSize finds the smallest matrix covering every identifier the
// bundle mentions.
func connectorSize(bundle *dictionary.Bundle) int {
	max := uint16(0)
	for _, e := range bundle.Entries {
		if e.LeftID > max {
			max = e.LeftID
		}
		if e.RightID > max {
			max = e.RightID
		}
	}
	for _, c := range bundle.Connections {
		if c.RightID > max {
			max = c.RightID
		}
		if c.LeftID > max {
			max = c.LeftID
		}
	}
	return int(max) + 1
}

// Dictionary exposes the morpheme index backing this converter
func (c *Converter) Dictionary() *dictionary.Dictionary { return c.dict }

// MakeGroup maps every byte of the stitched reading to the index of the
// segment it came from.
func MakeGroup(segments []Segment) []uint16 {
	var group []uint16
	for i, s := range segments {
		for j := 0; j < len(s.Key); j++ {
			group = append(group, uint16(i))
		}
	}
	return group
}

// Convert runs one request over the whole reading span and returns up
// to Limit accepted candidates in non-decreasing cost order, first
// occurrence kept when values collide.
func (c *Converter) Convert(req Request) ([]*nbest.Candidate, error) {
	if len(req.Segments) == 0 {
		return nil, fmt.Errorf("convert: empty request")
	}
	var sb strings.Builder
	for _, s := range req.Segments {
		sb.WriteString(s.Key)
	}
	key := sb.String()

	lat, err := lattice.Build(key, c.dict)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	if err := lat.Annotate(c.connector); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	group := MakeGroup(req.Segments)
	gen, err := nbest.NewGenerator(nbest.Config{
		Lattice:       lat,
		Connector:     c.connector,
		Segmenter:     c.segmenter,
		Classifier:    c.classifier,
		Suppression:   c.suppression,
		Suggestion:    c.suggestion,
		Group:         group,
		SingleSegment: req.SingleSegment,
	})
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	gen.Reset(lat.BOS(), lat.EOS(), req.Mode)
	seen := make(map[string]struct{}, limit)
	var out []*nbest.Candidate
	for len(out) < limit {
		cand := gen.Next(key, req.Type)
		if cand == nil {
			break
		}
		// Homophone routes can collapse to one surface form; keep the
		// cheapest occurrence only.
		if _, dup := seen[cand.Value]; dup {
			continue
		}
		seen[cand.Value] = struct{}{}
		out = append(out, cand)
	}

	log.Debugf("convert: %q -> %d candidates (mode %s, type %s)", key, len(out), req.Mode, req.Type)
	return out, nil
}

// ParseSegments splits a CLI reading on '|' into segments; every
// delimited span except the last is treated as fixed.
func ParseSegments(input string) []Segment {
	parts := strings.Split(input, "|")
	var segs []Segment
	for i, p := range parts {
		if p == "" {
			continue
		}
		t := SegmentFree
		if len(parts) > 1 && i < len(parts)-1 {
			t = SegmentFixed
		}
		segs = append(segs, Segment{Key: p, Type: t})
	}
	return segs
}
