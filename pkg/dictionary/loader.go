package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// maxEntryCountValidation guards against loading a corrupt bundle whose
// decoded entry count is implausible for a conversion dictionary.
const maxEntryCountValidation = 5000000

// ConnectionCost is one cell of the sparse transition cost matrix:
// the cost of connecting a morpheme with right identifier RightID to a
// following morpheme with left identifier LeftID.
type ConnectionCost struct {
	RightID uint16 `msgpack:"r"`
	LeftID  uint16 `msgpack:"l"`
	Cost    int16  `msgpack:"c"`
}

// Bundle is the on-disk dictionary format: morpheme entries plus the
// grammar tables and filter lists a converter needs. Word classes are
// stored as raw codes; pkg/grammar owns their meaning.
type Bundle struct {
	Entries               []Entry          `msgpack:"entries"`
	ConnectionDefault     int16            `msgpack:"conn_default"`
	Connections           []ConnectionCost `msgpack:"connections"`
	WordClasses           map[uint16]uint8 `msgpack:"word_classes"`
	AttachPairs           [][2]uint16      `msgpack:"attach_pairs"`
	Suppressed            [][2]string      `msgpack:"suppressed"`
	BadSuggestions        []string         `msgpack:"bad_suggestions"`
	BadSuggestionPrefixes []string         `msgpack:"bad_suggestion_prefixes"`
}

// LoadBundle reads and decodes a msgpack dictionary bundle
func LoadBundle(path string) (*Bundle, error) {
	if err := ValidateFileFormat(path, FormatBundle); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle %s: %w", path, err)
	}
	defer file.Close()

	var bundle Bundle
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle %s: %w", path, err)
	}

	if len(bundle.Entries) > maxEntryCountValidation {
		return nil, fmt.Errorf("suspicious entry count in %s: %d (too large)", path, len(bundle.Entries))
	}

	log.Debugf("Bundle %s loaded: %d entries, %d connection cells, %d word classes",
		path, len(bundle.Entries), len(bundle.Connections), len(bundle.WordClasses))
	return &bundle, nil
}

// SaveBundle encodes and writes a bundle to path
func SaveBundle(path string, bundle *Bundle) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bundle %s: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := msgpack.NewEncoder(writer).Encode(bundle); err != nil {
		return fmt.Errorf("failed to encode bundle %s: %w", path, err)
	}
	return writer.Flush()
}

// FromBundle builds a dictionary index from a loaded bundle
func FromBundle(bundle *Bundle) *Dictionary {
	d := New()
	for _, e := range bundle.Entries {
		d.Add(e)
	}
	return d
}

// LoadTextEntries parses the tab-separated source format:
//
//	key<TAB>value<TAB>cost<TAB>left_id<TAB>right_id<TAB>pos_id
//
// Blank lines and lines starting with '#' are skipped. Used by tooling
// that assembles bundles from human-maintained sources.
func LoadTextEntries(path string) ([]Entry, error) {
	if err := ValidateFileFormat(path, FormatText); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 6 {
			log.Warnf("Skipping malformed line %d in %s: %d fields", lineNo, path, len(fields))
			continue
		}
		cost, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			log.Warnf("Skipping line %d in %s: bad cost %q", lineNo, path, fields[2])
			continue
		}
		left, err1 := strconv.ParseUint(fields[3], 10, 16)
		right, err2 := strconv.ParseUint(fields[4], 10, 16)
		pos, err3 := strconv.ParseUint(fields[5], 10, 16)
		if err1 != nil || err2 != nil || err3 != nil {
			log.Warnf("Skipping line %d in %s: bad grammar ids", lineNo, path)
			continue
		}
		entries = append(entries, Entry{
			Key:     fields[0],
			Value:   fields[1],
			Cost:    int32(cost),
			LeftID:  uint16(left),
			RightID: uint16(right),
			PosID:   uint16(pos),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Debugf("Text source %s parsed: %d entries", path, len(entries))
	return entries, nil
}
