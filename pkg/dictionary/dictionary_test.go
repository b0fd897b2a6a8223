package dictionary_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanabest/pkg/dictionary"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func sampleEntries() []dictionary.Entry {
	return []dictionary.Entry{
		{Key: "しんこう", Value: "進行", Cost: 300, LeftID: 2, RightID: 2, PosID: 2},
		{Key: "しんこう", Value: "信仰", Cost: 400, LeftID: 2, RightID: 2, PosID: 2},
		{Key: "しん", Value: "芯", Cost: 350, LeftID: 1, RightID: 1, PosID: 1},
		{Key: "する", Value: "する", Cost: 100, LeftID: 3, RightID: 3, PosID: 3},
	}
}

func TestAddAndLookup(t *testing.T) {
	d := dictionary.New()
	for _, e := range sampleEntries() {
		d.Add(e)
	}
	assert.Equal(t, 4, d.Len())

	// Homophones share one reading.
	got := d.Lookup("しんこう")
	require.Len(t, got, 2)
	assert.Equal(t, "進行", got[0].Value)
	assert.Equal(t, "信仰", got[1].Value)

	assert.Nil(t, d.Lookup("しんこうする"))
	assert.Nil(t, d.Lookup(""))
}

func TestCommonPrefixSearch(t *testing.T) {
	d := dictionary.New()
	for _, e := range sampleEntries() {
		d.Add(e)
	}

	var values []string
	for _, e := range d.CommonPrefixSearch("しんこうする") {
		values = append(values, e.Value)
	}
	// Every entry whose reading prefixes the query, shortest first.
	assert.Equal(t, []string{"芯", "進行", "信仰"}, values)

	assert.Empty(t, d.CommonPrefixSearch("なかの"))
}

func TestBundleRoundTrip(t *testing.T) {
	bundle := &dictionary.Bundle{
		Entries:           sampleEntries(),
		ConnectionDefault: 120,
		Connections: []dictionary.ConnectionCost{
			{RightID: 2, LeftID: 3, Cost: -50},
		},
		WordClasses:           map[uint16]uint8{1: 0, 3: 1},
		AttachPairs:           [][2]uint16{{2, 3}},
		Suppressed:            [][2]string{{"しんこう", "信仰"}},
		BadSuggestions:        []string{"芯"},
		BadSuggestionPrefixes: []string{"進"},
	}

	path := filepath.Join(t.TempDir(), "dictionary.bin")
	require.NoError(t, dictionary.SaveBundle(path, bundle))

	loaded, err := dictionary.LoadBundle(path)
	require.NoError(t, err)
	assert.Equal(t, bundle.Entries, loaded.Entries)
	assert.Equal(t, bundle.ConnectionDefault, loaded.ConnectionDefault)
	assert.Equal(t, bundle.Connections, loaded.Connections)
	assert.Equal(t, bundle.WordClasses, loaded.WordClasses)
	assert.Equal(t, bundle.AttachPairs, loaded.AttachPairs)
	assert.Equal(t, bundle.Suppressed, loaded.Suppressed)
	assert.Equal(t, bundle.BadSuggestions, loaded.BadSuggestions)
	assert.Equal(t, bundle.BadSuggestionPrefixes, loaded.BadSuggestionPrefixes)

	d := dictionary.FromBundle(loaded)
	assert.Equal(t, len(bundle.Entries), d.Len())
	assert.Len(t, d.Lookup("しんこう"), 2)
}

func TestLoadBundleMissingFile(t *testing.T) {
	_, err := dictionary.LoadBundle(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}

func TestValidateFileFormat(t *testing.T) {
	dir := t.TempDir()

	badExt := filepath.Join(dir, "dictionary.dat")
	require.NoError(t, os.WriteFile(badExt, []byte("xxxxxxxx"), 0o644))
	assert.Error(t, dictionary.ValidateFileFormat(badExt, dictionary.FormatBundle))

	tooSmall := filepath.Join(dir, "dictionary.bin")
	require.NoError(t, os.WriteFile(tooSmall, []byte("x"), 0o644))
	assert.Error(t, dictionary.ValidateFileFormat(tooSmall, dictionary.FormatBundle))

	ok := filepath.Join(dir, "entries.tsv")
	require.NoError(t, os.WriteFile(ok, []byte("#\n"), 0o644))
	assert.NoError(t, dictionary.ValidateFileFormat(ok, dictionary.FormatText))

	assert.Error(t, dictionary.ValidateFileFormat(ok, dictionary.FormatUnknown))
}

func TestLoadTextEntries(t *testing.T) {
	src := "# comment line\n" +
		"\n" +
		"しんこう\t進行\t300\t2\t2\t2\n" +
		"malformed line without tabs\n" +
		"する\tする\tabc\t3\t3\t3\n" +
		"する\tする\t100\t3\t3\t3\n"

	path := filepath.Join(t.TempDir(), "entries.tsv")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	entries, err := dictionary.LoadTextEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, dictionary.Entry{Key: "しんこう", Value: "進行", Cost: 300, LeftID: 2, RightID: 2, PosID: 2}, entries[0])
	assert.Equal(t, dictionary.Entry{Key: "する", Value: "する", Cost: 100, LeftID: 3, RightID: 3, PosID: 3}, entries[1])
}
