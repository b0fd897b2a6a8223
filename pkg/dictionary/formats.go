package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatBundle             // msgpack bundle (entries + grammar + filters)
	FormatText               // tab-separated source format
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatBundle: {
		Format:      FormatBundle,
		Description: "Msgpack Dictionary Bundle",
		Extensions:  []string{".bin"},
		MinSize:     4, // smallest possible msgpack map header + one field
	},
	FormatText: {
		Format:      FormatText,
		Description: "Tab-Separated Dictionary Source",
		Extensions:  []string{".tsv", ".txt"},
		MinSize:     1,
	},
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	log.Debugf("File %s validated as %s", filename, formatInfo.Description)
	return nil
}
