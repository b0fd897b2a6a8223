// Package cli handles cmd line input and conversion for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"kanabest/internal/utils"
	"kanabest/pkg/convert"
	"kanabest/pkg/nbest"
)

// InputHandler processes user input from stdin, running each reading
// through the converter and printing the ranked candidates. It accepts
// flags to control boundary mode, candidate limits, and input filtering.
type InputHandler struct {
	converter     *convert.Converter
	mode          nbest.BoundaryMode
	limit         int
	singleSegment bool
	noFilter      bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(converter *convert.Converter, mode nbest.BoundaryMode, limit int, single, noFilter bool) *InputHandler {
	return &InputHandler{
		converter:     converter,
		mode:          mode,
		limit:         limit,
		singleSegment: single,
		noFilter:      noFilter,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed reading to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("KanaBest CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a hiragana reading and press Enter to convert, '|' fixes a segment boundary (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput converts a single reading and prints the candidates.
// It normalizes and validates the input, then asks the converter for
// the ranked list. Results are formatted and printed to the log.
func (h *InputHandler) handleInput(line string) {
	key := utils.NormalizeReading(line)

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidReading(key) {
			log.Warnf("Not a kana reading: '%s'", line)
			return
		}
	} else {
		log.Debug("Input filtering disabled")
	}

	start := time.Now()
	candidates, err := h.converter.Convert(convert.Request{
		Segments:      convert.ParseSegments(key),
		Type:          nbest.Conversion,
		Mode:          h.mode,
		Limit:         h.limit,
		SingleSegment: h.singleSegment,
	})
	elapsed := time.Since(start)

	if err != nil {
		log.Errorf("Conversion failed for '%s': %v", key, err)
		return
	}
	log.Debugf("Took [ %v ] for reading '%s'", elapsed, key)

	if len(candidates) == 0 {
		log.Warnf("No candidates found for reading: '%s'", key)
		return
	}

	log.Printf("Found %d candidates for '%s':", len(candidates), key)
	for i, c := range candidates {
		fmtCost := utils.FormatWithCommas(int(c.Cost))
		clValue := fmt.Sprintf("\033[38;5;75m%s\033[0m", c.Value)
		log.Printf("%2d. %-40s (cost: %8s)  %s", i+1, clValue, fmtCost, describeSegments(c))
	}
}

// describeSegments renders the inner segment breakdown of a candidate,
// marking each content unit inside its segment.
func describeSegments(c *nbest.Candidate) string {
	if c.InnerSegmentCount() < 2 {
		return ""
	}
	var parts []string
	iter := c.InnerSegments()
	for iter.Next() {
		if iter.ContentValue() != iter.Value() {
			parts = append(parts, fmt.Sprintf("%s[%s]", iter.Value(), iter.ContentValue()))
		} else {
			parts = append(parts, iter.Value())
		}
	}
	return strings.Join(parts, " / ")
}
