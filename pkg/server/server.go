package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"kanabest/internal/logger"
	"kanabest/internal/utils"
	"kanabest/pkg/config"
	"kanabest/pkg/convert"
	"kanabest/pkg/nbest"
)

// Server handles the IPC for conversion requests
type Server struct {
	converter *convert.Converter
	cfg       *config.Config
	decoder   *msgpack.Decoder
	encoder   *msgpack.Encoder
	writer    *bufio.Writer
	log       *log.Logger
}

// NewServer creates a conversion server using stdin/stdout for IPC
func NewServer(converter *convert.Converter, cfg *config.Config) *Server {
	return NewServerWithIO(converter, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over explicit streams, used by tests
func NewServerWithIO(converter *convert.Converter, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		converter: converter,
		cfg:       cfg,
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		encoder:   msgpack.NewEncoder(bw),
		writer:    bw,
		log:       logger.New("ipc"),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")

	// Signal that the server is ready
	s.send(StatusResponse{Status: "ready"})

	for {
		var request ConvertRequest
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches an incoming request by op
func (s *Server) handleRequest(request ConvertRequest) {
	switch request.Op {
	case "convert":
		s.handleConvert(request)
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case "info":
		s.send(StatusResponse{ID: request.ID, Status: "ok", Entries: s.converter.Dictionary().Len()})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// handleConvert validates a conversion request, runs the converter and
// sends the ranked candidate list.
func (s *Server) handleConvert(request ConvertRequest) {
	key := utils.NormalizeReading(request.Key)
	if key == "" {
		s.sendError(request.ID, "Missing 'k' parameter", 400)
		s.log.Debug("Key is empty in request")
		return
	}
	if len(key) > s.cfg.Server.MaxKeyBytes {
		s.sendError(request.ID, fmt.Sprintf("Key exceeds maximum length of %d bytes", s.cfg.Server.MaxKeyBytes), 400)
		s.log.Debug("Key is too long in request")
		return
	}

	mode, err := nbest.ParseBoundaryMode(modeOrDefault(request.Mode, s.cfg.Convert.BoundaryMode))
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}
	reqType, err := nbest.ParseRequestType(request.Type)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.cfg.Convert.DefaultLimit
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	candidates, err := s.converter.Convert(convert.Request{
		Segments:      convert.ParseSegments(key),
		Type:          reqType,
		Mode:          mode,
		Limit:         limit,
		SingleSegment: request.Single,
	})
	if err != nil {
		s.sendError(request.ID, err.Error(), 500)
		s.log.Errorf("Conversion failed for %q: %v", key, err)
		return
	}
	elapsed := time.Since(start)

	entries := make([]CandidateEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = CandidateEntry{
			Key:   c.Key,
			Value: c.Value,
			Cost:  c.Cost,
			Rank:  uint16(i + 1),
		}
	}

	s.send(ConvertResponse{
		ID:         request.ID,
		Candidates: entries,
		Count:      len(entries),
		TimeTaken:  elapsed.Microseconds(),
	})
}

func modeOrDefault(mode, fallback string) string {
	if mode == "" {
		return fallback
	}
	return mode
}

// send marshals the given response and flushes it to the client
func (s *Server) send(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		s.log.Errorf("Flushing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ConvertError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
