/*
Package server implements msgpack IPC for kana-to-kanji conversion.

The server provides a minimal interface for candidate generation using
msgpack serialization over stdin/stdout. Messages are processed
synchronously with timing info included in responses.

# IPC

The server operates on a request/response model where clients send
structured messages via stdin and receive responses through stdout.
Each message contains an ID field, an op field and op-specific fields.

Conversion requests use mainly this structure:

	{"id": "req_001", "op": "convert", "k": "しんこう|する", "m": "strict", "l": 10}

'|' inside the key marks a user-fixed segment boundary. The server
responds with candidates ranked by path cost:

	{"id": "req_001", "s": [{"k": "しんこうする", "v": "進行する", "c": 700, "r": 1}], "c": 1, "t": 145}

Health and dictionary info ops:

	{"id": "h1", "op": "health"}
	{"id": "d1", "op": "info"}

Response structures include status information and error details when
an op fails. Callers detect end-of-candidates by the count field, not
by an error.

msgpack's binary format keeps message sizes ~30 to 50% smaller than
JSON and parsing cheap enough that per-keystroke prediction requests
stay well under a millisecond of protocol overhead.
*/
package server

// ConvertRequest - conversion request envelope
type ConvertRequest struct {
	ID    string `msgpack:"id"`
	Op    string `msgpack:"op"`
	Key   string `msgpack:"k,omitempty"`
	Mode  string `msgpack:"m,omitempty"`
	Type  string `msgpack:"t,omitempty"`
	Limit int    `msgpack:"l,omitempty"`
	// Single treats the whole key as one logical segment (realtime /
	// prediction conversion).
	Single bool `msgpack:"sg,omitempty"`
}

// CandidateEntry - one ranked conversion candidate
type CandidateEntry struct {
	Key   string `msgpack:"k"`
	Value string `msgpack:"v"`
	Cost  int32  `msgpack:"c"`
	Rank  uint16 `msgpack:"r"`
}

// ConvertResponse - conversion response
type ConvertResponse struct {
	ID         string           `msgpack:"id"`
	Candidates []CandidateEntry `msgpack:"s"`
	Count      int              `msgpack:"c"`
	TimeTaken  int64            `msgpack:"t"`
}

// StatusResponse - health / info response
type StatusResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Entries int    `msgpack:"entries,omitempty"`
}

// ConvertError holds basic error information for failed requests
type ConvertError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
