package nbest

import "fmt"

// BoundaryMode controls which cut points of a candidate path must
// satisfy the segment-boundary legality oracle. It is fixed for the
// duration of one Reset/drain epoch.
type BoundaryMode uint8

const (
	// Strict checks every cut point, internal and outer.
	Strict BoundaryMode = iota
	// OnlyMid checks internal cut points only.
	OnlyMid
	// OnlyEdge checks the two outer cut points only.
	OnlyEdge
)

func (m BoundaryMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case OnlyMid:
		return "only_mid"
	case OnlyEdge:
		return "only_edge"
	}
	return fmt.Sprintf("BoundaryMode(%d)", uint8(m))
}

// ParseBoundaryMode maps a config/CLI string to its mode.
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	switch s {
	case "strict":
		return Strict, nil
	case "only_mid", "mid":
		return OnlyMid, nil
	case "only_edge", "edge":
		return OnlyEdge, nil
	}
	return Strict, fmt.Errorf("nbest: unknown boundary mode %q", s)
}

// RequestType selects which candidate filters apply to a drain.
type RequestType uint8

const (
	// Conversion requests apply the suppression dictionary only.
	Conversion RequestType = iota
	// Prediction requests additionally apply the bad-suggestion filter.
	Prediction
	// Suggestion requests behave like Prediction.
	Suggestion
)

func (t RequestType) String() string {
	switch t {
	case Conversion:
		return "conversion"
	case Prediction:
		return "prediction"
	case Suggestion:
		return "suggestion"
	}
	return fmt.Sprintf("RequestType(%d)", uint8(t))
}

// ParseRequestType maps a config/CLI string to its request type.
func ParseRequestType(s string) (RequestType, error) {
	switch s {
	case "conversion", "":
		return Conversion, nil
	case "prediction":
		return Prediction, nil
	case "suggestion":
		return Suggestion, nil
	}
	return Conversion, fmt.Errorf("nbest: unknown request type %q", s)
}
