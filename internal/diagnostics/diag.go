package diagnostics

import "github.com/coreman2200/arcaluminis-surfaces/internal/surface"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Detail   string         `json:"detail,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

func TransitionStarted(from, to surface.Name) Diagnostic {
	return Diagnostic{
		Severity: Info,
		Code:     "TRANSITION.START",
		Summary:  "Morphing " + from.String() + " into " + to.String(),
		Evidence: map[string]any{"from": from.String(), "to": to.String()},
	}
}

func TransitionEnded(current surface.Name) Diagnostic {
	return Diagnostic{
		Severity: Info,
		Code:     "TRANSITION.END",
		Summary:  "Holding " + current.String(),
		Evidence: map[string]any{"current": current.String()},
	}
}

// SinkFailed reports a frame the output sink rejected.
func SinkFailed(err error) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     "SINK.WRITE",
		Summary:  "Output sink rejected a frame",
		Detail:   err.Error(),
	}
}
