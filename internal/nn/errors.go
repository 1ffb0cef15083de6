package nn

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Graph validation reasons reported by GraphError.
const (
	ReasonCycle        = "cycle"
	ReasonDisconnected = "disconnected"
	ReasonUnused       = "unused"
	ReasonMissingInput = "missing_input"
	ReasonNoInputs     = "no_inputs"
	ReasonNoOutputs    = "no_outputs"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	ErrInvalidName    = errors.New("invalid layer name")
	ErrDuplicateName  = errors.New("duplicate layer name")
	ErrUnknownLayer   = errors.New("unknown layer")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrInputMismatch  = errors.New("network input mismatch")
	ErrOutputMismatch = errors.New("network output mismatch")
)

// GraphError describes a structurally invalid layer graph.
type GraphError struct {
	Reason  string   // One of the Reason* constants
	Layers  []string // Offending layers, in index order
	Details string
}

func (e *GraphError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid graph: %s", e.Reason)
	if len(e.Layers) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(e.Layers, ", "))
	}
	if e.Details != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Details)
	}
	return sb.String()
}

// IsGraphError reports whether err is a *GraphError with the given reason.
func IsGraphError(err error, reason string) bool {
	var ge *GraphError
	return errors.As(err, &ge) && ge.Reason == reason
}
