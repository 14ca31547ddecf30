package ports

import (
	"context"
	"errors"
)

// ErrMissingCredential reports that the generation service's access key was
// absent at call time. It is a configuration problem, not a transient failure.
var ErrMissingCredential = errors.New("generation access key not configured")

// GenerationRequest is the assembled instruction for the text-generation
// service. The adapter owns transport and schema-constrained output; request
// construction and response normalization stay in the planner service.
type GenerationRequest struct {
	System      string
	Instruction string
}

type ItineraryGenerator interface {
	// Generate submits the request and returns the raw text payload. An
	// empty string with a nil error means the service produced no payload.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
