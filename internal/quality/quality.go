// Package quality carries the contract of the external content-quality
// assessment flow plus the one check this service wires itself: resolving a
// question's scientific reference through a metadata-lookup collaborator.
// The per-dimension language-quality assessment stays external.
package quality

import "context"

// Verdict is a per-dimension assessment outcome.
type Verdict string

const (
	VerdictPass    Verdict = "pass"
	VerdictWarning Verdict = "warning"
	VerdictFail    Verdict = "fail"
)

// DimensionResult is one dimension's verdict with an optional human-readable
// message.
type DimensionResult struct {
	Verdict Verdict `json:"verdict"`
	Message string  `json:"message,omitempty"`
}

// AssessmentInput is what the external assessor consumes.
type AssessmentInput struct {
	Stem          string   `json:"stem"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Reference     string   `json:"reference,omitempty"`
}

// Assessment maps dimension names to results.
type Assessment struct {
	Dimensions map[string]DimensionResult `json:"dimensions"`
}

// Assessor is the external quality-assessment collaborator.
type Assessor interface {
	Assess(ctx context.Context, input AssessmentInput) (Assessment, error)
}

// Metadata is what a resolved reference looks like.
type Metadata struct {
	Title   string
	Journal string
	Year    int
}

// MetadataLookup resolves a bibliographic identifier. Implementations must
// respect the context deadline; callers bound every lookup.
type MetadataLookup interface {
	ResolveDOI(ctx context.Context, doi string) (Metadata, error)
	ResolveURL(ctx context.Context, url string) (Metadata, error)
}
