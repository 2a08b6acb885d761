package quality

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// LookupTimeout bounds every metadata-lookup call. The collaborator is slow
// and outside our control; past this bound the reference counts as
// unresolvable for this run.
const LookupTimeout = 8 * time.Second

// DOI suffixes may contain parentheses and punctuation; trailing sentence
// punctuation is trimmed separately.
var (
	doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s"<>]+`)
	urlPattern = regexp.MustCompile(`https?://[^\s"<>]+`)
)

// ExtractDOI pulls the first DOI out of a free-text reference string. Empty
// when none is present.
func ExtractDOI(reference string) string {
	return trimPunctuation(doiPattern.FindString(reference))
}

// ExtractURL pulls the first URL out of a free-text reference string.
func ExtractURL(reference string) string {
	return trimPunctuation(urlPattern.FindString(reference))
}

func trimPunctuation(s string) string {
	for len(s) > 0 {
		switch s[len(s)-1] {
		case '.', ',', ';', ')', ']':
			s = s[:len(s)-1]
		default:
			return s
		}
	}
	return s
}

// ResolveReference produces the reference dimension of an assessment: a DOI
// that resolves passes, a URL-only reference resolves to at best a warning,
// and an unresolvable or absent identifier fails.
func ResolveReference(ctx context.Context, lookup MetadataLookup, reference string) DimensionResult {
	if reference == "" {
		return DimensionResult{Verdict: VerdictFail, Message: "no reference provided"}
	}

	ctx, cancel := context.WithTimeout(ctx, LookupTimeout)
	defer cancel()

	if doi := ExtractDOI(reference); doi != "" {
		meta, err := lookup.ResolveDOI(ctx, doi)
		if err != nil {
			return DimensionResult{
				Verdict: VerdictFail,
				Message: fmt.Sprintf("DOI %s did not resolve", doi),
			}
		}
		return DimensionResult{
			Verdict: VerdictPass,
			Message: fmt.Sprintf("resolved to %q", meta.Title),
		}
	}

	if url := ExtractURL(reference); url != "" {
		if _, err := lookup.ResolveURL(ctx, url); err != nil {
			return DimensionResult{
				Verdict: VerdictFail,
				Message: "reference URL did not resolve",
			}
		}
		// A bare URL is weaker evidence than a DOI even when it resolves.
		return DimensionResult{
			Verdict: VerdictWarning,
			Message: "reference resolves but carries no DOI",
		}
	}

	return DimensionResult{Verdict: VerdictFail, Message: "no DOI or URL found in reference"}
}
