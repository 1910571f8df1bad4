// Package workflow sequences a resolution request from URL validation
// through decoding and extraction to the public Response, and owns the
// mapping from internal failures to caller-visible messages.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"snapgrab/internal/decoder"
	"snapgrab/internal/extract"
	"snapgrab/internal/media"
	"snapgrab/internal/platform"
)

// Caller-visible failure messages. Only unsupported URLs and empty
// extractions are distinguishable; every internal failure collapses to
// MsgFailed, with the detail going to the debug log.
const (
	MsgInvalidURL = "Invalid URL"
	MsgNoMedia    = "No downloadable media found"
	MsgFailed     = "Failed to process download request"
)

var (
	// ErrUnsupportedURL reports a post URL outside the validated platforms.
	ErrUnsupportedURL = errors.New("URL does not match a supported platform")

	// ErrNoMedia reports a structurally valid page with zero media items.
	ErrNoMedia = errors.New("no downloadable media found")
)

// Fetcher retrieves the raw scripted response for a post URL. The HTTP
// transport lives behind this interface; the workflow itself performs no
// network requests.
type Fetcher interface {
	Fetch(ctx context.Context, postURL string) (string, error)
}

// Resolver turns post URLs into media descriptor lists. It holds no
// per-request state, so concurrent Resolve calls need no coordination.
type Resolver struct {
	fetcher Fetcher
	logger  *log.Logger
}

// New creates a Resolver that discards diagnostic output.
func New(fetcher Fetcher) *Resolver {
	return NewWithLogger(fetcher, log.New(io.Discard, "", 0))
}

// NewWithLogger creates a Resolver that writes failure detail to logger.
func NewWithLogger(fetcher Fetcher, logger *log.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, logger: logger}
}

// Resolve runs the full pipeline for one post URL. It never returns
// partial data: the response is either a populated result or a failure
// message.
func (r *Resolver) Resolve(ctx context.Context, postURL string) media.Response {
	result, err := r.run(ctx, postURL)
	if err != nil {
		return media.Response{Message: r.failureMessage(postURL, err)}
	}
	return media.Response{Success: true, Data: result}
}

// run is the linear stage sequence:
// validate -> fetch -> decode -> unwrap -> parse -> extract.
func (r *Resolver) run(ctx context.Context, postURL string) (*media.ExtractionResult, error) {
	if !platform.Supported(postURL) {
		return nil, ErrUnsupportedURL
	}

	raw, err := r.fetcher.Fetch(ctx, postURL)
	if err != nil {
		return nil, fmt.Errorf("fetching resolver payload: %w", err)
	}

	args, err := decoder.ParseArguments(raw)
	if err != nil {
		return nil, err
	}

	decoded, err := decoder.DecodePayload(args)
	if err != nil {
		return nil, err
	}

	html, err := decoder.UnwrapHTML(decoded)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing unwrapped HTML: %w", err)
	}

	result := extract.Extract(doc)
	if len(result.Media) == 0 {
		return nil, ErrNoMedia
	}
	return &result, nil
}

// failureMessage maps an internal error to the caller-visible message.
func (r *Resolver) failureMessage(postURL string, err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedURL):
		return MsgInvalidURL
	case errors.Is(err, ErrNoMedia):
		return MsgNoMedia
	default:
		r.logger.Printf("resolving %s: %v", postURL, err)
		return MsgFailed
	}
}

// batchLimit caps concurrent resolutions in ResolveAll.
const batchLimit = 4

// ResolveAll resolves several post URLs concurrently and returns the
// responses in input order. Individual failures land in their response
// slot; they never abort the batch.
func (r *Resolver) ResolveAll(ctx context.Context, postURLs []string) []media.Response {
	responses := make([]media.Response, len(postURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit)
	for i, postURL := range postURLs {
		g.Go(func() error {
			responses[i] = r.Resolve(ctx, postURL)
			return nil
		})
	}
	_ = g.Wait()

	return responses
}
