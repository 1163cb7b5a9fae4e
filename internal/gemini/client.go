package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

type Config struct {
	APIKey      string
	Model       string
	// HTTPTimeout bounds a single GenerateContent round trip. Zero leaves
	// the SDK default in place.
	HTTPTimeout time.Duration
}

// Client is the process-wide handle to the Gemini API. It is safe for
// concurrent use and lives as long as the process.
type Client struct {
	genai *genai.Client
	model string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	return newClient(ctx, cfg, genai.HTTPOptions{})
}

func newClient(ctx context.Context, cfg Config, opts genai.HTTPOptions) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: opts,
	}
	if cfg.HTTPTimeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{genai: client, model: model}, nil
}

func (c *Client) Model() string { return c.model }

// Generate sends prompt as both the user content and the system instruction
// and returns the concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Category is the closed set of remote failure kinds the analyzer reacts to.
type Category int

const (
	CategoryNone Category = iota
	CategoryInternal
	CategoryUnavailable
	CategoryTooManyRequests
	CategoryResourceExhausted
	CategoryPermanent
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryInternal:
		return "internal"
	case CategoryUnavailable:
		return "unavailable"
	case CategoryTooManyRequests:
		return "too_many_requests"
	case CategoryResourceExhausted:
		return "resource_exhausted"
	case CategoryPermanent:
		return "permanent"
	default:
		return "other"
	}
}

// Retryable reports whether a failure is expected to clear on its own.
func (c Category) Retryable() bool {
	switch c {
	case CategoryInternal, CategoryUnavailable, CategoryTooManyRequests, CategoryResourceExhausted:
		return true
	}
	return false
}

// Classify maps an error returned by Generate onto a Category.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}
	apiErr, ok := asAPIError(err)
	if !ok {
		return CategoryOther
	}

	switch {
	case apiErr.Status == "RESOURCE_EXHAUSTED":
		return CategoryResourceExhausted
	case apiErr.Code == http.StatusTooManyRequests:
		return CategoryTooManyRequests
	case apiErr.Code == http.StatusInternalServerError, apiErr.Status == "INTERNAL":
		return CategoryInternal
	case apiErr.Code == http.StatusServiceUnavailable, apiErr.Status == "UNAVAILABLE":
		return CategoryUnavailable
	default:
		return CategoryPermanent
	}
}

// genai has returned APIError both by value and by pointer across releases.
func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}
