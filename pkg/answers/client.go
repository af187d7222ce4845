package answers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/usestring/formpilot-mcp/internal/schema"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// DefaultEndpoint is the answer service address used when none is set.
const DefaultEndpoint = "http://localhost/api-example.php"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// ErrInvalidResponse is wrapped by errors for bodies that are not an answer
// array.
var ErrInvalidResponse = errors.New("invalid answer service response")

// Answers are strings or arrays of strings. Numbers and booleans are
// accepted as scalars.
const answerSetSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {
		"oneOf": [
			{"type": ["string", "number", "boolean"]},
			{"type": "array", "items": {"type": ["string", "number", "boolean"]}}
		]
	}
}`

var answerSetValidator = schema.MustCompile("answer-set.json", answerSetSchema)

// Client calls an answer service.
type Client struct {
	endpoint   string
	httpClient *http.Client
	expr       *Expr
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithEndpoint sets the service URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithAnswersExpr applies a compiled expression to every response body
// before it is decoded.
func WithAnswersExpr(expr *Expr) Option {
	return func(c *Client) {
		c.expr = expr
	}
}

// New creates an answer service client.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithExpression returns a copy of c that unwraps responses with the jq
// expression. An empty expression is a no-op.
func (c *Client) WithExpression(expression string) (*Client, error) {
	if strings.TrimSpace(expression) == "" {
		return c, nil
	}
	expr, err := CompileExpr(expression)
	if err != nil {
		return nil, err
	}
	cp := *c
	cp.expr = expr
	return &cp, nil
}

// Endpoint returns the service URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate sends doc to the service and returns its answers.
func (c *Client) Generate(ctx context.Context, doc *types.FormDocument) (types.AnswerSet, error) {
	start := time.Now()

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("answer service request failed",
			slog.String("endpoint", c.endpoint),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseError(resp)
		slog.Debug("answer service returned error",
			slog.String("endpoint", c.endpoint),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, apiErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	set, err := c.decode(body)
	if err != nil {
		return nil, err
	}

	slog.Debug("answer service request completed",
		slog.String("endpoint", c.endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Int("answers", len(set)),
		slog.Int("items", doc.Count),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	if len(set) != doc.Count {
		slog.Warn("answer count differs from question count",
			slog.Int("answers", len(set)),
			slog.Int("items", doc.Count),
		)
	}
	return set, nil
}

// decode unwraps, validates and converts a response body.
func (c *Client) decode(body []byte) (types.AnswerSet, error) {
	var value any
	if c.expr != nil {
		v, err := c.expr.Select(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		value = v
	} else {
		v, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding body: %w", ErrInvalidResponse, err)
		}
		value = v
	}

	if problems := answerSetValidator.Validate(value); problems != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(problems, "; "))
	}

	items, _ := value.([]any)
	set, err := types.AnswersFromAny(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return set, nil
}

// parseError extracts an APIError from an error response.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
