package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"meetsync/models"

	"go.uber.org/zap"
)

// SolverClient sends a request to the scheduling solver.
type SolverClient interface {
	Suggest(ctx context.Context, req models.SolverRequest) (*models.SolverResponse, error)
}

// HTTPSolverClient posts JSON to the solver endpoint. It never retries.
type HTTPSolverClient struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPSolverClient(url string, timeout time.Duration, logger *zap.Logger) (*HTTPSolverClient, error) {
	if url == "" {
		return nil, fmt.Errorf("solver client initialization error: url is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSolverClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

func (c *HTTPSolverClient) Suggest(ctx context.Context, req models.SolverRequest) (*models.SolverResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("Suggest: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("Suggest: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("Solver call failed", zap.String("url", c.url), zap.Error(err))
		return nil, &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{Status: resp.StatusCode, Detail: "failed to read response body", Err: err}
	}

	c.logger.Debug("Solver responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int("attendees", len(req.Availability)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := errorDetail(raw)
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("Solver rejected request", zap.Int("status", resp.StatusCode), zap.String("detail", detail))
		return nil, &models.TransportError{Status: resp.StatusCode, Detail: detail}
	}

	var out models.SolverResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &models.TransportError{Status: resp.StatusCode, Detail: "malformed solver response", Err: err}
	}
	if out.Suggestions == nil {
		out.Suggestions = []models.Suggestion{}
	}
	return &out, nil
}

// errorDetail extracts the "detail" member of an error body. Structured
// details are returned as compact JSON; non-JSON bodies are returned trimmed.
func errorDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if len(body.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil {
		return text
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body.Detail); err != nil {
		return string(body.Detail)
	}
	return compact.String()
}
