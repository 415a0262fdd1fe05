// Package gateway talks to the generative-text service that writes player comparisons.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("gateway")

// maxResponseBytes caps the upstream body read.
const maxResponseBytes = 4 << 20

// FallbackMessage is what callers show when the upstream could not produce a comparison.
const FallbackMessage = "Sorry, we couldn't complete the comparison at this time."

// Comparer produces a comparison for two players. Implementations never fail;
// upstream problems come back as a degraded Result.
type Comparer interface {
	Compare(ctx context.Context, player1, player2 string) Result
}

// Result is either generated text or a degradation reason.
type Result struct {
	text   string
	reason string
}

// Generated wraps upstream text.
func Generated(text string) Result { return Result{text: text} }

// Degraded records why no text was produced.
func Degraded(reason string) Result { return Result{reason: reason} }

// IsDegraded reports whether the upstream call failed.
func (r Result) IsDegraded() bool { return r.reason != "" }

// Reason is the degradation cause, empty for generated results.
func (r Result) Reason() string { return r.reason }

// Text returns the generated text, or FallbackMessage for a degraded result.
func (r Result) Text() string {
	if r.IsDegraded() {
		return FallbackMessage
	}
	return r.text
}

// Observer receives the outcome and latency of each upstream call.
type Observer interface {
	ObserveComparison(outcome string, latency time.Duration)
}

// Config locates the upstream model.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// GeminiClient calls the generateContent endpoint of the Gemini API.
type GeminiClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	observer   Observer
	endpoint   string
	apiKey     string
}

// NewGeminiClient builds a client. A nil httpClient gets a default client with
// a traced transport and no timeout of its own.
func NewGeminiClient(cfg Config, httpClient *http.Client, logger *slog.Logger, observer Observer) *GeminiClient {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiClient{
		httpClient: httpClient,
		logger:     logger,
		observer:   observer,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/v1beta/models/" + url.PathEscape(cfg.Model) + ":generateContent",
		apiKey:     cfg.APIKey,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Response parts may carry other payloads (function calls, inline data), so a
// missing text field is distinguished from an empty one.
type responsePart struct {
	Text *string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []responsePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Compare sends one prompt upstream and returns the first generated text.
// The request is detached from ctx cancellation: a caller that goes away
// does not abort the call in flight.
func (c *GeminiClient) Compare(ctx context.Context, player1, player2 string) Result {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), "GeminiClient.Compare")
	defer span.End()

	start := time.Now()
	text, err := c.generate(ctx, BuildPrompt(player1, player2))
	latency := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream comparison failed")
		c.logger.WarnContext(ctx, "Gemini API call failed, returning fallback",
			slog.String("error", err.Error()),
			slog.Duration("latency", latency),
		)
		c.observe("degraded", latency)
		return Degraded(err.Error())
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	c.observe("generated", latency)
	return Generated(text)
}

func (c *GeminiClient) observe(outcome string, latency time.Duration) {
	if c.observer != nil {
		c.observer.ObserveComparison(outcome, latency)
	}
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	if len(body) > maxResponseBytes {
		return "", fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response has no generated text")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == nil {
		return "", fmt.Errorf("first response part has no text")
	}
	return *text, nil
}
