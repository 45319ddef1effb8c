// Package extract drives the schema-constrained extraction-with-repair
// loop: send the document image to a vision model, validate the response
// against the extraction schema, and feed failures back as corrective
// context for a bounded number of attempts.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fieldscan/fieldscan/internal/document"
	"github.com/fieldscan/fieldscan/internal/providers"
	"github.com/fieldscan/fieldscan/internal/schema"
)

// DefaultMaxRetries is the default bound on provider round-trips per
// extraction.
const DefaultMaxRetries = 3

// responseFormatName labels the structured-output request to the provider.
const responseFormatName = "field_document_extraction"

// ClientSource supplies the shared inference client. Implemented by
// providers.Registry; tests substitute scripted clients.
type ClientSource interface {
	LLM() (providers.LLMClient, error)
}

// Config holds engine configuration.
type Config struct {
	Clients    ClientSource
	MaxRetries int // Provider round-trips per extraction (default 3)
	Logger     *slog.Logger
}

// Engine produces a validated FieldDocument from a document image, or a
// terminal error. It holds no per-extraction state; one instance serves
// concurrent requests.
type Engine struct {
	clients    ClientSource
	maxRetries int
	logger     *slog.Logger
}

// New creates an extraction engine.
func New(cfg Config) *Engine {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		clients:    cfg.Clients,
		maxRetries: cfg.MaxRetries,
		logger:     cfg.Logger,
	}
}

// attemptOutcome classifies a single provider round-trip. Exactly one of
// doc or err is meaningful; raw carries the assistant payload for the next
// corrective turn ("" when the call itself failed).
type attemptOutcome struct {
	doc *document.FieldDocument
	raw string
	err error
}

// Extract runs the repair loop for one document image. It returns a
// validated document or, once the attempt bound is reached, the last
// encountered error. No partial document is ever returned.
func (e *Engine) Extract(ctx context.Context, image []byte) (*document.FieldDocument, error) {
	ex, err := schema.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load extraction schema: %w", err)
	}

	client, err := e.clients.LLM()
	if err != nil {
		return nil, err
	}

	format := &providers.ResponseFormat{
		Name:   responseFormatName,
		Strict: true,
		Schema: ex.Doc(),
	}

	transcript := initialTranscript(image)

	var last attemptOutcome
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		last = e.attempt(ctx, client, format, transcript)
		if last.doc != nil {
			e.logger.Info("extraction succeeded", "attempts", attempt)
			return last.doc, nil
		}

		e.logger.Warn("extraction attempt failed",
			"attempt", attempt, "max_retries", e.maxRetries, "error", last.err)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt == e.maxRetries {
			break
		}
		transcript = withCorrection(transcript, last.raw, last.err)
	}

	return nil, fmt.Errorf("extraction failed after %d attempts: %w", e.maxRetries, last.err)
}

// attempt performs one round-trip: call the provider with the accumulated
// transcript, then validate the payload. Requests ask for zero-temperature
// decoding so repeated runs are reproducible modulo the provider itself.
func (e *Engine) attempt(ctx context.Context, client providers.LLMClient, format *providers.ResponseFormat, transcript []providers.Message) attemptOutcome {
	res, err := client.Chat(ctx, &providers.ChatRequest{
		Messages:       transcript,
		Temperature:    0,
		ResponseFormat: format,
	})
	if err != nil {
		return attemptOutcome{err: err}
	}

	doc, err := document.Validate([]byte(res.Content))
	if err != nil {
		return attemptOutcome{raw: res.Content, err: err}
	}
	return attemptOutcome{doc: doc, raw: res.Content}
}

// initialTranscript builds the opening turns: the fixed system directive
// and a user turn carrying the task description plus the encoded image.
func initialTranscript(image []byte) []providers.Message {
	return []providers.Message{
		{Role: providers.RoleSystem, Content: systemPrompt},
		{Role: providers.RoleUser, Content: userPrompt, Images: [][]byte{image}},
	}
}

// withCorrection rebuilds the transcript for the next attempt: the failed
// assistant payload followed by a corrective user turn carrying the error
// text verbatim. The input slice is never mutated, so each attempt's
// request is reproducible in isolation.
func withCorrection(transcript []providers.Message, raw string, cause error) []providers.Message {
	next := make([]providers.Message, 0, len(transcript)+2)
	next = append(next, transcript...)
	next = append(next, providers.Message{Role: providers.RoleAssistant, Content: raw})
	next = append(next, providers.Message{Role: providers.RoleUser, Content: correctionPrefix + cause.Error()})
	return next
}
