package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fieldscan/fieldscan/internal/document"
	"github.com/fieldscan/fieldscan/internal/providers"
)

// stubSource hands out a fixed client or error, standing in for the
// provider registry.
type stubSource struct {
	client providers.LLMClient
	err    error
}

func (s *stubSource) LLM() (providers.LLMClient, error) {
	return s.client, s.err
}

const validResponse = `{
	"barge": {"name": "MV KIRBY 28011"},
	"port": {"vessel_name": "KIRBY 28011", "port_city": "Corpus Christi, TX"},
	"arrival": {
		"tanks": [
			{"tank_id": "1P", "product": "VGO", "api": 22.4, "ullage_ft": 3, "ullage_in": 4.25,
			 "temperature_f": 86.0, "gross_bbls": 10412.55, "water_bbls": 1.2, "net_bbls": 10380.11}
		]
	},
	"departure": {
		"tanks": [
			{"tank_id": "1P", "product": "VGO", "api": 22.4, "ullage_ft": 28, "ullage_in": 0.5,
			 "temperature_f": 84.5, "gross_bbls": 102.3}
		]
	}
}`

const invalidResponse = `{"barge": {"name": "MV KIRBY 28011"}}`

func newTestEngine(t *testing.T, client providers.LLMClient) *Engine {
	t.Helper()
	return New(Config{Clients: &stubSource{client: client}})
}

func TestExtract_SuccessFirstAttempt(t *testing.T) {
	mock := providers.NewMockClient(providers.MockResponse{Content: validResponse})
	engine := newTestEngine(t, mock)

	doc, err := engine.Extract(context.Background(), []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if doc.Barge.Name != "MV KIRBY 28011" {
		t.Errorf("barge name = %q, want %q", doc.Barge.Name, "MV KIRBY 28011")
	}
	if mock.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", mock.Calls())
	}
}

func TestExtract_InitialRequest(t *testing.T) {
	mock := providers.NewMockClient(providers.MockResponse{Content: validResponse})
	engine := newTestEngine(t, mock)

	if _, err := engine.Extract(context.Background(), []byte("image-bytes")); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	req := mock.Requests()[0]
	if req.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", req.Temperature)
	}
	if req.ResponseFormat == nil {
		t.Fatal("expected a response format")
	}
	if req.ResponseFormat.Name != "field_document_extraction" {
		t.Errorf("format name = %q", req.ResponseFormat.Name)
	}
	if !req.ResponseFormat.Strict {
		t.Error("expected strict response format")
	}
	if req.ResponseFormat.Schema == nil {
		t.Error("expected the extraction schema on the request")
	}

	if len(req.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != providers.RoleSystem {
		t.Errorf("first role = %q, want system", req.Messages[0].Role)
	}
	if req.Messages[1].Role != providers.RoleUser {
		t.Errorf("second role = %q, want user", req.Messages[1].Role)
	}
	if len(req.Messages[1].Images) != 1 || string(req.Messages[1].Images[0]) != "image-bytes" {
		t.Error("user turn should carry the document image")
	}
}

func TestExtract_RepairsAfterInvalidResponse(t *testing.T) {
	mock := providers.NewMockClient(
		providers.MockResponse{Content: invalidResponse},
		providers.MockResponse{Content: invalidResponse},
		providers.MockResponse{Content: validResponse},
	)
	engine := newTestEngine(t, mock)

	doc, err := engine.Extract(context.Background(), []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if doc == nil {
		t.Fatal("expected a document")
	}
	if mock.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", mock.Calls())
	}
}

func TestExtract_CorrectiveTurns(t *testing.T) {
	mock := providers.NewMockClient(
		providers.MockResponse{Content: invalidResponse},
		providers.MockResponse{Content: validResponse},
	)
	engine := newTestEngine(t, mock)

	if _, err := engine.Extract(context.Background(), []byte("image-bytes")); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// The exact error text the first response produces.
	_, wantErr := document.Validate([]byte(invalidResponse))
	if wantErr == nil {
		t.Fatal("fixture response should fail validation")
	}

	second := mock.Requests()[1]
	if len(second.Messages) != 4 {
		t.Fatalf("len(Messages) = %d, want 4", len(second.Messages))
	}
	if second.Messages[2].Role != providers.RoleAssistant {
		t.Errorf("third role = %q, want assistant", second.Messages[2].Role)
	}
	if second.Messages[2].Content != invalidResponse {
		t.Error("assistant turn should replay the failed payload verbatim")
	}
	if second.Messages[3].Role != providers.RoleUser {
		t.Errorf("fourth role = %q, want user", second.Messages[3].Role)
	}
	want := "Please fix the error and capture all data: " + wantErr.Error()
	if second.Messages[3].Content != want {
		t.Errorf("corrective turn = %q, want %q", second.Messages[3].Content, want)
	}
}

func TestExtract_TranscriptImmutable(t *testing.T) {
	mock := providers.NewMockClient(
		providers.MockResponse{Content: invalidResponse},
		providers.MockResponse{Content: validResponse},
	)
	engine := newTestEngine(t, mock)

	if _, err := engine.Extract(context.Background(), []byte("image-bytes")); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	first := mock.Requests()[0]
	if len(first.Messages) != 2 {
		t.Errorf("first request grew to %d messages", len(first.Messages))
	}
}

func TestExtract_ProviderErrorYieldsEmptyAssistantTurn(t *testing.T) {
	mock := providers.NewMockClient(
		providers.MockResponse{Err: errors.New("upstream timeout")},
		providers.MockResponse{Content: validResponse},
	)
	engine := newTestEngine(t, mock)

	if _, err := engine.Extract(context.Background(), []byte("image-bytes")); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	second := mock.Requests()[1]
	if second.Messages[2].Content != "" {
		t.Errorf("assistant turn after a failed call = %q, want empty", second.Messages[2].Content)
	}
	if !strings.Contains(second.Messages[3].Content, "upstream timeout") {
		t.Error("corrective turn should carry the provider error")
	}
}

func TestExtract_AttemptBound(t *testing.T) {
	mock := providers.NewMockClient(
		providers.MockResponse{Content: invalidResponse},
		providers.MockResponse{Content: invalidResponse},
		providers.MockResponse{Content: invalidResponse},
	)
	engine := newTestEngine(t, mock)

	_, err := engine.Extract(context.Background(), []byte("image-bytes"))
	if err == nil {
		t.Fatal("expected a terminal error")
	}
	if mock.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", mock.Calls())
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want attempt count", err)
	}

	var verr *document.ValidationError
	if !errors.As(err, &verr) {
		t.Error("terminal error should wrap the last validation failure")
	}
}

func TestExtract_CustomRetryBound(t *testing.T) {
	mock := providers.NewMockClient(
		providers.MockResponse{Content: invalidResponse},
	)
	engine := New(Config{Clients: &stubSource{client: mock}, MaxRetries: 1})

	_, err := engine.Extract(context.Background(), []byte("image-bytes"))
	if err == nil {
		t.Fatal("expected a terminal error")
	}
	if mock.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", mock.Calls())
	}
}

func TestExtract_MissingCredential(t *testing.T) {
	engine := New(Config{Clients: &stubSource{err: providers.ErrMissingCredential}})

	_, err := engine.Extract(context.Background(), []byte("image-bytes"))
	if !errors.Is(err, providers.ErrMissingCredential) {
		t.Errorf("Extract() error = %v, want ErrMissingCredential", err)
	}
}

func TestExtract_ContextCancelled(t *testing.T) {
	mock := providers.NewMockClient(
		providers.MockResponse{Content: invalidResponse},
		providers.MockResponse{Content: validResponse},
	)
	engine := newTestEngine(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Extract(ctx, []byte("image-bytes"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Extract() error = %v, want context.Canceled", err)
	}
}
