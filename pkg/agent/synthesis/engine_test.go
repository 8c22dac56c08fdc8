package synthesis

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"lab-assistant-be/pkg/llm"
	"lab-assistant-be/pkg/llm/openai"
	"lab-assistant-be/pkg/tools"
)

// stubProvider returns a canned response or error.
type stubProvider struct {
	response string
	err      error
	calls    int
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

var _ llm.LLMProvider = (*stubProvider)(nil)

func testDocs() []tools.DocHit {
	return []tools.DocHit{
		{Filename: "db.md", Title: "Database Guide", Snippet: "Pooling basics", KeyPoints: []string{"Check pool size"}},
	}
}

func testIncidents() []tools.IncidentHit {
	return []tools.IncidentHit{
		{Id: "INC-001", Title: "Pool exhausted", Resolution: "Increased pool size"},
	}
}

func TestEngineDeterministicWhenLLMDisabled(t *testing.T) {
	provider := &stubProvider{response: `{"summary":"from llm"}`}
	engine := NewEngine(Config{UseLLM: false}, provider, log.New(io.Discard, "", 0))

	got := engine.Synthesize(context.Background(), "query", testDocs(), testIncidents())
	want := SynthesizeDeterministic("query", testDocs(), testIncidents())

	assert.Equal(t, want, got)
	assert.Zero(t, provider.calls, "provider must not be called when disabled")
}

func TestEngineFallsBackWithoutCredentials(t *testing.T) {
	engine := NewEngine(Config{UseLLM: true, APIKey: ""}, nil, log.New(io.Discard, "", 0))

	got := engine.Synthesize(context.Background(), "query", testDocs(), testIncidents())
	want := SynthesizeDeterministic("query", testDocs(), testIncidents())

	assert.Equal(t, want, got)
}

func TestEngineFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
	}{
		{"generation error", &stubProvider{err: errors.New("boom")}},
		{"malformed json", &stubProvider{response: "not json at all"}},
		{"missing summary", &stubProvider{response: `{"steps":["s"],"sources":[]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(Config{UseLLM: true, APIKey: "key", Model: "gpt-4"}, tt.provider, log.New(io.Discard, "", 0))

			got := engine.Synthesize(context.Background(), "query", testDocs(), testIncidents())
			want := SynthesizeDeterministic("query", testDocs(), testIncidents())

			assert.Equal(t, want, got)
			assert.Equal(t, 1, tt.provider.calls)
		})
	}
}

func TestEngineLLMHappyPath(t *testing.T) {
	provider := &stubProvider{
		response: `Here is the answer: {"summary":"Pool is exhausted","steps":["Raise pool size"],"sources":["db.md","INC-001","db.md"]}`,
	}
	engine := NewEngine(Config{UseLLM: true, APIKey: "key", Model: "gpt-4"}, provider, log.New(io.Discard, "", 0))

	got := engine.Synthesize(context.Background(), "query", testDocs(), testIncidents())

	assert.Equal(t, "Pool is exhausted", got.Summary)
	assert.Equal(t, []string{"Raise pool size"}, got.Steps)
	assert.Equal(t, []string{"db.md", "INC-001"}, got.Sources, "sources must be deduped")
}

func TestEngineLLMInvariants(t *testing.T) {
	provider := &stubProvider{
		response: `{"summary":"ok","steps":["1","2","3","4","5","6","7"],"sources":[]}`,
	}
	engine := NewEngine(Config{UseLLM: true, APIKey: "key"}, provider, log.New(io.Discard, "", 0))

	got := engine.Synthesize(context.Background(), "query", nil, nil)
	assert.Len(t, got.Steps, 5, "steps are capped for every strategy")

	provider.response = `{"summary":"ok","steps":[],"sources":["a.md"]}`
	got = engine.Synthesize(context.Background(), "query", nil, nil)
	assert.Equal(t, []string{"Review the sources listed below for more details."}, got.Steps)
}

func TestEngineAgainstResponsesAPI(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "typed output items",
			body: `{"output":[{"type":"message","content":[{"type":"output_text","text":"{\"summary\":\"from api\",\"steps\":[\"step\"],\"sources\":[\"db.md\"]}"}]}]}`,
		},
		{
			name: "flat output_text",
			body: `{"output_text":"{\"summary\":\"from api\",\"steps\":[\"step\"],\"sources\":[\"db.md\"]}"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/responses", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			provider := openai.NewOpenAIProvider(srv.URL, "test-key", "gpt-4")
			engine := NewEngine(Config{UseLLM: true, APIKey: "test-key", Model: "gpt-4"}, provider, log.New(io.Discard, "", 0))

			got := engine.Synthesize(context.Background(), "query", testDocs(), testIncidents())
			assert.Equal(t, "from api", got.Summary)
			assert.Equal(t, []string{"step"}, got.Steps)
			assert.Equal(t, []string{"db.md"}, got.Sources)
		})
	}
}

func TestEngineFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := openai.NewOpenAIProvider(srv.URL, "test-key", "gpt-4")
	engine := NewEngine(Config{UseLLM: true, APIKey: "test-key"}, provider, log.New(io.Discard, "", 0))

	got := engine.Synthesize(context.Background(), "query", testDocs(), testIncidents())
	want := SynthesizeDeterministic("query", testDocs(), testIncidents())

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected deterministic fallback, got %+v", got)
	}
}
