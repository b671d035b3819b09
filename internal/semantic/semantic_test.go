package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guest-intent-engine/config"
	"guest-intent-engine/internal/model"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

// fakeBackends stands in for both the embeddings API and Qdrant.
func fakeBackends(t *testing.T, searchResult string) (embedURL, qdrantURL string) {
	t.Helper()

	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		var sb strings.Builder
		sb.WriteString(`{"data":[`)
		for i := range req.Input {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, `{"embedding":[0.1,0.2,0.3],"index":%d}`, i)
		}
		sb.WriteString(`]}`)
		w.Write([]byte(sb.String()))
	}))
	t.Cleanup(embedSrv.Close)

	qdrantSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/points/search"):
			w.Write([]byte(searchResult))
		case r.Method == http.MethodPut:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(qdrantSrv.Close)

	return embedSrv.URL, qdrantSrv.URL
}

func newTestClassifier(t *testing.T, searchResult string) *Classifier {
	embedURL, qdrantURL := fakeBackends(t, searchResult)
	c, err := New(context.Background(), config.SemanticConfig{
		QdrantURL:    qdrantURL,
		Collection:   "intent_examples",
		VectorSize:   3,
		EmbedBaseURL: embedURL,
		EmbedModel:   "test-model",
	}, &mockLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClassifyReturnsBestIntent(t *testing.T) {
	c := newTestClassifier(t, `{"result":[
		{"id":"a","score":0.88,"payload":{"intent":"booking","text":"I want to reserve a room"}},
		{"id":"b","score":0.71,"payload":{"intent":"availability","text":"any rooms free"}}
	]}`)

	r, err := c.Classify(context.Background(), "can I reserve for friday", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r == nil || r.Intent != "booking" || r.Score != 0.88 {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestClassifyNoMatchesReturnsNil(t *testing.T) {
	c := newTestClassifier(t, `{"result":[]}`)

	r, err := c.Classify(context.Background(), "blorp", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil for empty search, got %+v", r)
	}
}

func TestClassifyMissingPayloadIntent(t *testing.T) {
	c := newTestClassifier(t, `{"result":[{"id":"x","score":0.9,"payload":{}}]}`)

	r, err := c.Classify(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r != nil {
		t.Fatalf("hit without an intent payload must be discarded, got %+v", r)
	}
}

func TestClassifyEmptyEmbedDataIsError(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(embedSrv.Close)

	qdrantSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(qdrantSrv.Close)

	c, err := New(context.Background(), config.SemanticConfig{
		QdrantURL:    qdrantSrv.URL,
		Collection:   "intent_examples",
		VectorSize:   3,
		EmbedBaseURL: embedSrv.URL,
		EmbedModel:   "test-model",
	}, &mockLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A backend answering 200 with no vectors must surface as an error so
	// the cascade falls through to the next tier.
	r, err := c.Classify(context.Background(), "hello", nil)
	if err == nil {
		t.Fatalf("expected error for missing vectors, got %+v", r)
	}
}

func TestSeedEmptyIsNoop(t *testing.T) {
	c := newTestClassifier(t, `{"result":[]}`)
	if err := c.Seed(context.Background(), nil); err != nil {
		t.Fatalf("Seed(nil): %v", err)
	}
}

func TestSeedUpserts(t *testing.T) {
	c := newTestClassifier(t, `{"result":[]}`)
	err := c.Seed(context.Background(), []Example{
		{Intent: "booking", Text: "I want to book a room", Language: "en"},
		{Intent: "wifi", Text: "wifi password please", Language: "en"},
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
}

func TestBuildQueryKeepsRecentUserTurn(t *testing.T) {
	q := buildQuery("what about tomorrow?", []model.ChatMessage{
		{Role: "assistant", Content: "we have rooms on friday"},
		{Role: "user", Content: "do you have rooms this weekend"},
	})
	if !strings.Contains(q, "what about tomorrow?") {
		t.Fatalf("query must contain the current message: %q", q)
	}
	// Only the trailing turn is folded in, and assistant turns are skipped.
	if strings.Contains(q, "we have rooms on friday") {
		t.Fatalf("assistant content leaked into query: %q", q)
	}
}
