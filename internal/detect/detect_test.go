package detect

import (
	"context"
	"errors"
	"testing"
	"time"

	"guest-intent-engine/config"
	"guest-intent-engine/internal/language"
	"guest-intent-engine/internal/matcher"
	"guest-intent-engine/internal/model"
	"guest-intent-engine/pkg/llmprovider"
	"guest-intent-engine/pkg/ratelimit"
)

// mockLogger is a test implementation of the Logger interface
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

// mockProvider is a test implementation of the Provider interface
type mockProvider struct {
	id        string
	priority  int
	smart     bool
	err       error
	content   string
	callCount int
}

func (m *mockProvider) Chat(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{Content: m.content}, nil
}

func (m *mockProvider) ID() string    { return m.id }
func (m *mockProvider) Name() string  { return m.id }
func (m *mockProvider) Model() string { return m.id + "-model" }
func (m *mockProvider) Priority() int { return m.priority }
func (m *mockProvider) Smart() bool   { return m.smart }

type mockEmergency struct {
	result *model.TierResult
}

func (m *mockEmergency) Classify(text string) *model.TierResult { return m.result }

type mockSemantic struct {
	result    *model.TierResult
	err       error
	callCount int
}

func (m *mockSemantic) Classify(ctx context.Context, text string, recent []model.ChatMessage) (*model.TierResult, error) {
	m.callCount++
	return m.result, m.err
}

func testConfig() config.DetectionConfig {
	return config.DetectionConfig{
		Tier1:              config.TierConfig{Enabled: true, Threshold: 0.9},
		Tier2:              config.TierConfig{Enabled: true, ContextMessages: 3, Threshold: 0.8},
		Tier3:              config.TierConfig{Enabled: true, ContextMessages: 5, Threshold: 0.75},
		Tier4:              config.TierConfig{Enabled: true, ContextMessages: 10},
		SmartFallbackBelow: 0.6,
	}
}

func testService(cfg config.DetectionConfig, providers []llmprovider.Provider, emergency EmergencyClassifier, semantic SemanticClassifier) *Service {
	limiter := ratelimit.NewManager(ratelimit.Config{BaseDelay: time.Second, MaxDelay: time.Minute})
	mgr := llmprovider.NewManager(providers, limiter, &mockLogger{}, time.Second)
	return New(Deps{
		Config:  cfg,
		Matcher: matcher.New([]model.KeywordIntent{
			{Intent: "booking", Keywords: []string{"book a room", "reservation"}},
			{Intent: "wifi", Keywords: []string{"wifi password"}},
		}),
		Language:       language.NewRouter(3),
		LLM:            mgr,
		Emergency:      emergency,
		Semantic:       semantic,
		RoutingIntents: []string{"booking", "wifi", "emergency", "complaint"},
		Logger:         &mockLogger{},
	})
}

func TestDetectIntent_EmergencyStopsCascade(t *testing.T) {
	semantic := &mockSemantic{}
	llm := &mockProvider{id: "groq", content: `{"intent":"general","action":"reply","response":"hi","confidence":0.9}`}
	s := testService(testConfig(), []llmprovider.Provider{llm},
		&mockEmergency{result: &model.TierResult{Intent: "emergency", Score: 0.98}}, semantic)

	d := s.DetectIntent(context.Background(), "there is a fire in my room", model.ConversationContext{})
	if d.Tier != TierEmergency || d.Intent != "emergency" {
		t.Fatalf("expected emergency on %s, got %+v", TierEmergency, d)
	}
	if semantic.callCount != 0 || llm.callCount != 0 {
		t.Fatal("later tiers must not run after an emergency hit")
	}
}

func TestDetectIntent_KeywordTier(t *testing.T) {
	llm := &mockProvider{id: "groq", content: `{}`}
	s := testService(testConfig(), []llmprovider.Provider{llm}, &mockEmergency{}, &mockSemantic{})

	d := s.DetectIntent(context.Background(), "can I book a room tonight", model.ConversationContext{})
	if d.Tier != TierKeyword || d.Intent != "booking" {
		t.Fatalf("expected booking on %s, got %+v", TierKeyword, d)
	}
	if d.MatchedKeyword == "" {
		t.Fatal("keyword hits should carry the matched keyword")
	}
	if llm.callCount != 0 {
		t.Fatal("LLM must not run when the keyword tier accepts")
	}
}

func TestDetectIntent_SemanticErrorFallsThroughToLLM(t *testing.T) {
	llm := &mockProvider{id: "groq", content: `{"intent":"complaint","action":"escalate","response":"sorry to hear that","confidence":0.85}`}
	semantic := &mockSemantic{err: errors.New("vector store down")}
	s := testService(testConfig(), []llmprovider.Provider{llm}, &mockEmergency{}, semantic)

	d := s.DetectIntent(context.Background(), "everything about this stay was disappointing", model.ConversationContext{})
	if d.Tier != TierLLM || d.Intent != "complaint" {
		t.Fatalf("expected LLM fallback, got %+v", d)
	}
	if semantic.callCount != 1 {
		t.Fatal("semantic tier should have been attempted")
	}
}

func TestDetectIntent_DisabledTiersSkip(t *testing.T) {
	cfg := testConfig()
	cfg.Tier1.Enabled = false
	cfg.Tier2.Enabled = false
	cfg.Tier3.Enabled = false
	llm := &mockProvider{id: "groq", content: `{"intent":"wifi","action":"reply","response":"the password is on the card","confidence":0.7}`}
	semantic := &mockSemantic{result: &model.TierResult{Intent: "wifi", Score: 0.99}}
	s := testService(cfg, []llmprovider.Provider{llm}, &mockEmergency{result: &model.TierResult{Intent: "emergency", Score: 1}}, semantic)

	d := s.DetectIntent(context.Background(), "wifi password", model.ConversationContext{})
	if d.Tier != TierLLM {
		t.Fatalf("disabled tiers must be skipped, got %+v", d)
	}
	if semantic.callCount != 0 {
		t.Fatal("disabled semantic tier must not be called")
	}
}

func TestDetectIntent_NilSemanticMeansDisabled(t *testing.T) {
	llm := &mockProvider{id: "groq", content: `{"intent":"general","action":"reply","response":"ok","confidence":0.5}`}
	s := testService(testConfig(), []llmprovider.Provider{llm}, nil, nil)

	d := s.DetectIntent(context.Background(), "tell me a story", model.ConversationContext{})
	if d.Tier != TierLLM {
		t.Fatalf("expected LLM tier with nil collaborators, got %+v", d)
	}
}

func TestClassifyAndRespond_AllProvidersDown(t *testing.T) {
	down := &mockProvider{id: "groq", err: errors.New("connection refused")}
	s := testService(testConfig(), []llmprovider.Provider{down}, nil, nil)

	resp := s.ClassifyAndRespond(context.Background(), "", nil, "hello there")
	if resp.Model != model.ModelAllLLMFailed {
		t.Fatalf("expected %s marker, got %q", model.ModelAllLLMFailed, resp.Model)
	}
	if resp.Confidence != 0 {
		t.Fatalf("degraded response must have confidence 0, got %v", resp.Confidence)
	}
	if resp.Intent != model.IntentGeneral || resp.Action != model.ActionReply {
		t.Fatalf("degraded response must still be well formed, got %+v", resp)
	}
	if resp.Response == "" {
		t.Fatal("degraded response must carry a static message")
	}
}

func TestClassifyAndRespond_CancelledContextMarksError(t *testing.T) {
	llm := &mockProvider{id: "groq", content: `{"intent":"general","action":"reply","response":"hi","confidence":0.9}`}
	s := testService(testConfig(), []llmprovider.Provider{llm}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := s.ClassifyAndRespond(ctx, "", nil, "hello there")
	if resp.Model != model.ModelError {
		t.Fatalf("expected %s marker, got %q", model.ModelError, resp.Model)
	}
	if resp.Intent != model.IntentGeneral || resp.Response == "" {
		t.Fatalf("degraded response must still be well formed, got %+v", resp)
	}
}

func TestClassifyMessage_LLMTierDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Tier4.Enabled = false
	llm := &mockProvider{id: "groq", content: `{"intent":"general","action":"reply","response":"hi","confidence":0.9}`}
	s := testService(cfg, []llmprovider.Provider{llm}, nil, nil)

	d, resp := s.ClassifyMessage(context.Background(), "tell me a story", model.ConversationContext{})
	if llm.callCount != 0 {
		t.Fatal("disabled LLM tier must not call providers")
	}
	if resp == nil || resp.Model != model.ModelNone {
		t.Fatalf("expected %s marker, got %+v", model.ModelNone, resp)
	}
	if resp.Response == "" || d.Intent != model.IntentGeneral {
		t.Fatalf("expected canned general reply, got %+v / %+v", d, resp)
	}
}

func TestClassifyAndRespond_StaticFallbackIsLocalized(t *testing.T) {
	down := &mockProvider{id: "groq", err: errors.New("boom")}
	s := testService(testConfig(), []llmprovider.Provider{down}, nil, nil)

	resp := s.ClassifyAndRespond(context.Background(), "", nil, "请问酒店的无线网络密码是什么")
	if resp.Response != allProvidersDownMessages["zh"] {
		t.Fatalf("expected Chinese fallback, got %q", resp.Response)
	}
}

func TestClassifyAndRespond_ParsesProviderReply(t *testing.T) {
	llm := &mockProvider{id: "groq", content: `{"intent":"booking","action":"workflow","response":"Sure, when would you like to stay?","confidence":0.92}`}
	s := testService(testConfig(), []llmprovider.Provider{llm}, nil, nil)

	resp := s.ClassifyAndRespond(context.Background(), "", nil, "I want to stay two nights")
	if resp.Intent != "booking" || resp.Action != model.ActionWorkflow {
		t.Fatalf("unexpected parse result: %+v", resp)
	}
	if resp.Model != "groq-model" {
		t.Fatalf("expected provider model on response, got %q", resp.Model)
	}
}

func TestSmartFallback_RetriesBelowBar(t *testing.T) {
	weak := &mockProvider{id: "fast", priority: 3,
		content: `{"intent":"general","action":"reply","response":"not sure","confidence":0.3}`}
	smart := &mockProvider{id: "smart", priority: 4, smart: true,
		content: `{"intent":"booking","action":"reply","response":"happy to help with that booking","confidence":0.9}`}
	s := testService(testConfig(), []llmprovider.Provider{weak, smart}, nil, nil)

	resp := s.ClassifyAndRespondWithSmartFallback(context.Background(), "", nil, "uh about the thing from before")
	if resp.Intent != "booking" || resp.Confidence != 0.9 {
		t.Fatalf("expected smart retry to win, got %+v", resp)
	}
	if smart.callCount == 0 {
		t.Fatal("smart provider was never consulted")
	}
}

func TestSmartFallback_NoSmartProvidersKeepsFirstAnswer(t *testing.T) {
	weak := &mockProvider{id: "fast", priority: 3,
		content: `{"intent":"general","action":"reply","response":"not sure","confidence":0.3}`}
	s := testService(testConfig(), []llmprovider.Provider{weak}, nil, nil)

	resp := s.ClassifyAndRespondWithSmartFallback(context.Background(), "", nil, "hmm")
	if resp.Confidence != 0.3 || weak.callCount != 1 {
		t.Fatalf("expected the original answer untouched, got %+v after %d calls", resp, weak.callCount)
	}
}

func TestSmartFallback_ConfidentAnswerSkipsRetry(t *testing.T) {
	good := &mockProvider{id: "fast", priority: 0,
		content: `{"intent":"wifi","action":"reply","response":"it is on the welcome card","confidence":0.95}`}
	smart := &mockProvider{id: "smart", priority: 2, smart: true}
	s := testService(testConfig(), []llmprovider.Provider{good, smart}, nil, nil)

	resp := s.ClassifyAndRespondWithSmartFallback(context.Background(), "", nil, "wifi?")
	if resp.Intent != "wifi" {
		t.Fatalf("unexpected result: %+v", resp)
	}
	if smart.callCount != 0 {
		t.Fatal("smart pass must not run above the confidence bar")
	}
}

func TestDetectIntentWithThinking_FastPathNeverFires(t *testing.T) {
	s := testService(testConfig(), nil, &mockEmergency{result: &model.TierResult{Intent: "emergency", Score: 1}}, nil)

	fired := make(chan struct{}, 1)
	d := s.DetectIntentWithThinking(context.Background(), "fire!", model.ConversationContext{}, func() {
		fired <- struct{}{}
	})
	if d.Intent != "emergency" {
		t.Fatalf("unexpected detection: %+v", d)
	}
	select {
	case <-fired:
		t.Fatal("thinking callback fired on a fast path")
	case <-time.After(20 * time.Millisecond):
	}
}
