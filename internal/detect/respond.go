package detect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"guest-intent-engine/internal/model"
	"guest-intent-engine/internal/parser"
	"guest-intent-engine/pkg/llmprovider"
)

const (
	classifyMaxTokens   = 500
	classifyTemperature = 0.3
	replyMaxTokens      = 600
	replyTemperature    = 0.5
)

// ClassifyAndRespond runs one LLM classification pass over the provider
// chain. systemPrompt may be empty, in which case the default
// classification prompt is built from the configured intent set. The
// return value is always usable: total provider failure degrades to a
// static localized reply with confidence 0.
func (s *Service) ClassifyAndRespond(ctx context.Context, systemPrompt string, history []model.ChatMessage, message string) model.AIResponse {
	return s.respondWith(ctx, s.llm, systemPrompt, history, message, classifyMaxTokens, classifyTemperature)
}

// ClassifyAndRespondWithSmartFallback classifies with the full chain, and
// when the answer's confidence lands below the configured bar, retries
// once against the smart provider subset with an expanded slice of the
// supplied history. With no smart providers configured the first answer
// is returned unchanged.
func (s *Service) ClassifyAndRespondWithSmartFallback(ctx context.Context, systemPrompt string, history []model.ChatMessage, message string) model.AIResponse {
	window := lastN(history, s.cfg.Tier4.ContextMessages)
	resp := s.ClassifyAndRespond(ctx, systemPrompt, window, message)
	if resp.Confidence >= s.cfg.SmartFallbackBelow {
		return resp
	}
	if degraded(resp) {
		return resp
	}

	smart := s.llm.SmartSubset(s.cfg.SmartProviders)
	if smart == nil {
		return resp
	}

	expanded := lastN(history, 2*s.cfg.Tier4.ContextMessages)
	s.l.Info(ctx, "Low confidence, retrying with smart providers",
		"confidence", resp.Confidence, "bar", s.cfg.SmartFallbackBelow)
	retry := s.respondWith(ctx, smart, systemPrompt, expanded, message, classifyMaxTokens, classifyTemperature)
	if degraded(retry) {
		return resp
	}
	return retry
}

// degraded reports whether the response came from a fallback path rather
// than a model.
func degraded(resp model.AIResponse) bool {
	return resp.Model == model.ModelAllLLMFailed || resp.Model == model.ModelError || resp.Model == model.ModelNone
}

// GenerateReplyOnly asks the chain for a reply when the intent is already
// known, grounding the answer in the supplied knowledge text.
func (s *Service) GenerateReplyOnly(ctx context.Context, intent, knowledge string, history []model.ChatMessage, message string) ReplyResult {
	prompt := fmt.Sprintf(SystemPromptReplyOnly, intent, knowledge)
	resp := s.respondWith(ctx, s.llm, prompt, lastN(history, s.cfg.Tier4.ContextMessages), message, replyMaxTokens, replyTemperature)
	return ReplyResult{
		Response:     resp.Response,
		Confidence:   resp.Confidence,
		Model:        resp.Model,
		ResponseTime: resp.ResponseTime,
	}
}

// classifyLLM is the Tier-4 entry used by DetectIntent.
func (s *Service) classifyLLM(ctx context.Context, text string, conv model.ConversationContext) model.AIResponse {
	return s.ClassifyAndRespondWithSmartFallback(ctx, "", conv.Recent, text)
}

func (s *Service) respondWith(ctx context.Context, mgr *llmprovider.Manager, systemPrompt string, history []model.ChatMessage, message string, maxTokens int, temperature float64) model.AIResponse {
	if systemPrompt == "" {
		systemPrompt = fmt.Sprintf(SystemPromptClassify, s.intentList())
	}

	req := &llmprovider.Request{
		Messages:    buildMessages(systemPrompt, history, message),
		MaxTokens:   maxTokens,
		Temperature: temperature,
		JSONMode:    true,
	}

	start := time.Now()
	result, err := mgr.ChatWithFallback(ctx, req)
	if err != nil {
		if errors.Is(err, llmprovider.ErrAllProvidersFailed) || errors.Is(err, llmprovider.ErrNoProvidersConfigured) {
			s.l.Error(ctx, "All providers failed, serving static fallback", "error", err)
			return s.staticFallback(message, model.ModelAllLLMFailed)
		}
		s.l.Error(ctx, "Provider chain error, serving static fallback", "error", err)
		return s.staticFallback(message, model.ModelError)
	}

	resp := parser.Parse(result.Content, s.intents)
	resp.Model = result.Model
	resp.ResponseTime = time.Since(start).Milliseconds()
	if result.Usage != nil {
		resp.Usage = &model.TokenUsage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		}
	}
	return resp
}

// staticFallback is the last line of defense: a canned apology in the
// guest's language, carrying the marker that says which failure mode
// produced it.
func (s *Service) staticFallback(message, marker string) model.AIResponse {
	lang := string(s.language.DetectLanguage(message))
	text, ok := allProvidersDownMessages[lang]
	if !ok {
		text = allProvidersDownMessages["en"]
	}
	return model.AIResponse{
		Intent:     model.IntentGeneral,
		Action:     model.ActionReply,
		Response:   text,
		Confidence: 0,
		Model:      marker,
	}
}

func (s *Service) intentList() string {
	names := make([]string, 0, len(s.intents))
	for name := range s.intents {
		names = append(names, name)
	}
	sort.Strings(names)
	return "- " + strings.Join(names, "\n- ")
}

func buildMessages(systemPrompt string, history []model.ChatMessage, message string) []llmprovider.Message {
	messages := make([]llmprovider.Message, 0, len(history)+2)
	messages = append(messages, llmprovider.Message{Role: "system", Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, llmprovider.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llmprovider.Message{Role: "user", Content: message})
	return messages
}
