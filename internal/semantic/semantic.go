// Package semantic is the cascade's third tier: embedding search over a
// store of labelled example utterances. The query is embedded, the
// nearest examples are fetched from Qdrant, and the best-scoring intent
// wins.
package semantic

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"guest-intent-engine/config"
	"guest-intent-engine/internal/model"
	"guest-intent-engine/pkg/embed"
	"guest-intent-engine/pkg/log"
	"guest-intent-engine/pkg/qdrant"
)

const (
	searchLimit = 5

	// Cosine scores below this are noise, not a classification.
	minSearchScore = 0.5

	// How many trailing context messages are folded into the query
	// text. More than one drowns the current message.
	maxContextInQuery = 1
)

// Example is one labelled utterance seeded into the store.
type Example struct {
	Intent   string
	Text     string
	Language string
}

// Classifier embeds guest text and searches the intent example store.
type Classifier struct {
	embedder   embed.IEmbedder
	store      *qdrant.Client
	collection string
	l          log.Logger
}

// New builds the classifier and makes sure the collection exists.
func New(ctx context.Context, cfg config.SemanticConfig, logger log.Logger) (*Classifier, error) {
	if cfg.QdrantURL == "" {
		return nil, fmt.Errorf("semantic: qdrant URL is required")
	}

	store := qdrant.NewClient(cfg.QdrantURL, cfg.QdrantAPIKey)
	err := store.EnsureCollection(ctx, qdrant.CreateCollectionRequest{
		Name:    cfg.Collection,
		Vectors: qdrant.VectorConfig{Size: cfg.VectorSize, Distance: "Cosine"},
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: ensure collection: %w", err)
	}

	embedder := embed.New(cfg.EmbedAPIKey).
		WithBaseURL(cfg.EmbedBaseURL).
		WithModel(cfg.EmbedModel)

	return &Classifier{
		embedder:   embedder,
		store:      store,
		collection: cfg.Collection,
		l:          logger,
	}, nil
}

// Classify returns the best-matching intent for text, or nil when the
// store has nothing close enough.
func (c *Classifier) Classify(ctx context.Context, text string, recent []model.ChatMessage) (*model.TierResult, error) {
	query := buildQuery(text, recent)

	vectors, err := c.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("semantic: embed query: %w", err)
	}

	resp, err := c.store.SearchPoints(ctx, c.collection, qdrant.SearchRequest{
		Vector:         vectors[0],
		Limit:          searchLimit,
		WithPayload:    true,
		ScoreThreshold: minSearchScore,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", err)
	}
	if len(resp.Result) == 0 {
		return nil, nil
	}

	best := resp.Result[0]
	intent, ok := best.Payload["intent"].(string)
	if !ok || intent == "" {
		c.l.Warnf(ctx, "Semantic hit %s has no intent payload", best.ID)
		return nil, nil
	}

	return &model.TierResult{Intent: intent, Score: model.Clamp01(best.Score)}, nil
}

// Seed embeds and upserts example utterances. Called at startup when the
// intent config carries examples; re-seeding the same texts just
// overwrites their points.
func (c *Classifier) Seed(ctx context.Context, examples []Example) error {
	if len(examples) == 0 {
		return nil
	}

	texts := make([]string, len(examples))
	for i, ex := range examples {
		texts[i] = ex.Text
	}

	vectors, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("semantic: embed examples: %w", err)
	}

	points := make([]qdrant.Point, len(examples))
	for i, ex := range examples {
		points[i] = qdrant.Point{
			// Deterministic per text so re-seeding is idempotent.
			ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(ex.Text)).String(),
			Vector: vectors[i],
			Payload: map[string]interface{}{
				"intent":   ex.Intent,
				"text":     ex.Text,
				"language": ex.Language,
			},
		}
	}

	if err := c.store.UpsertPoints(ctx, c.collection, qdrant.UpsertPointsRequest{Points: points}); err != nil {
		return fmt.Errorf("semantic: upsert examples: %w", err)
	}

	c.l.Info(ctx, "Seeded intent examples", "count", len(points), "collection", c.collection)
	return nil
}

// buildQuery prefixes the current message with a sliver of recent user
// context so short follow-ups ("what about tomorrow?") keep their topic.
func buildQuery(text string, recent []model.ChatMessage) string {
	var parts []string
	start := len(recent) - maxContextInQuery
	if start < 0 {
		start = 0
	}
	for _, m := range recent[start:] {
		if m.Role == "user" && m.Content != "" {
			parts = append(parts, m.Content)
		}
	}
	parts = append(parts, text)
	return strings.Join(parts, "\n")
}
