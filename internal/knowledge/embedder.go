package knowledge

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Embedder produces vector embeddings for knowledge base content.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder generates embeddings using Google's Gemini API. Documents
// and queries use asymmetric retrieval task types so similarity matching
// follows the API's intended usage.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	dims   int
}

// NewGeminiEmbedder creates an embedder backed by the Gemini API.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dimensions int) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embeddings api key required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  model,
		dims:   dimensions,
	}, nil
}

// EmbedDocument embeds content for storage in the knowledge base.
func (e *GeminiEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, genai.TaskTypeRetrievalDocument)
}

// EmbedQuery embeds a search query for similarity matching against
// stored documents.
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, genai.TaskTypeRetrievalQuery)
}

// Close releases the underlying API client.
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *GeminiEmbedder) embed(ctx context.Context, text string, task genai.TaskType) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentRequest{
		TaskType: task,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedFailed, err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrEmbedFailed)
	}

	// The embedding column dimension is fixed at migration time; a model
	// producing a different width must fail here, not at insert.
	values := result.Embeddings[0].Values
	if len(values) != e.dims {
		return nil, fmt.Errorf(
			"%w: model returned %d dimensions, store expects %d",
			ErrEmbedFailed, len(values), e.dims,
		)
	}

	return values, nil
}
