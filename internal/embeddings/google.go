package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const googleEmbedURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:embedContent?key=%s"

// DefaultGoogleEmbeddingModel is used when the config leaves the
// embedding model blank.
const DefaultGoogleEmbeddingModel = "gemini-embedding-001"

// GoogleEmbedder calls the Generative Language embedContent endpoint.
// The API only accepts one text per request, so inputs are embedded
// sequentially.
type GoogleEmbedder struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGoogleEmbedder(apiKey, model string) *GoogleEmbedder {
	if model == "" {
		model = DefaultGoogleEmbeddingModel
	}
	return &GoogleEmbedder{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

func (e *GoogleEmbedder) Name() string { return e.model }

func (e *GoogleEmbedder) Dimensions() int {
	if e.model == "text-embedding-004" {
		return 768
	}
	return 3072
}

type googleEmbedRequest struct {
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

type googleEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (e *GoogleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (e *GoogleEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	var reqBody googleEmbedRequest
	reqBody.Content.Parts = []struct {
		Text string `json:"text"`
	}{{Text: text}}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal google embed request: %w", err)
	}

	url := fmt.Sprintf(googleEmbedURL, e.model, e.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create google embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google embed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google embed API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result googleEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode google embed response: %w", err)
	}
	if len(result.Embedding.Values) == 0 {
		return nil, fmt.Errorf("google returned empty embedding")
	}
	return result.Embedding.Values, nil
}
