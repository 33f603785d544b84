package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"go-model-comparator/pkg/models"
)

// OllamaProvider talks to a local Ollama server through its OpenAI-compatible
// chat completions endpoint, so the same client covers any compatible runner.
type OllamaProvider struct {
	client openai.Client
}

func NewOllamaProvider(baseURL string) *OllamaProvider {
	return &OllamaProvider{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			// Ollama ignores the key but the client requires one
			option.WithAPIKey("ollama"),
		),
	}
}

func (p *OllamaProvider) Name() models.Provider {
	return models.ProviderOllama
}

func (p *OllamaProvider) Invoke(ctx context.Context, req Request) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.User),
	}
	if req.ImageBase64 != "" {
		dataURI := fmt.Sprintf("data:%s;base64,%s", req.ImageMIME, req.ImageBase64)
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURI,
		}))
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.System),
		openai.UserMessage(parts),
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
