package copywriter

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
	"github.com/Matheuslarroque/pesquisador-junior/logger"
)

// OpenAIGenerator produces copy through the OpenAI chat completions API
type OpenAIGenerator struct {
	client openai.Client
	model  string
	log    *logger.Logger
}

// NewOpenAIGenerator creates a generator using the given API key and model
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	client := openai.NewClient(option.WithAPIKey(apiKey))

	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}

	return &OpenAIGenerator{
		client: client,
		model:  model,
		log:    logger.ForCopywriter(),
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, p scraper.ProductRecord) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserPrompt(p)),
		},
		Temperature: openai.Float(0.7),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapGenerateError(p, err)
	}

	if len(resp.Choices) == 0 {
		return "", wrapGenerateError(p, errors.New("empty completion response"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	g.log.WithField("title", p.Title).Debug().Msg("Generated copy")
	return content, nil
}
