package mt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ShikharGupta-75/Video-Call-translator/lang"
)

// OpenAI translates with a chat completion. Slower and costlier than
// the gtx endpoint but far better with idiom and tone.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

func (o *OpenAI) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       o.model,
			Temperature: 0.2,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: translatePrompt(source, target),
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: text,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func translatePrompt(source, target string) string {
	return fmt.Sprintf(
		"You translate live captions from %s to %s. Reply with the translation only, no commentary.",
		languageName(source), languageName(target))
}

func languageName(code string) string {
	if l, ok := lang.ByCode(code); ok {
		return l.Name
	}
	return code
}
