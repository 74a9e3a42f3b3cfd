// Package llm turns a batch report into a plain-language explanation
// of what is wrong with the photos and how to fix it.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/dvincze/phototz/internal/report"
)

// Config holds the explainer configuration
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Explainer generates explanations using OpenAI-compatible Chat APIs
type Explainer struct {
	client *openai.Client
	config Config
}

// NewExplainer creates a new explainer
func NewExplainer(config Config) (*Explainer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Explainer{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Explain summarizes the batch report in plain language.
func (e *Explainer) Explain(ctx context.Context, batch report.BatchReport) (string, error) {
	model := e.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := e.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	timeout := e.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You explain photo metadata check results to photographers. " +
					"Describe only the problems listed in the report, group files with the same problem, " +
					"and suggest the specific metadata edits that would fix them. Do not invent files or tags.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(batch),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	resp, err := e.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildPrompt renders the batch report as a compact prompt. Clean
// files are counted, not listed, to keep the prompt small.
func BuildPrompt(batch report.BatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Checked %d photo file(s): %d ok, %d with fixable tags, %d with deletable tags, %d fatal, %d timezone mismatches, %d skipped, %d errors.\n\n",
		batch.Summary.Total, batch.Summary.OK, batch.Summary.Fixable, batch.Summary.Deletable,
		batch.Summary.Fatal, batch.Summary.TzMismatch, batch.Summary.Skipped, batch.Summary.Errors)

	for _, f := range batch.Files {
		switch f.Verdict {
		case report.VerdictOK, report.VerdictSkipped:
			continue
		case report.VerdictTzMismatch:
			fmt.Fprintf(&b, "%s: timezone mismatch: %s\n", f.Path, f.Mismatch)
		case report.VerdictError:
			fmt.Fprintf(&b, "%s: error: %s\n", f.Path, f.Error)
		default:
			fmt.Fprintf(&b, "%s:\n", f.Path)
			if f.Tags != nil {
				writeTagLines(&b, "fatal", f.Tags.Fatal)
				writeTagLines(&b, "delete", f.Tags.Deletable)
				writeTagLines(&b, "set", f.Tags.Fixable)
			}
		}
	}

	b.WriteString("\nExplain what is wrong and how to fix it.")
	return b.String()
}

func writeTagLines(b *strings.Builder, action string, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s %s = %s\n", action, k, m[k])
	}
}
