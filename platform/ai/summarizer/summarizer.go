// Package summarizer generates the optional cross-channel unified summary.
// The summary is cosmetic: it is stored for display next to the lead and is
// never an input to scoring or stage classification.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Summarizer produces a short unified summary from per-channel conversation
// summaries. Implementations must be safe for concurrent use.
type Summarizer interface {
	Summarize(ctx context.Context, channelSummaries map[string]string) (string, error)
}

// Disabled is a Summarizer that produces no summary. Used when no API key is
// configured.
type Disabled struct{}

// Summarize always returns an empty summary.
func (Disabled) Summarize(context.Context, map[string]string) (string, error) {
	return "", nil
}

// Gemini is a Summarizer backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed summarizer.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &Gemini{client: client, model: defaultModel}, nil
}

// Summarize condenses the per-channel summaries into a single paragraph.
func (g *Gemini) Summarize(ctx context.Context, channelSummaries map[string]string) (string, error) {
	if len(channelSummaries) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Summarize the following per-channel sales conversation summaries ")
	b.WriteString("into one short paragraph for a sales agent. Plain text only.\n\n")
	for channel, summary := range channelSummaries {
		if strings.TrimSpace(summary) == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n", channel, summary)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(b.String()), nil)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Text()), nil
}

// Compile-time checks
var (
	_ Summarizer = Disabled{}
	_ Summarizer = (*Gemini)(nil)
)
