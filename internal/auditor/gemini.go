package auditor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// GeminiScorer scores a statistical summary with the Gemini API. It relies on
// ambient credentials (GOOGLE_API_KEY or ADC), same as any genai client.
type GeminiScorer struct {
	client *genai.Client
	model  string
}

// NewGeminiScorer creates a scorer bound to the given model.
func NewGeminiScorer(ctx context.Context, model string) (*GeminiScorer, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiScorer{client: client, model: model}, nil
}

func (g *GeminiScorer) Name() string { return "gemini" }

// Score sends the summary scalars and parses the reply defensively. A
// non-conforming reply surfaces as ErrExternalScore and the caller fails
// closed.
func (g *GeminiScorer) Score(ctx context.Context, summary map[string]float64) (float64, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(summary)), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: gemini request: %v", ErrExternalScore, err)
	}
	return ParseScore(resp.Text())
}

// buildPrompt renders the summary with sorted keys so identical inputs
// produce an identical prompt.
func buildPrompt(summary map[string]float64) string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("You are auditing a candidate mean-reversion trade. ")
	b.WriteString("Given the following statistical readings, reply with a single number ")
	b.WriteString("between 0 and 1 expressing your confidence that the setup is sound. ")
	b.WriteString("Reply with the number only.\n\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %.6f\n", k, summary[k])
	}
	return b.String()
}
