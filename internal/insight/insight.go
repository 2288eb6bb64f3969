// Package insight turns a cleaned table into a textual summary and asks a
// language model for observations about it.
package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/edalens/internal/ai"
	"github.com/KaramelBytes/edalens/internal/table"
	"github.com/KaramelBytes/edalens/internal/utils"
)

const promptPrefix = "Analyze the Dataset Summary and provide key insights:\n\n"

// Prompt builds the instruction sent to the model for a rendered summary.
func Prompt(summary string) string {
	return promptPrefix + summary
}

// Summary bundles the descriptive statistics and the model's commentary.
type Summary struct {
	Description *table.Description
	Missing     []table.MissingCount
	Insight     string
}

// DescriptionText renders the statistics table.
func (s *Summary) DescriptionText() string { return s.Description.String() }

// MissingText renders the per-column missing counts.
func (s *Summary) MissingText() string { return table.MissingString(s.Missing) }

// Summarizer asks Runtime for insights about a table. When Runtime is nil the
// statistics are still produced and Insight is left empty.
type Summarizer struct {
	Runtime ai.Runtime
	Model   string
}

// Describe computes the statistics without contacting a model.
func Describe(t *table.Table) *Summary {
	return &Summary{Description: table.Describe(t), Missing: t.MissingCounts()}
}

// Summarize describes t and sends the description to the model as a single
// user message. Inference failures are returned as-is.
func (s *Summarizer) Summarize(ctx context.Context, t *table.Table) (*Summary, error) {
	if t == nil {
		return nil, errors.New("nil table")
	}
	out := Describe(t)
	if s.Runtime == nil {
		return out, nil
	}
	model := s.Model
	if model == "" {
		model = ai.DefaultModel
	}
	prompt := Prompt(out.DescriptionText())
	start := time.Now()
	resp, err := s.Runtime.Generate(ctx, ai.UserPrompt(model, prompt))
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}
	out.Insight = resp.Text()
	log.Debug().
		Str("model", model).
		Int("prompt_tokens_est", utils.CountTokens(prompt)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Dur("took", time.Since(start)).
		Msg("insights generated")
	return out, nil
}
