package cue

import (
	"context"
	"log"

	"github.com/mirumoji/engine/internal/subtitle"
	"github.com/mirumoji/engine/internal/tokenizer"
)

// Cue is a time-bounded subtitle segment with its tokenized text.
type Cue struct {
	Start  float64           `json:"start"`
	End    float64           `json:"end"`
	Tokens []tokenizer.Token `json:"tokens"`
	Raw    string            `json:"raw"`
}

// Compiler joins parsed subtitle blocks with the shared tokenizer to
// produce playable cues.
type Compiler struct {
	tok *tokenizer.Service
}

func NewCompiler(tok *tokenizer.Service) *Compiler {
	return &Compiler{tok: tok}
}

// Compile never fails: when the tokenizer is unavailable or rejects a
// sentence, the cue degrades to per-character tokens so token-level
// interaction keeps working. The cue shape is identical on both paths —
// only token granularity differs.
func (c *Compiler) Compile(ctx context.Context, raws []subtitle.RawCue) []Cue {
	cues := make([]Cue, 0, len(raws))
	degraded := 0
	for _, rc := range raws {
		sentence := subtitle.StripMarkup(rc.Text)
		toks, err := c.tok.Tokenize(ctx, sentence)
		if err != nil {
			toks = tokenizer.FallbackTokens(sentence)
			degraded++
		}
		cues = append(cues, Cue{
			Start:  subtitle.ToSeconds(rc.StartTime),
			End:    subtitle.ToSeconds(rc.EndTime),
			Tokens: toks,
			Raw:    sentence,
		})
	}
	if degraded > 0 {
		log.Printf("[cue] %d/%d cues degraded to per-character tokens", degraded, len(cues))
	}
	return cues
}
