package enrich

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/mirumoji/engine/internal/backend"
	"github.com/mirumoji/engine/internal/dict"
)

// Mode selects which enrichment source a token click resolves against.
type Mode string

const (
	ModeDictionary  Mode = "dictionary"
	ModeExplanation Mode = "explanation"
)

// Resolution is the tagged result of a word lookup: only the field of
// the requested mode is populated.
type Resolution struct {
	Mode      Mode               `json:"mode"`
	Entry     *dict.Entry        `json:"entry,omitempty"`     // dictionary mode; nil when absent
	Breakdown *backend.Breakdown `json:"breakdown,omitempty"` // explanation mode
}

const (
	sentencePlaceholder = "{sentence}"
	focusPlaceholder    = "{focus}"
)

// Resolver answers token clicks from two independent sources: the local
// static dictionary and the remote explanation backend. Explanation
// results are memoized by sentence+word for the process lifetime. The
// cache is unbounded; a single viewing session stays small enough that
// no eviction is needed.
type Resolver struct {
	dict    *dict.Index
	backend *backend.Client

	mu    sync.Mutex
	cache map[string]*backend.Breakdown
}

func NewResolver(index *dict.Index, client *backend.Client) *Resolver {
	return &Resolver{
		dict:    index,
		backend: client,
		cache:   make(map[string]*backend.Breakdown),
	}
}

// Resolve answers a token click in the requested mode.
func (r *Resolver) Resolve(ctx context.Context, mode Mode, sentence, word string) (*Resolution, error) {
	switch mode {
	case ModeDictionary:
		entry, err := r.dict.Lookup(word)
		if err != nil {
			return nil, err
		}
		return &Resolution{Mode: ModeDictionary, Entry: entry}, nil
	case ModeExplanation:
		bd, err := r.Explain(ctx, sentence, word)
		if err != nil {
			return nil, err
		}
		return &Resolution{Mode: ModeExplanation, Breakdown: bd}, nil
	default:
		return nil, fmt.Errorf("unknown resolution mode: %q", mode)
	}
}

func cacheKey(sentence, word string) string {
	return sentence + "__" + word
}

// Explain returns the explanation for (sentence, word), calling the
// backend at most once per distinct pair. A usable profile template
// routes the request through the custom endpoint; anything else —
// including the expected 404 for "no template set" — falls back to the
// default endpoint.
func (r *Resolver) Explain(ctx context.Context, sentence, word string) (*backend.Breakdown, error) {
	key := cacheKey(sentence, word)
	r.mu.Lock()
	if bd, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return bd, nil
	}
	r.mu.Unlock()

	bd, err := r.fetch(ctx, sentence, word)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[key] = bd
	r.mu.Unlock()
	return bd, nil
}

func (r *Resolver) fetch(ctx context.Context, sentence, word string) (*backend.Breakdown, error) {
	tpl, err := r.backend.GptTemplate(ctx)
	if err != nil {
		// Template fetch trouble never blocks the default path.
		log.Printf("[enrich] template fetch failed, using default breakdown: %v", err)
		tpl = nil
	}
	if tpl != nil && templateUsable(tpl) {
		prompt := strings.ReplaceAll(tpl.Prompt, sentencePlaceholder, "{0}")
		prompt = strings.ReplaceAll(prompt, focusPlaceholder, "{1}")
		return r.backend.CustomBreakdown(ctx, sentence, word, tpl.SysMsg, prompt)
	}
	return r.backend.Breakdown(ctx, sentence, word)
}

// templateUsable requires a system message and both substitution
// placeholders; a template missing either placeholder is ignored.
func templateUsable(tpl *backend.GptTemplate) bool {
	return tpl.SysMsg != "" &&
		strings.Contains(tpl.Prompt, sentencePlaceholder) &&
		strings.Contains(tpl.Prompt, focusPlaceholder)
}
