package cue

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/mirumoji/engine/internal/subtitle"
)

// Pipeline owns the currently loaded subtitle track. Loads are guarded
// by a generation counter: a load superseded while compiling never
// commits, so the newest subtitle always wins.
type Pipeline struct {
	compiler *Compiler

	mu   sync.Mutex
	gen  uint64
	cues []Cue
}

func NewPipeline(compiler *Compiler) *Pipeline {
	return &Pipeline{compiler: compiler}
}

// Load parses and compiles doc, committing the result only if no newer
// load started in the meantime. It returns the compiled cues and
// whether they were committed.
func (p *Pipeline) Load(ctx context.Context, doc string) ([]Cue, bool) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	raws := subtitle.ParseSRT(strings.TrimSpace(doc))
	cues := p.compiler.Compile(ctx, raws)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		log.Printf("[cue] discarding superseded compilation (gen %d, current %d)", gen, p.gen)
		return cues, false
	}
	p.cues = cues
	log.Printf("[cue] loaded %d cues (gen %d)", len(cues), gen)
	return cues, true
}

// Cues returns the committed cue sequence.
func (p *Pipeline) Cues() []Cue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cues
}

// Clear drops the loaded track and invalidates any in-flight load.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.cues = nil
}
