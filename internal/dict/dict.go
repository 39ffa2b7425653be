package dict

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Entry groups every reading and gloss of a dictionary headword.
type Entry struct {
	Readings []string `json:"readings"`
	Meanings []string `json:"meanings"`
}

type rawWord struct {
	Kanji []struct {
		Text string `json:"text"`
	} `json:"kanji"`
	Kana []struct {
		Text string `json:"text"`
	} `json:"kana"`
	Sense []struct {
		Gloss []struct {
			Text string `json:"text"`
		} `json:"gloss"`
	} `json:"sense"`
}

type rawDict struct {
	Words []rawWord `json:"words"`
}

// Index maps every surface form (kanji and kana) of a headword to its
// entry. The mapping is built lazily from the JSON source on first
// lookup and kept for the process lifetime; entries are shared, so
// repeated lookups return the same pointer.
type Index struct {
	path string

	mu     sync.Mutex
	lookup map[string]*Entry
}

func NewIndex(path string) *Index {
	return &Index{path: path}
}

// Lookup resolves a surface form by exact match on the trimmed word.
// A missing entry is (nil, nil): normal absence, not a failure.
func (ix *Index) Lookup(word string) (*Entry, error) {
	m, err := ix.load()
	if err != nil {
		return nil, err
	}
	return m[strings.TrimSpace(word)], nil
}

func (ix *Index) load() (map[string]*Entry, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.lookup != nil {
		return ix.lookup, nil
	}

	data, err := os.ReadFile(ix.path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	var raw rawDict
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	m := make(map[string]*Entry, len(raw.Words)*2)
	for _, w := range raw.Words {
		e := &Entry{}
		for _, k := range w.Kana {
			e.Readings = append(e.Readings, k.Text)
		}
		for _, s := range w.Sense {
			for _, g := range s.Gloss {
				e.Meanings = append(e.Meanings, g.Text)
			}
		}
		for _, k := range w.Kanji {
			m[k.Text] = e
		}
		for _, k := range w.Kana {
			m[k.Text] = e
		}
	}

	ix.lookup = m
	log.Printf("[dict] indexed %d headwords (%d surface forms)", len(raw.Words), len(m))
	return m, nil
}
