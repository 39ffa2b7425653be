package tokenizer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Segmenter produces tokens for a single sentence.
type Segmenter interface {
	Segment(sentence string) ([]Token, error)
}

// State is the lifecycle state of the shared segmenter handle.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Failed
)

// Service owns the process-wide segmenter handle. The dictionary is
// built once, on first demand; concurrent callers before the build
// settles all share the same in-flight build, and the outcome — success
// or failure — is cached for the lifetime of the service. A failed load
// stays failed: callers degrade instead of retrying.
type Service struct {
	build func() (Segmenter, error)

	mu   sync.Mutex
	done chan struct{}
	seg  Segmenter
	err  error
}

// NewService returns a service backed by the kagome IPADIC tokenizer.
func NewService() *Service {
	return NewServiceWith(newKagomeSegmenter)
}

// NewServiceWith injects an alternate segmenter builder, used by tests.
func NewServiceWith(build func() (Segmenter, error)) *Service {
	return &Service{build: build}
}

// State reports the current lifecycle state of the handle.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return Uninitialized
	}
	select {
	case <-s.done:
		if s.err != nil {
			return Failed
		}
		return Ready
	default:
		return Loading
	}
}

// Get returns the shared segmenter, starting the build on first call.
// It blocks until the build settles or ctx is done.
func (s *Service) Get(ctx context.Context) (Segmenter, error) {
	s.mu.Lock()
	if s.done == nil {
		s.done = make(chan struct{})
		go s.load(s.done)
	}
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return s.seg, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) load(done chan struct{}) {
	start := time.Now()
	seg, err := s.build()
	s.seg, s.err = seg, err
	if err != nil {
		log.Printf("[tokenizer] dictionary load failed: %v", err)
	} else {
		log.Printf("[tokenizer] dictionary ready in %s", time.Since(start))
	}
	close(done)
}

// Tokenize segments a sentence with the shared handle.
func (s *Service) Tokenize(ctx context.Context, sentence string) ([]Token, error) {
	seg, err := s.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("tokenizer unavailable: %w", err)
	}
	return seg.Segment(sentence)
}
