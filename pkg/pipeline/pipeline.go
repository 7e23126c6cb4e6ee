// Package pipeline phonemizes whole documents. Workers handle the CPU-bound
// per-word normalization concurrently; pronunciation lookups all run on one
// goroutine because a Resolver is single-writer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/phenning/phonolex/pkg/phonemize"
)

// Result is the pronunciation outcome for one word of a document.
// Found is false when the word resolved to nothing anywhere.
type Result struct {
	Word     string
	Phonemes phonemize.Pronunciation
	Found    bool
}

// PoolInterface abstracts the worker pool so tests can inject failing
// implementations.
type PoolInterface interface {
	Start(ctx context.Context)
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Phonemizer runs documents through a Resolver.
type Phonemizer struct {
	Resolver *phonemize.Resolver

	// Concurrency settings for the normalization side.
	Workers int

	// OnProgress is called periodically with processed and total word counts.
	OnProgress func(current, total int)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) PoolInterface
}

// NewPhonemizer creates a document phonemizer around a resolver.
func NewPhonemizer(r *phonemize.Resolver) *Phonemizer {
	return &Phonemizer{
		Resolver: r,
		Workers:  4,
	}
}

var wordRE = regexp.MustCompile(`\pL[\pL\pM'’-]*`)

// Words splits a document into candidate word tokens: letter runs with
// inner apostrophes and hyphens kept.
func Words(text string) []string {
	return wordRE.FindAllString(text, -1)
}

type normalized struct {
	index int
	word  string
}

// PhonemizeDocument tokenizes text and resolves every word in order.
// Resolver misses become Results with Found unset; store or analyzer
// failures abort the run.
func (p *Phonemizer) PhonemizeDocument(ctx context.Context, text string) ([]Result, error) {
	words := Words(text)
	total := len(words)
	if total == 0 {
		return nil, nil
	}

	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}

	var pool PoolInterface
	if p.PoolFactory != nil {
		pool = p.PoolFactory(workers, workers*2)
	} else {
		pool = NewWorkerPool(workers, workers*2)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan normalized, workers*2)
	pool.Start(ctx)

	results := make([]Result, 0, total)
	doneCh := make(chan error, 1)

	// Consumer: reorder by index and resolve sequentially. The Resolver is
	// only ever touched from this goroutine.
	go func() {
		defer close(doneCh)
		buffer := make(map[int]normalized)
		next := 0
		for next < total {
			var item normalized
			if buffered, ok := buffer[next]; ok {
				item = buffered
				delete(buffer, next)
			} else {
				select {
				case <-ctx.Done():
					doneCh <- ctx.Err()
					return
				case got, ok := <-resultCh:
					if !ok {
						doneCh <- fmt.Errorf("word stream ended early at %d of %d", next, total)
						return
					}
					if got.index != next {
						buffer[got.index] = got
						continue
					}
					item = got
				}
			}

			pron, err := p.Resolver.Resolve(item.word)
			switch {
			case err == nil:
				results = append(results, Result{Word: item.word, Phonemes: pron, Found: true})
			case errors.Is(err, phonemize.ErrNotFound):
				results = append(results, Result{Word: item.word})
			default:
				cancel()
				doneCh <- err
				return
			}

			next++
			if p.OnProgress != nil && (next%50 == 0 || next == total) {
				p.OnProgress(next, total)
			}
		}
		doneCh <- nil
	}()

	// Producers: normalize words concurrently.
	var sendWG sync.WaitGroup
produce:
	for i, w := range words {
		idx, word := i, w
		sendWG.Add(1)
		job := func(ctx context.Context) error {
			defer sendWG.Done()
			item := normalized{index: idx, word: norm.NFC.String(word)}
			select {
			case resultCh <- item:
			case <-ctx.Done():
			}
			return nil
		}
		if err := pool.SubmitCtx(ctx, job); err != nil {
			sendWG.Done()
			if err == ctx.Err() || errors.Is(err, ErrPoolClosed) {
				break produce
			}
			return nil, err
		}
	}

	go func() {
		sendWG.Wait()
		close(resultCh)
	}()

	err := <-doneCh
	pool.Close()
	if err != nil {
		return nil, err
	}
	return results, nil
}
