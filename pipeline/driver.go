package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RussianNLP/RuBLiMP/conllu"
	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

// Stats summarizes one generation run.
type Stats struct {
	Sentences  int                      `json:"sentences"`
	Records    int                      `json:"records"`
	Duplicates int                      `json:"duplicates"`
	Skipped    map[types.SkipReason]int `json:"skipped"`
}

func newStats() Stats {
	return Stats{Skipped: make(map[types.SkipReason]int)}
}

func (s *Stats) add(res types.Result) {
	s.Sentences++
	if res.Skip != types.SkipNone {
		s.Skipped[res.Skip]++
	}
}

type options struct {
	workers  int
	progress func(types.Result)
}

type Option func(*options)

// WithWorkers sets the number of sentences processed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithProgress registers a callback run after each sentence, in corpus order.
func WithProgress(fn func(types.Result)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Generate runs gen over the CoNLL-U corpus at corpusPath. At most
// maxSamples sentences are read when maxSamples is positive.
func Generate(ctx context.Context, gen Generator, corpusPath string, maxSamples int, opts ...Option) ([]types.Record, Stats, error) {
	f, err := os.Open(corpusPath)
	if err != nil {
		return nil, newStats(), fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return GenerateFrom(ctx, gen, f, maxSamples, opts...)
}

// GenerateFrom is Generate over an already opened corpus. Sentence faults
// are logged and counted, never returned. Records keep corpus order and
// repeated pairs are dropped.
func GenerateFrom(ctx context.Context, gen Generator, r io.Reader, maxSamples int, opts ...Option) ([]types.Record, Stats, error) {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	driverLogger := logger.NewLogger("Driver").With().Str("phenomenon", gen.Name()).Logger()
	start := time.Now()

	sentences, errc := conllu.ReadStream(ctx, r, maxSamples)
	results := runOrdered(gen, sentences, o.workers)

	stats := newStats()
	seen := make(map[uint64]bool)
	var records []types.Record
	for res := range results {
		stats.add(res)
		if res.Skip == types.SkipFault {
			driverLogger.Error().
				Err(res.Err).
				Str("sentence", res.SentenceID).
				Msg("Sentence generation failed")
			var panicErr *utils.PanicError
			if errors.As(res.Err, &panicErr) {
				driverLogger.Debug().Str("sentence", res.SentenceID).Msg(string(panicErr.Stack))
			}
		}
		for _, rec := range res.Records {
			key := recordKey(rec)
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true
			records = append(records, rec)
		}
		if o.progress != nil {
			o.progress(res)
		}
	}
	stats.Records = len(records)

	if err := <-errc; err != nil {
		return records, stats, err
	}

	driverLogger.Info().
		Int("sentences", stats.Sentences).
		Int("records", stats.Records).
		Int("duplicates", stats.Duplicates).
		Interface("skipped", stats.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("Generation finished")
	return records, stats, nil
}

func recordKey(rec types.Record) uint64 {
	return utils.HashStrings(rec.SourceSentence, rec.TargetSentence, rec.PhenomenonSubtype, rec.Feature)
}

// runOrdered fans sentences out to workers and yields results in input
// order.
func runOrdered(gen Generator, sentences <-chan *types.Sentence, workers int) <-chan types.Result {
	type job struct {
		sent *types.Sentence
		out  chan types.Result
	}

	jobs := make(chan job)
	queue := make(chan chan types.Result, workers)
	results := make(chan types.Result)

	for i := 0; i < workers; i++ {
		go func() {
			for j := range jobs {
				j.out <- generateSafe(gen, j.sent)
			}
		}()
	}

	go func() {
		defer close(queue)
		defer close(jobs)
		for sent := range sentences {
			out := make(chan types.Result, 1)
			jobs <- job{sent: sent, out: out}
			queue <- out
		}
	}()

	go func() {
		defer close(results)
		for out := range queue {
			results <- <-out
		}
	}()

	return results
}

func generateSafe(gen Generator, sent *types.Sentence) (res types.Result) {
	var err error
	defer func() {
		if err != nil {
			res = types.Result{SentenceID: sent.ID, Skip: types.SkipFault, Err: err}
		}
	}()
	defer utils.RecoverWithError(&err)
	return gen.Generate(sent)
}
