package pipeline

import (
	"context"
	"strings"

	"github.com/RussianNLP/RuBLiMP/logger"
)

// Pipeline turns a CoNLL-U request into generated records. The returned
// channel yields exactly one response.
type Pipeline func(ctx context.Context, request Request) <-chan Response

func New(gen Generator, workers int) Pipeline {
	pplnLogger := logger.NewLogger("Generation pipeline").With().Str("phenomenon", gen.Name()).Logger()

	return func(ctx context.Context, request Request) <-chan Response {
		responseChan := make(chan Response, 1)
		reqLogger := pplnLogger.With().Str("tid", request.Tid).Logger()
		reqLogger.Info().Msg("Started generation pipeline")

		go func() {
			defer close(responseChan)
			records, stats, err := GenerateFrom(ctx, gen, strings.NewReader(request.Text), request.MaxSamples, WithWorkers(workers))
			if err != nil {
				reqLogger.Error().Err(err).Msg("Generation pipeline failed")
			} else {
				reqLogger.Info().
					Int("sentences", stats.Sentences).
					Int("records", stats.Records).
					Msg("Finished generation pipeline")
			}
			responseChan <- Response{Records: records, Stats: stats, Err: err}
		}()

		return responseChan
	}
}
