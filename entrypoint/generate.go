package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/RussianNLP/RuBLiMP/conllu"
	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/output"
	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/types"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "generate minimal pairs for one CoNLL-U shard",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "configuration name or YAML file", Value: types.PhenomenonAgreement},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "CoNLL-U shard", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output directory", Value: "generated"},
			&cli.StringFlag{Name: "params", Usage: "JSON merge patch applied to the configuration"},
			&cli.IntFlag{Name: "workers", Usage: "sentences processed concurrently (overrides the configuration)"},
			&cli.BoolFlag{Name: "sample", Usage: fmt.Sprintf("process only the first %d sentences", sampleSize)},
			&cli.BoolFlag{Name: "no-progress", Usage: "disable the progress bar"},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	runID := uuid.NewString()
	genLogger := logger.NewLogger("Generate").With().Str("run_id", runID).Logger()

	cfg, err := loadConfiguration(c.String("configs"), c.String("config"))
	if err != nil {
		return err
	}
	if patch := c.String("params"); patch != "" {
		if cfg, err = cfg.ApplyPatch([]byte(patch)); err != nil {
			return err
		}
	}
	if n := c.Int("workers"); n > 0 {
		cfg.Workers = n
	}

	gen, err := pipeline.NewLoader(c.String("resources")).Load(cfg)
	if err != nil {
		return err
	}

	input := c.String("input")
	maxSamples := 0
	if c.Bool("sample") {
		maxSamples = sampleSize
	}

	opts := []pipeline.Option{pipeline.WithWorkers(cfg.Workers)}
	if !c.Bool("no-progress") {
		total, err := countSentences(input, maxSamples)
		if err != nil {
			return err
		}
		uiprogress.Start()
		defer uiprogress.Stop()
		bar := uiprogress.AddBar(total)
		bar.AppendCompleted()
		bar.PrependElapsed()
		opts = append(opts, pipeline.WithProgress(func(types.Result) {
			bar.Incr()
		}))
	}

	genLogger.Info().
		Str("configuration", cfg.Name).
		Str("input", input).
		Bool("sample", maxSamples > 0).
		Msg("Starting generation")

	records, stats, err := pipeline.Generate(c.Context, gen, input, maxSamples, opts...)
	if err != nil {
		return err
	}
	written, err := output.WriteShard(c.String("output"), gen.Name(), input, records)
	if err != nil {
		return err
	}

	genLogger.Info().
		Str("output", written).
		Int("sentences", stats.Sentences).
		Int("pairs", len(records)).
		Msgf("Generated %d pairs", len(records))
	return nil
}

func countSentences(path string, limit int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := conllu.Count(f)
	if err != nil {
		return 0, err
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n, nil
}
