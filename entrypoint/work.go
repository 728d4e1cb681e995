package main

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/worker"
)

func workCommand(config Config) *cli.Command {
	return &cli.Command{
		Name:  "work",
		Usage: "consume shard tasks from RabbitMQ",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "api", Usage: "also serve the REST API", Value: config.RestAPIActive},
			&cli.StringFlag{Name: "port", Usage: "REST API listen port", Value: config.RestAPIPort},
		},
		Action: func(c *cli.Context) error {
			workLogger := logger.NewLogger("Main")

			cfgs, err := loadConfigurationsWithRetry(c.Context, c.String("configs"))
			if err != nil {
				return err
			}
			loader := pipeline.NewLoader(c.String("resources"))

			if c.Bool("api") {
				cfg, ok := types.FindConfiguration(cfgs, types.PhenomenonAgreement)
				if !ok {
					cfg = cfgs[0]
				}
				gen, err := loader.Load(cfg)
				if err != nil {
					return err
				}
				go func() {
					workLogger.Info().Msg("Starting API service")
					if err := serveAPI(c.Context, pipeline.New(gen, cfg.Workers), c.String("port")); err != nil {
						workLogger.Fatal().Err(err).Msg("REST API stopped with error")
					}
				}()
			}

			workLogger.Info().Msg("Start generation worker")
			for c.Context.Err() == nil {
				rmqWorker, err := worker.New(cfgs, loader)
				if err != nil {
					workLogger.Err(err).Msg("Could not initialize RMQ worker")
					return err
				}
				err = rmqWorker.StartWorker(c.Context)
				if errors.Is(err, context.Canceled) {
					break
				}
				if err != nil {
					workLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
					time.Sleep(5 * time.Second)
				}
			}
			return nil
		},
	}
}
