package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/RussianNLP/RuBLiMP/api"
	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/types"
)

func serveCommand(config Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the generation REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "configuration name or YAML file", Value: types.PhenomenonAgreement},
			&cli.StringFlag{Name: "port", Usage: "listen port", Value: config.RestAPIPort},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfiguration(c.String("configs"), c.String("config"))
			if err != nil {
				return err
			}
			gen, err := pipeline.NewLoader(c.String("resources")).Load(cfg)
			if err != nil {
				return err
			}
			return serveAPI(c.Context, pipeline.New(gen, cfg.Workers), c.String("port"))
		},
	}
}

func serveAPI(ctx context.Context, ppln pipeline.Pipeline, port string) error {
	apiLogger := logger.NewLogger("Main")

	mux := http.NewServeMux()
	apiRequest := &api.Request{
		Pipeline: ppln,
	}
	mux.HandleFunc("/", apiRequest.ProcessData)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	apiLogger.Info().Msgf("REST API on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		apiLogger.Err(err).Msg("REST API stopped with error")
		return err
	}
	return nil
}
