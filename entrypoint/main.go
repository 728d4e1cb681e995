package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"

	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/types"
)

type Config struct {
	ConfigPath    string `envconfig:"RUBLIMP_CONFIG_PATH" default:"configs"`
	ResourcesPath string `envconfig:"RUBLIMP_RESOURCES_PATH" default:"resources"`
	RestAPIActive bool   `envconfig:"RUBLIMP_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"RUBLIMP_REST_API_PORT" default:"10000"`
}

const (
	configLoadMaxRetries = 5
	sampleSize           = 100
)

func main() {
	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		mainLogger.Fatal().Caller().Err(err).Msg("Failed to read environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(config).RunContext(ctx, os.Args); err != nil {
		mainLogger.Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}

func newApp(config Config) *cli.App {
	return &cli.App{
		Name:  "rublimp",
		Usage: "generate Russian minimal pairs from parsed corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "configs",
				Usage: "generation configuration directory",
				Value: config.ConfigPath,
			},
			&cli.StringFlag{
				Name:  "resources",
				Usage: "directory of dictionaries and lemma lists",
				Value: config.ResourcesPath,
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			serveCommand(config),
			workCommand(config),
		},
	}
}

// loadConfiguration accepts either a YAML file or a configuration name
// looked up in the configuration directory.
func loadConfiguration(configDir, nameOrPath string) (types.Configuration, error) {
	if strings.HasSuffix(nameOrPath, ".yaml") {
		return types.LoadConfiguration(nameOrPath)
	}
	cfgs, err := types.LoadConfigurations(configDir)
	if err != nil {
		return types.Configuration{}, err
	}
	cfg, ok := types.FindConfiguration(cfgs, nameOrPath)
	if !ok {
		return cfg, fmt.Errorf("configuration %q not found in %s", nameOrPath, filepath.Clean(configDir))
	}
	return cfg, nil
}

func loadConfigurationsWithRetry(ctx context.Context, configDir string) ([]types.Configuration, error) {
	mainLogger := logger.NewLogger("Main")
	for retry := 0; retry < configLoadMaxRetries; retry++ {
		cfgs, err := types.LoadConfigurations(configDir)
		if err == nil && len(cfgs) > 0 {
			mainLogger.Info().Msgf("Loaded %d configurations", len(cfgs))
			return cfgs, nil
		}
		if err == nil {
			err = fmt.Errorf("no configurations in %s", configDir)
		}
		mainLogger.Err(err).Msg("Failed to load configurations. Retrying in 5 sec")
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("could not load configurations after %d retries", configLoadMaxRetries)
}
