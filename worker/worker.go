// Package worker runs distributed generation: each RMQ message names a
// CoNLL-U shard in S3 whose minimal pairs are written back as a TSV dataset.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/rmq"
	"github.com/RussianNLP/RuBLiMP/s3client"
	"github.com/RussianNLP/RuBLiMP/tasks"
	"github.com/RussianNLP/RuBLiMP/types"
)

// Config bounds how often a failing shard is retried before it is marked
// failed.
type Config struct {
	TaskMaxRetries int `envconfig:"RUBLIMP_RETRY_TASK_COUNT_MAX" default:"3"`
}

// Worker generates minimal pairs for the shards it receives. Shards of one
// delivery stream are processed concurrently.
type Worker struct {
	config     Config
	store      taskStore
	storage    shardStorage
	queue      shardQueue
	generators generatorSource
	log        *zerolog.Logger
}

// New connects to RMQ, S3 and Redis. configs are the generation
// configurations a shard task may name.
func New(configs []types.Configuration, loader *pipeline.Loader) (*Worker, error) {
	log := logger.NewLogger("Worker")

	if len(configs) == 0 {
		return nil, errors.New("no generation configurations")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Error().Err(err).Msg("Could not read worker config")
		return nil, err
	}

	worker := Worker{
		config:     config,
		log:        &log,
		generators: &configGenerators{configs: configs, loader: loader},
	}
	for _, connect := range []struct {
		service string
		do      func() error
	}{
		{"shard queue", worker.connectQueue},
		{"shard storage", worker.connectStorage},
		{"task store", worker.connectTaskStore},
	} {
		if err := connect.do(); err != nil {
			log.Error().Err(err).Str("service", connect.service).Msg("Could not connect")
			worker.Close()
			return nil, fmt.Errorf("connect %s: %w", connect.service, err)
		}
	}
	return &worker, nil
}

// StartWorker handles shard deliveries until ctx is done or the queue cannot
// be reconnected.
func (worker *Worker) StartWorker(ctx context.Context) error {
	defer worker.Close()
	for {
		select {
		case <-ctx.Done():
			worker.log.Info().Msg("Stopping worker")
			return ctx.Err()
		case delivery, ok := <-worker.queue.shardDeliveries():
			if ok {
				go worker.processMessage(ctx, &delivery)
				continue
			}
			if err := worker.reconnectQueue("shard deliveries closed", nil); err != nil {
				return err
			}
		case rmqErr := <-worker.queue.publisherErrors():
			if rmqErr == nil {
				continue
			}
			if err := worker.reconnectQueue("result channel failed", rmqErr); err != nil {
				return err
			}
		case rmqErr := <-worker.queue.consumerErrors():
			if rmqErr == nil {
				continue
			}
			if err := worker.reconnectQueue("shard channel failed", rmqErr); err != nil {
				return err
			}
		}
	}
}

func (worker *Worker) reconnectQueue(reason string, cause *amqp.Error) error {
	event := worker.log.Error().Str("reason", reason)
	if cause != nil {
		event = event.Err(cause)
	}
	event.Msg("Reconnecting to the shard queue")
	if err := worker.connectQueue(); err != nil {
		return fmt.Errorf("%s and reconnect failed: %w", reason, err)
	}
	return nil
}

// Close releases every connection the worker holds.
func (worker *Worker) Close() {
	if worker.store != nil {
		worker.store.close()
	}
	if worker.storage != nil {
		worker.storage.close()
	}
	if worker.queue != nil {
		worker.queue.close()
	}
}

func (worker *Worker) connectTaskStore() error {
	if old := worker.store; old != nil {
		defer old.close()
	}
	tasksClient, err := tasks.NewClient()
	if err != nil {
		return err
	}
	worker.store = &taskStoreConn{&tasksClient}
	worker.log.Info().Msg("Connected to the task store")
	return nil
}

func (worker *Worker) connectQueue() error {
	if old := worker.queue; old != nil {
		defer old.close()
	}
	rmqClient, err := rmq.NewClient()
	if err != nil {
		return err
	}
	worker.queue = &queueConn{rmqClient}
	worker.log.Info().Msg("Connected to the shard queue")
	return nil
}

func (worker *Worker) connectStorage() error {
	if old := worker.storage; old != nil {
		defer old.close()
	}
	s3Client, err := s3client.New()
	if err != nil {
		return err
	}
	worker.storage = &storageConn{s3Client}
	worker.log.Info().Msg("Connected to shard storage")
	return nil
}
