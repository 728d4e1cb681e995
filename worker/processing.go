package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/RussianNLP/RuBLiMP/output"
	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/tasks"
	"github.com/RussianNLP/RuBLiMP/utils"
)

const senderName = "rublimp"

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery   *amqp.Delivery
	shardTask  *tasks.ShardTask
	message    *Message
	redisKey   string
	phenomenon string
	stats      pipeline.Stats
	taskLogger *zerolog.Logger
}

func (worker *Worker) processMessage(ctx context.Context, delivery *amqp.Delivery) {
	task, err := worker.createTask(delivery)
	rejectLogger := worker.log.With().Str("message_id", delivery.MessageId).Logger()
	if err != nil {
		worker.log.Err(err).
			Str("message_id", delivery.MessageId).
			Str("tid", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.queue.requeueOrReject(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(ctx, task); err != nil {
		worker.queue.requeueOrReject(delivery, &rejectLogger)
		return
	}
	if err = worker.queue.publishResult(task, *task.message); err != nil {
		task.taskLogger.Err(err).Msg("Got error while sending message to completion queue")
		worker.queue.requeueOrReject(delivery, &rejectLogger)
		return
	}
	if err = worker.queue.ackDelivery(delivery); err != nil {
		task.taskLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.taskLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	err := json.Unmarshal(delivery.Body, &message)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	shardTask, err := worker.store.getShardTask(message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query shard task for message, got error %w", err)
	}
	taskLogger := worker.log.With().
		Str("tid", message.RedisKey).
		Str("corpus_id", shardTask.CorpusID).
		Str("config", shardTask.ConfigName).
		Logger()
	task := Task{
		delivery:   delivery,
		shardTask:  shardTask,
		redisKey:   message.RedisKey,
		message:    &message,
		taskLogger: &taskLogger,
	}
	return &task, nil
}

func (worker *Worker) processTask(ctx context.Context, task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.taskLogger.Err(err).
			Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.store.onTaskStarted(task); err != nil {
		task.taskLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update task info: %w", err)
	}
	if err = worker.runPipeline(ctx, task); err != nil {
		task.taskLogger.Err(err).Msg("Got error while running pipeline")
		if err = worker.store.onTaskFailedWithError(task, err); err != nil {
			return err
		}
		return nil
	}
	task.taskLogger.Info().Msg("Saved results, marking task as complete")
	if err = worker.store.onTaskComplete(task); err != nil {
		task.taskLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(ctx context.Context, task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.taskLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.shardTask.TaskStatuses.Generator.Attempts)

	gen, cfg, err := worker.generators.getGenerator(task)
	if err != nil {
		return fmt.Errorf("failed to load generator: %w", err)
	}
	task.phenomenon = gen.Name()

	data, err := worker.storage.getShardData(ctx, task)
	if err != nil {
		task.taskLogger.Err(err).Caller().Msg("Could not fetch shard from s3")
		return fmt.Errorf("failed fetch data from s3: %w", err)
	}

	records, stats, err := pipeline.GenerateFrom(
		ctx,
		gen,
		bytes.NewReader(data),
		task.shardTask.MaxSamples,
		pipeline.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	task.stats = stats

	result, err := output.EncodeTSV(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	task.taskLogger.Info().
		Int("sentences", stats.Sentences).
		Int("records", stats.Records).
		Msg("Finished pipeline, saving results to s3")
	if err = worker.storage.saveResultsFile(ctx, task, result); err != nil {
		task.taskLogger.Err(err).Msg("Got error while trying to save results")
		return err
	}
	return nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	taskInfo := task.shardTask.TaskStatuses.Generator
	taskLogger := task.taskLogger

	if taskInfo.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Notifying completion queue.")
		return false, nil
	}
	job, err := worker.store.getJobSettings(task)
	if err != nil {
		taskLogger.Err(err).Msg("Failed to read job settings for shard task")
		return false, err
	}
	if job.UserCanceled {
		taskLogger.Info().Msg("Job was canceled, no need to perform this task. Notifying completion queue.")
		err := worker.store.onTaskCancelled(task)
		return false, err
	}
	if job.StopShardsOnFailure {
		corpusTask, err := worker.store.getCorpusTask(task)
		if err != nil {
			return false, err
		}
		if corpusTask == nil {
			return false, fmt.Errorf("corpus task not found")
		}
		if len(corpusTask.FailedTasks) > 0 {
			failedTask := corpusTask.FailedTasks[0]
			taskLogger.Info().Msgf("Task is not required because the \"%s\" already completed failure "+
				"and corpus won't be processed successfully. Notifying completion queue.", failedTask)
			err := worker.store.onTaskCancelled(
				task,
				fmt.Sprintf(
					"Task was marked as \"%s\" because the current corpus has failed "+
						"in the \"%s\" worker and won't be processed successfully.",
					tasks.TaskStatusCanceled,
					failedTask,
				),
			)
			return false, err
		}
	}
	if taskInfo.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Generator task has exceeded retries. Notifying completion queue.")
		err = worker.store.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
		return false, err
	}
	return true, nil
}
