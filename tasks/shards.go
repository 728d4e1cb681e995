package tasks

import (
	"encoding/json"

	"github.com/RussianNLP/RuBLiMP/redis"
)

const ShardsDB redis.DB = 2

// GeneratorTaskName identifies this worker in task statuses and failure
// lists.
const GeneratorTaskName = "generator"

type TaskStatus string

const (
	TaskStatusProcessing       TaskStatus = "processing"
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

func (s TaskStatus) Submitted() bool {
	return s == TaskStatusSubmitted || s == TaskStatusStarted || s == TaskStatusProcessing
}

// ShardTask describes one corpus shard to run through a generation
// configuration.
type ShardTask struct {
	CorpusID     string            `json:"corpus_id"`
	JobID        string            `json:"job_id"`
	ShardKey     string            `json:"shard_key"`
	ConfigName   string            `json:"config_name"`
	ParamsPatch  json.RawMessage   `json:"params_patch,omitempty"`
	MaxSamples   int               `json:"max_samples"`
	TaskStatuses ShardTaskStatuses `json:"task_statuses"`
}

type ShardTaskStatuses struct {
	Generator ShardTaskInfo `json:"generator"`
}

type ShardTaskInfo struct {
	ResultsFileKey string     `json:"results_file_key"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	Attempts       int        `json:"attempts"`
	Status         TaskStatus `json:"status"`
	Sentences      int        `json:"sentences"`
	Records        int        `json:"records"`
	ErrorMessages  []string   `json:"error_messages"`
}

type ShardTasks struct {
	client redis.Client
}

func (tasks ShardTasks) Get(redisKey string) (*ShardTask, error) {
	var task ShardTask
	err := tasks.client.GetDocument(redisKey, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks ShardTasks) Update(redisKey string, updateFunc func(task *ShardTask)) error {
	var task ShardTask
	return tasks.client.UpdateDocument(redisKey, &task, func() error {
		updateFunc(&task)
		return nil
	})
}
