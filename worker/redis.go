package worker

import (
	"fmt"

	"github.com/RussianNLP/RuBLiMP/tasks"
)

// taskStore reads shard, job and corpus documents from Redis and records
// shard status transitions.
type taskStore interface {
	getShardTask(redisKey string) (*tasks.ShardTask, error)
	getJobSettings(task *Task) (*tasks.JobSettings, error)
	getCorpusTask(task *Task) (*tasks.CorpusTaskCached, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type taskStoreConn struct {
	tasksClient *tasks.Client
}

func (wrapper *taskStoreConn) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *taskStoreConn) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Shards.Update(task.redisKey, func(shardTask *tasks.ShardTask) {
		onStarted(&shardTask.TaskStatuses.Generator)
	})
}

func (wrapper *taskStoreConn) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Shards.Update(task.redisKey, func(shardTask *tasks.ShardTask) {
		onCancelled(&shardTask.TaskStatuses.Generator, errorMessages...)
	})
}

func (wrapper *taskStoreConn) onTaskExceededRetries(task *Task, maxRetries int) error {
	err := wrapper.tasksClient.Corpora.Update(task.shardTask.CorpusID, func(corpusTask *tasks.CorpusTask) {
		corpusTask.FailedTasks = append(corpusTask.FailedTasks, tasks.GeneratorTaskName)
		corpusTask.FailedShards[task.redisKey] = append(corpusTask.FailedShards[task.redisKey], tasks.GeneratorTaskName)
	})
	if err != nil {
		return err
	}
	return wrapper.tasksClient.Shards.Update(task.redisKey, func(shardTask *tasks.ShardTask) {
		onExceededRetries(&shardTask.TaskStatuses.Generator, maxRetries)
	})
}

func (wrapper *taskStoreConn) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Shards.Update(task.redisKey, func(shardTask *tasks.ShardTask) {
		onFailed(&shardTask.TaskStatuses.Generator, err)
	})
}

func (wrapper *taskStoreConn) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Shards.Update(task.redisKey, func(shardTask *tasks.ShardTask) {
		onComplete(&shardTask.TaskStatuses.Generator, task)
	})
}

func (wrapper *taskStoreConn) getShardTask(redisKey string) (*tasks.ShardTask, error) {
	return wrapper.tasksClient.Shards.Get(redisKey)
}

func (wrapper *taskStoreConn) getJobSettings(task *Task) (*tasks.JobSettings, error) {
	return wrapper.tasksClient.Jobs.Settings(task.shardTask.JobID)
}

func (wrapper *taskStoreConn) getCorpusTask(task *Task) (*tasks.CorpusTaskCached, error) {
	return wrapper.tasksClient.Corpora.GetCached(task.shardTask.CorpusID)
}

func onStarted(info *tasks.ShardTaskInfo) {
	info.Status = tasks.TaskStatusStarted
	info.Attempts += 1
	info.StartedAt = getFormattedNow()
	info.CompletedAt = nil
}

func onCancelled(info *tasks.ShardTaskInfo, errorMessages ...string) {
	info.Status = tasks.TaskStatusCanceled
	info.StartedAt = getFormattedNow()
	info.CompletedAt = getFormattedNow()
	info.Attempts += 1
	info.ErrorMessages = append(info.ErrorMessages, errorMessages...)
}

func onExceededRetries(info *tasks.ShardTaskInfo, maxRetries int) {
	info.Status = tasks.TaskStatusCompletedFailure
	info.StartedAt = getFormattedNow()
	info.CompletedAt = getFormattedNow()
	info.Attempts += 1
	info.ErrorMessages = append(
		info.ErrorMessages,
		fmt.Sprintf(
			"Task has exceeded retries. (Attempts: %d, max retries: %d )",
			info.Attempts,
			maxRetries,
		),
	)
}

func onFailed(info *tasks.ShardTaskInfo, err error) {
	info.Status = tasks.TaskStatusFailed
	info.CompletedAt = getFormattedNow()
	info.ErrorMessages = append(info.ErrorMessages, err.Error())
}

func onComplete(info *tasks.ShardTaskInfo, task *Task) {
	if !info.Status.Complete() {
		info.Status = tasks.TaskStatusCompletedSuccess
	}
	info.CompletedAt = getFormattedNow()
	info.ResultsFileKey = getResultsFileKey(task)
	info.Sentences = task.stats.Sentences
	info.Records = task.stats.Records
}
