package tasks

import (
	"github.com/RussianNLP/RuBLiMP/redis"
)

const CorporaDB redis.DB = 0

type CorpusTask struct {
	FailedTasks  []string            `json:"failed_tasks"`
	FailedShards map[string][]string `json:"failed_shards"`
}

// CorpusTaskCached is the read-mostly copy of a corpus task.
type CorpusTaskCached struct {
	CorpusInfo  map[string]interface{} `json:"corpus_info"`
	FailedTasks []string               `json:"failed_tasks"`
	JobID       string                 `json:"job_id"`
	WorkType    string                 `json:"work_type"`
}

type CorpusTasks struct {
	client redis.Client
}

func (tasks CorpusTasks) Get(redisKey string) (*CorpusTask, error) {
	var task CorpusTask
	err := tasks.client.GetDocument(redisKey, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks CorpusTasks) GetCached(redisKey string) (*CorpusTaskCached, error) {
	var task CorpusTaskCached
	err := tasks.client.GetDocument(cachedPropertiesKey(redisKey), &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies updateFunc to the corpus task and mirrors its failed
// tasks into the cached copy.
func (tasks CorpusTasks) Update(redisKey string, updateFunc func(task *CorpusTask)) error {
	var task CorpusTask
	err := tasks.client.UpdateDocument(redisKey, &task, func() error {
		if task.FailedShards == nil {
			task.FailedShards = make(map[string][]string)
		}
		updateFunc(&task)
		return nil
	})
	if err != nil {
		return err
	}

	var cached CorpusTaskCached
	return tasks.client.UpdateDocument(cachedPropertiesKey(redisKey), &cached, func() error {
		cached.FailedTasks = task.FailedTasks
		return nil
	})
}
