package tasks

import (
	"github.com/RussianNLP/RuBLiMP/redis"
)

const JobsDB redis.DB = 1

// JobSettings are the job-wide switches a shard checks before generating.
type JobSettings struct {
	// UserCanceled stops every shard that has not started yet.
	UserCanceled bool `json:"user_canceled"`
	// StopShardsOnFailure cancels the remaining shards of a corpus once one
	// of its shards has failed.
	StopShardsOnFailure bool `json:"stop_shards_on_failure"`
}

// JobStore reads job documents. Jobs are written by the scheduler, so the
// worker only sees their cached copy.
type JobStore struct {
	client redis.Client
}

// Settings returns the cached settings of the job with the given id.
func (store JobStore) Settings(jobID string) (*JobSettings, error) {
	var settings JobSettings
	if err := store.client.GetDocument(cachedPropertiesKey(jobID), &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
