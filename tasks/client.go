package tasks

import (
	"fmt"

	"github.com/RussianNLP/RuBLiMP/redis"
)

type Client struct {
	Corpora CorpusTasks
	Shards  ShardTasks
	Jobs    JobStore
}

// NewClient is a preferred way for working with task documents
func NewClient() (Client, error) {
	corporaRedisClient, err := redis.NewClient(CorporaDB)
	if err != nil {
		return Client{}, err
	}
	jobsRedisClient, err := redis.NewClient(JobsDB)
	if err != nil {
		return Client{}, err
	}
	shardsRedisClient, err := redis.NewClient(ShardsDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Corpora: CorpusTasks{client: corporaRedisClient},
		Jobs:    JobStore{client: jobsRedisClient},
		Shards:  ShardTasks{client: shardsRedisClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Shards.client.Close()
	_ = client.Corpora.client.Close()
	_ = client.Jobs.client.Close()
}

func cachedPropertiesKey(redisKey string) string {
	return fmt.Sprintf("%s-cached-properties", redisKey)
}
