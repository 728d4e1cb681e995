package worker

import (
	"context"

	"github.com/RussianNLP/RuBLiMP/s3client"
)

const tsvContentType = "text/tab-separated-values"

// shardStorage downloads CoNLL-U shards and uploads generated TSV datasets.
type shardStorage interface {
	saveResultsFile(ctx context.Context, task *Task, result []byte) error
	getShardData(ctx context.Context, task *Task) ([]byte, error)
	close()
}

type storageConn struct {
	s3Client *s3client.Client
}

func (wrapper *storageConn) close() {
	wrapper.s3Client.Close()
}

func (wrapper *storageConn) saveResultsFile(ctx context.Context, task *Task, result []byte) error {
	resultsFileKey := getResultsFileKey(task)
	_, err := wrapper.s3Client.Upload(ctx, result, resultsFileKey, tsvContentType)
	return err
}

func (wrapper *storageConn) getShardData(ctx context.Context, task *Task) ([]byte, error) {
	return wrapper.s3Client.Download(ctx, task.shardTask.ShardKey)
}
