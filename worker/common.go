package worker

import (
	"path"
	"time"

	"github.com/RussianNLP/RuBLiMP/output"
)

// getResultsFileKey is processed/corpora/<corpus>/<phenomenon>/<shard>.tsv.
func getResultsFileKey(task *Task) string {
	return path.Join(
		"processed",
		"corpora",
		task.shardTask.CorpusID,
		task.phenomenon,
		output.ShardName(task.shardTask.ShardKey)+output.Extension,
	)
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func getFormattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
