package worker

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/tasks"
	"github.com/RussianNLP/RuBLiMP/types"
)

const shardData = `# sent_id = 1
# text = Мама спит.
1	Мама	мама	NOUN	_	Case=Nom|Gender=Fem|Number=Sing	2	nsubj	_	_
2	спит	спать	VERB	_	Number=Sing|Person=3	0	root	_	_
3	.	.	PUNCT	_	_	2	punct	_	_
`

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type generatorMock struct {
	config generatorMockConfig
	calls  generatorCalls
}

type generatorMockConfig struct {
	fail  bool
	panic bool
}

type generatorCalls struct {
	getGenerator bool
	generate     bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
}

type redisMockConfig struct {
	getShardTask          withValue
	getJobSettings            withValue
	getCorpusTask         withValue
	onTaskCancelled       failingMethod
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
}

type redisMockCalls struct {
	getShardTask          bool
	getJobSettings            bool
	getCorpusTask         bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
}

type rmqMockConfig struct {
	publishResult    failingMethod
	ackDelivery failingMethod
}

type rmqMockCalls struct {
	publishResult    bool
	ackDelivery bool
	requeueOrReject      bool
}

type s3Mock struct {
	config s3MockConfig
	calls  s3MockCalls
	saved  []byte
}

type s3MockConfig struct {
	getShardData    withValue
	saveResultsFile failingMethod
}

type s3MockCalls struct {
	getShardData    bool
	saveResultsFile bool
}

func (mock *s3Mock) close() {}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

func (mock *generatorMock) Name() string {
	return types.PhenomenonAgreement
}

func (mock *generatorMock) Generate(sent *types.Sentence) types.Result {
	mock.calls.generate = true
	if mock.config.panic {
		panic("generator failed")
	}
	return types.Result{
		SentenceID: sent.ID,
		Records: []types.Record{{
			SentenceID:     sent.ID,
			SourceSentence: sent.Text,
			TargetSentence: "Мама спят.",
			Phenomenon:     types.PhenomenonAgreement,
		}},
	}
}

func (mock *generatorMock) getGenerator(task *Task) (pipeline.Generator, types.Configuration, error) {
	mock.calls.getGenerator = true
	if mock.config.fail {
		return nil, types.Configuration{}, errors.New("configuration not found")
	}
	return mock, types.DefaultConfiguration(), nil
}

func (mock *redisMock) getShardTask(redisKey string) (*tasks.ShardTask, error) {
	mock.calls.getShardTask = true
	if mock.config.getShardTask.fail {
		return nil, errors.New("failed to get shard task")
	}
	switch mock.config.getShardTask.returnedValue.(type) {
	case tasks.ShardTask:
		task := mock.config.getShardTask.returnedValue.(tasks.ShardTask)
		return &task, nil
	default:
		return &tasks.ShardTask{CorpusID: "wiki", ShardKey: "corpora/wiki/shard_001.conllu"}, nil
	}
}

func (mock *redisMock) getJobSettings(task *Task) (*tasks.JobSettings, error) {
	mock.calls.getJobSettings = true
	if mock.config.getJobSettings.fail {
		return nil, errors.New("failed to get job settings")
	}
	switch mock.config.getJobSettings.returnedValue.(type) {
	case tasks.JobSettings:
		settings := mock.config.getJobSettings.returnedValue.(tasks.JobSettings)
		return &settings, nil
	default:
		return &tasks.JobSettings{}, nil
	}
}

func (mock *redisMock) getCorpusTask(task *Task) (*tasks.CorpusTaskCached, error) {
	mock.calls.getCorpusTask = true
	if mock.config.getCorpusTask.fail {
		return nil, errors.New("failed to get corpus task")
	}
	switch mock.config.getCorpusTask.returnedValue.(type) {
	case tasks.CorpusTaskCached:
		corpusTask := mock.config.getCorpusTask.returnedValue.(tasks.CorpusTaskCached)
		return &corpusTask, nil
	default:
		return &tasks.CorpusTaskCached{}, nil
	}
}

func (mock *redisMock) onTaskStarted(task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update shard task on start")
	}
	return nil
}

func (mock *redisMock) onTaskCancelled(task *Task, errorMessages ...string) error {
	mock.calls.onTaskCancelled = true
	if mock.config.onTaskCancelled.fail {
		return errors.New("failed to update shard task on cancel")
	}
	return nil
}

func (mock *redisMock) onTaskExceededRetries(task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update shard task on exceeded retries")
	}
	return nil
}

func (mock *redisMock) onTaskFailedWithError(task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update shard task on fail with error")
	}
	return nil
}

func (mock *redisMock) onTaskComplete(task *Task) error {
	mock.calls.onTaskComplete = true
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update shard task on complete")
	}
	return nil
}

func (mock *rmqMock) requeueOrReject(delivery *amqp.Delivery, rejectLogger *zerolog.Logger) {
	mock.calls.requeueOrReject = true
}

func (mock *rmqMock) shardDeliveries() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) consumerErrors() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) publisherErrors() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) publishResult(task *Task, message Message) error {
	mock.calls.publishResult = true
	if mock.config.publishResult.fail {
		return errors.New("failed to notify completion queue")
	}
	return nil
}

func (mock *rmqMock) ackDelivery(delivery *amqp.Delivery) error {
	mock.calls.ackDelivery = true
	if mock.config.ackDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) getShardData(_ context.Context, task *Task) ([]byte, error) {
	mock.calls.getShardData = true
	if mock.config.getShardData.fail {
		return nil, errors.New("mock: failed to load from s3")
	}
	switch mock.config.getShardData.returnedValue.(type) {
	case []byte:
		return mock.config.getShardData.returnedValue.([]byte), nil
	default:
		return []byte(shardData), nil
	}
}

func (mock *s3Mock) saveResultsFile(_ context.Context, task *Task, result []byte) error {
	mock.calls.saveResultsFile = true
	if mock.config.saveResultsFile.fail {
		return errors.New("failed to upload results")
	}
	mock.saved = result
	return nil
}
