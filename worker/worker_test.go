package worker

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/tasks"
	"github.com/RussianNLP/RuBLiMP/types"
)

type mockedClientsConfig struct {
	rmqMockConfig
	redisMockConfig
	s3MockConfig
	generatorMockConfig
}

type mockedClients struct {
	redis     *redisMock
	rmq       *rmqMock
	s3        *s3Mock
	generator *generatorMock
}

type methodsCalls struct {
	redis     redisMockCalls
	rmq       rmqMockCalls
	s3        s3MockCalls
	generator generatorCalls
}

func testConfiguration(t *testing.T, config mockedClientsConfig, expectedCalls methodsCalls) *mockedClients {
	worker, mocks := configureWorker(config)
	worker.processMessage(context.Background(), &amqp.Delivery{
		Body: []byte(`{"redis_key": "shard-1"}`),
	})
	calls := methodsCalls{
		redis:     mocks.redis.calls,
		rmq:       mocks.rmq.calls,
		s3:        mocks.s3.calls,
		generator: mocks.generator.calls,
	}
	if !reflect.DeepEqual(calls, expectedCalls) {
		t.Errorf("Got unexpected called methods set.\nExpected:\n%+v\nGot:\n%+v", expectedCalls, calls)
	}
	return mocks
}

func configureWorker(config mockedClientsConfig) (*Worker, *mockedClients) {
	redis := &redisMock{config: config.redisMockConfig}
	s3 := &s3Mock{config: config.s3MockConfig}
	rmq := &rmqMock{config: config.rmqMockConfig}
	generator := &generatorMock{config: config.generatorMockConfig}

	workerLogger := logger.NewLogger("Test Worker")

	return &Worker{
			config:     Config{3},
			store:      redis,
			storage:    s3,
			queue:      rmq,
			generators: generator,
			log:        &workerLogger,
		}, &mockedClients{
			redis:     redis,
			rmq:       rmq,
			s3:        s3,
			generator: generator,
		}
}

var (
	fullRun = methodsCalls{
		redis: redisMockCalls{
			getShardTask: true, getJobSettings: true, onTaskStarted: true, onTaskComplete: true,
		},
		rmq:       rmqMockCalls{publishResult: true, ackDelivery: true},
		s3:        s3MockCalls{getShardData: true, saveResultsFile: true},
		generator: generatorCalls{getGenerator: true, generate: true},
	}
)

func TestWorker(t *testing.T) {
	t.Run("Successful", testSuccessfulTask)
	t.Run("Successful with job_task.stop_shards_on_failure == True", testSuccessfulTaskWithCorpusCheck)
	t.Run("Successful despite sentence faults", testSentenceFaults)
	t.Run("Failed to get Shard task", testGetShardTaskFailed)
	t.Run("Failed to get job settings", testGetJobSettingsFailed)
	t.Run("Failed to get Corpus task", testGetCorpusTaskFailed)
	t.Run("Already complete with success", testAlreadyCompletedSuccessfully)
	t.Run("Already complete with failure", testAlreadyCompletedWithFailure)
	t.Run("User cancelled", testUserCancelled)
	t.Run("Exceeded attempts", testExceededAttempts)
	t.Run("Cancelled because other worker already failed", testCancelledBecauseOfOtherWorkerFailure)
	t.Run("Failed to update task in onTaskStarted", testFailedToUpdateOnTaskStarted)
	t.Run("Failed to load data from S3", testFailedToFetchFromS3)
	t.Run("Failed due to unknown configuration", testGeneratorError)
	t.Run("Failed to update task in onTaskFailedWithError", testFailedToUpdateOnTaskFailedWithError)
	t.Run("Failed to update task in onTaskComplete", testFailedToUpdateOnTaskComplete)
	t.Run("Failed to save result to S3", testFailedToSaveToS3)
	t.Run("Failed to acknowledge delivery", testFailedAckDelivery)
	t.Run("Failed to notify completion queue", testFailedNotifyCompletion)
	t.Run("Malformed message", testMalformedMessage)
}

func testSuccessfulTask(t *testing.T) {
	mocks := testConfiguration(t, mockedClientsConfig{}, fullRun)

	lines := strings.Split(strings.TrimSpace(string(mocks.s3.saved)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], strings.Join(types.RecordColumns, "\t")))
	assert.True(t, strings.HasPrefix(lines[1], "1\tМама спит.\tМама спят."))
}

func testSuccessfulTaskWithCorpusCheck(t *testing.T) {
	expected := fullRun
	expected.redis.getCorpusTask = true
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJobSettings: withValue{returnedValue: tasks.JobSettings{StopShardsOnFailure: true}},
			},
		},
		expected,
	)
}

func testSentenceFaults(t *testing.T) {
	mocks := testConfiguration(
		t,
		mockedClientsConfig{generatorMockConfig: generatorMockConfig{panic: true}},
		fullRun,
	)
	lines := strings.Split(strings.TrimSpace(string(mocks.s3.saved)), "\n")
	assert.Len(t, lines, 1)
}

func testAlreadyCompletedSuccessfully(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getShardTask: withValue{
					returnedValue: tasks.ShardTask{
						TaskStatuses: tasks.ShardTaskStatuses{Generator: tasks.ShardTaskInfo{Status: tasks.TaskStatusCompletedSuccess}},
					},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getShardTask: true},
			rmq:   rmqMockCalls{publishResult: true, ackDelivery: true},
		},
	)
}

func testAlreadyCompletedWithFailure(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getShardTask: withValue{
					returnedValue: tasks.ShardTask{
						TaskStatuses: tasks.ShardTaskStatuses{Generator: tasks.ShardTaskInfo{Status: tasks.TaskStatusCompletedFailure}},
					},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getShardTask: true},
			rmq:   rmqMockCalls{publishResult: true, ackDelivery: true},
		},
	)
}

func testUserCancelled(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJobSettings: withValue{returnedValue: tasks.JobSettings{UserCanceled: true}},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getShardTask: true, getJobSettings: true, onTaskCancelled: true},
			rmq:   rmqMockCalls{publishResult: true, ackDelivery: true},
		},
	)
}

func testExceededAttempts(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getShardTask: withValue{
					returnedValue: tasks.ShardTask{
						TaskStatuses: tasks.ShardTaskStatuses{Generator: tasks.ShardTaskInfo{Attempts: 3}},
					},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getShardTask: true, getJobSettings: true, onTaskExceededRetries: true},
			rmq:   rmqMockCalls{publishResult: true, ackDelivery: true},
		},
	)
}

func testCancelledBecauseOfOtherWorkerFailure(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJobSettings: withValue{
					returnedValue: tasks.JobSettings{
						StopShardsOnFailure: true,
					},
				},
				getCorpusTask: withValue{
					returnedValue: tasks.CorpusTaskCached{
						FailedTasks: []string{"some other task"},
					},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getShardTask: true, getJobSettings: true, getCorpusTask: true, onTaskCancelled: true},
			rmq:   rmqMockCalls{publishResult: true, ackDelivery: true},
		},
	)
}

func testFailedToUpdateOnTaskStarted(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{onTaskStarted: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getShardTask: true, getJobSettings: true, onTaskStarted: true,
			},
			rmq: rmqMockCalls{requeueOrReject: true},
		},
	)
}

func testFailedToUpdateOnTaskComplete(t *testing.T) {
	expected := fullRun
	expected.rmq = rmqMockCalls{requeueOrReject: true}
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{onTaskComplete: failingMethod{fail: true}},
		},
		expected,
	)
}

func testFailedToFetchFromS3(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{getShardData: withValue{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getShardTask: true, getJobSettings: true, onTaskStarted: true, onTaskFailedWithError: true,
			},
			rmq:       rmqMockCalls{publishResult: true, ackDelivery: true},
			s3:        s3MockCalls{getShardData: true},
			generator: generatorCalls{getGenerator: true},
		},
	)
}

func testGeneratorError(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			generatorMockConfig: generatorMockConfig{fail: true},
		},
		methodsCalls{
			redis: redisMockCalls{
				getShardTask: true, getJobSettings: true, onTaskStarted: true, onTaskFailedWithError: true,
			},
			rmq:       rmqMockCalls{publishResult: true, ackDelivery: true},
			generator: generatorCalls{getGenerator: true},
		},
	)
}

func testFailedToUpdateOnTaskFailedWithError(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			generatorMockConfig: generatorMockConfig{fail: true},
			redisMockConfig:     redisMockConfig{onTaskFailedWithError: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getShardTask: true, getJobSettings: true, onTaskStarted: true, onTaskFailedWithError: true,
			},
			rmq:       rmqMockCalls{requeueOrReject: true},
			generator: generatorCalls{getGenerator: true},
		},
	)
}

func testFailedToSaveToS3(t *testing.T) {
	expected := fullRun
	expected.redis.onTaskComplete = false
	expected.redis.onTaskFailedWithError = true
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{saveResultsFile: failingMethod{fail: true}},
		},
		expected,
	)
}

func testFailedAckDelivery(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			rmqMockConfig: rmqMockConfig{ackDelivery: failingMethod{fail: true}},
		},
		fullRun,
	)
}

func testFailedNotifyCompletion(t *testing.T) {
	expected := fullRun
	expected.rmq = rmqMockCalls{publishResult: true, requeueOrReject: true}
	testConfiguration(
		t,
		mockedClientsConfig{
			rmqMockConfig: rmqMockConfig{publishResult: failingMethod{fail: true}},
		},
		expected,
	)
}

func testGetShardTaskFailed(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{getShardTask: withValue{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getShardTask: true,
			},
			rmq: rmqMockCalls{requeueOrReject: true},
		},
	)
}

func testGetJobSettingsFailed(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{getJobSettings: withValue{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getShardTask: true, getJobSettings: true,
			},
			rmq: rmqMockCalls{requeueOrReject: true},
		},
	)
}

func testGetCorpusTaskFailed(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJobSettings:    withValue{returnedValue: tasks.JobSettings{StopShardsOnFailure: true}},
				getCorpusTask: withValue{fail: true},
			},
		},
		methodsCalls{
			redis: redisMockCalls{
				getShardTask: true, getJobSettings: true, getCorpusTask: true,
			},
			rmq: rmqMockCalls{requeueOrReject: true},
		},
	)
}

func testMalformedMessage(t *testing.T) {
	worker, mocks := configureWorker(mockedClientsConfig{})
	worker.processMessage(context.Background(), &amqp.Delivery{Body: []byte("not json")})
	expected := methodsCalls{rmq: rmqMockCalls{requeueOrReject: true}}
	calls := methodsCalls{
		redis:     mocks.redis.calls,
		rmq:       mocks.rmq.calls,
		s3:        mocks.s3.calls,
		generator: mocks.generator.calls,
	}
	assert.Equal(t, expected, calls)
}

func TestResultsFileKey(t *testing.T) {
	task := &Task{
		shardTask:  &tasks.ShardTask{CorpusID: "wiki", ShardKey: "corpora/wiki/shard_001.conllu"},
		phenomenon: types.PhenomenonAgreement,
	}
	assert.Equal(t, "processed/corpora/wiki/agreement/shard_001.tsv", getResultsFileKey(task))
}

func TestTaskInfoTransitions(t *testing.T) {
	task := &Task{
		shardTask:  &tasks.ShardTask{CorpusID: "wiki", ShardKey: "shard_002.conllu"},
		phenomenon: types.PhenomenonAgreement,
		stats:      pipeline.Stats{Sentences: 10, Records: 4},
	}

	var info tasks.ShardTaskInfo
	onStarted(&info)
	assert.Equal(t, tasks.TaskStatusStarted, info.Status)
	assert.Equal(t, 1, info.Attempts)
	assert.NotNil(t, info.StartedAt)

	onComplete(&info, task)
	assert.Equal(t, tasks.TaskStatusCompletedSuccess, info.Status)
	assert.Equal(t, "processed/corpora/wiki/agreement/shard_002.tsv", info.ResultsFileKey)
	assert.Equal(t, 4, info.Records)
	assert.Equal(t, 10, info.Sentences)

	info = tasks.ShardTaskInfo{Attempts: 2}
	onExceededRetries(&info, 3)
	assert.Equal(t, tasks.TaskStatusCompletedFailure, info.Status)
	assert.Equal(t, []string{"Task has exceeded retries. (Attempts: 3, max retries: 3 )"}, info.ErrorMessages)

	info = tasks.ShardTaskInfo{}
	onCancelled(&info, "job canceled")
	assert.True(t, info.Status.Complete())
	assert.Equal(t, []string{"job canceled"}, info.ErrorMessages)
}

func TestResultBody(t *testing.T) {
	b, err := resultBody(Message{WorkType: "generation", RedisKey: "shard-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"work_type":"generation","redis_key":"shard-1","sender":"rublimp","version":""}`, string(b))
}

func TestStartWorkerStopsOnCancel(t *testing.T) {
	worker, _ := configureWorker(mockedClientsConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := worker.StartWorker(ctx)
	assert.Equal(t, context.Canceled, err)
}
