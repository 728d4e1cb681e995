package worker

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/RussianNLP/RuBLiMP/rmq"
)

// shardQueue is the worker's view of the shard-task queue: it receives shard
// deliveries and publishes a result message once a shard is done.
type shardQueue interface {
	publishResult(task *Task, message Message) error
	ackDelivery(delivery *amqp.Delivery) error
	requeueOrReject(delivery *amqp.Delivery, rejectLogger *zerolog.Logger)
	shardDeliveries() <-chan amqp.Delivery
	consumerErrors() <-chan *amqp.Error
	publisherErrors() <-chan *amqp.Error
	close()
}

type queueConn struct {
	client *rmq.Client
}

func (conn *queueConn) close() {
	conn.client.Close()
}

func (conn *queueConn) shardDeliveries() <-chan amqp.Delivery {
	return conn.client.Deliveries
}

func (conn *queueConn) consumerErrors() <-chan *amqp.Error {
	return conn.client.ReqChanErrors
}

func (conn *queueConn) publisherErrors() <-chan *amqp.Error {
	return conn.client.RespChanErrors
}

// publishResult sends the shard's result message with the content type of
// the delivery that started it.
func (conn *queueConn) publishResult(task *Task, message Message) error {
	body, err := resultBody(message)
	if err != nil {
		return err
	}
	return conn.client.NotifyCompletion(
		amqp.Publishing{
			ContentType: task.delivery.ContentType,
			Body:        body,
		},
	)
}

func resultBody(message Message) ([]byte, error) {
	message.Sender = senderName
	return json.Marshal(message)
}

func (conn *queueConn) ackDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

// requeueOrReject gives a shard delivery one more attempt. A delivery that was
// already redelivered is dropped.
func (conn *queueConn) requeueOrReject(delivery *amqp.Delivery, rejectLogger *zerolog.Logger) {
	requeue := !delivery.Redelivered
	if requeue {
		rejectLogger.Info().Msg("Requeuing shard delivery for a second attempt")
	} else {
		rejectLogger.Info().Msg("Dropping shard delivery after its second attempt")
	}
	if err := delivery.Reject(requeue); err != nil {
		rejectLogger.Err(err).Bool("requeue", requeue).Msg("Failed to reject shard delivery")
	}
}
