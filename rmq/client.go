package rmq

import (
	"fmt"
	"net/url"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/RussianNLP/RuBLiMP/logger"
)

type Config struct {
	Host                    string `envconfig:"RUBLIMP_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"RUBLIMP_RMQ_PORT" required:"true"`
	Username                string `envconfig:"RUBLIMP_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"RUBLIMP_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"RUBLIMP_RMQ_DEFAULT_EXCHANGE" default:"rublimp-default-exchange"`
	MaxParallelRequestCount int    `envconfig:"RUBLIMP_RMQ_MAX_PARALLEL_REQUESTS" default:"5"`
	ShardTaskQueue          string `envconfig:"RUBLIMP_RMQ_SHARD_TASK_QUEUE" required:"true"`
	CompletionQueue         string `envconfig:"RUBLIMP_RMQ_COMPLETION_QUEUE" required:"true"`
}

type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	rmqLogger      *zerolog.Logger
}

func NewClient() (client *Client, err error) {
	rmqLogger := logger.NewLogger("RMQ client")
	var config Config
	if err = envconfig.Process("", &config); err != nil {
		rmqLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	amqpURL := getURL(config)
	respConn, respChannel, err := setup(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = respConn.Close()
		}
	}()
	reqConn, reqChannel, err := setup(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = reqConn.Close()
		}
	}()

	deliveries, err := consumeShardTasks(reqChannel, config)
	if err != nil {
		return nil, err
	}

	rmqLogger.Info().
		Str("queue", config.ShardTaskQueue).
		Int("prefetch", config.MaxParallelRequestCount).
		Msg("Consuming shard tasks")

	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChannel.NotifyClose(make(chan *amqp.Error)),
		RespChanErrors: respChannel.NotifyClose(make(chan *amqp.Error)),
		config:         config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		rmqLogger:      &rmqLogger,
	}, nil
}

// consumeShardTasks binds the existing shard task queue to the exchange and
// starts consuming with manual acks. At most MaxParallelRequestCount
// deliveries are unacknowledged at a time.
func consumeShardTasks(ch *amqp.Channel, config Config) (<-chan amqp.Delivery, error) {
	q, err := ch.QueueDeclarePassive(
		config.ShardTaskQueue, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare %s: %w", config.ShardTaskQueue, err)
	}
	if err = ch.QueueBind(q.Name, q.Name, config.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s: %w", q.Name, err)
	}
	if err = ch.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}
	deliveries, err := ch.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	return deliveries, nil
}

// NotifyCompletion publishes msg to the completion queue.
func (c *Client) NotifyCompletion(msg amqp.Publishing) error {
	err := c.respChannel.Publish(
		c.config.Exchange,
		c.config.CompletionQueue,
		false, // mandatory
		false, // immediate
		msg)
	if err != nil {
		c.rmqLogger.Err(err).Str("queue", c.config.CompletionQueue).Msg("Could not publish completion")
		return fmt.Errorf("publish to %s: %w", c.config.CompletionQueue, err)
	}
	return nil
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func getURL(config Config) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(config.Username, config.Password),
		Host:   fmt.Sprintf("%s:%s", config.Host, config.Port),
	}
	return u.String()
}

func setup(amqpURL string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
