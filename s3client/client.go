// Package s3client reads corpus shards from S3 and stores generated datasets.
package s3client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/RussianNLP/RuBLiMP/logger"
)

const maxRetries = 4

type Client struct {
	sessions   *sessionPool
	bucketName string
	region     string
	env        EnvironmentConfig
}

// sessionPool hands out the current session and replaces it when a request
// reports a failure.
type sessionPool struct {
	current  *session.Session
	get      chan *session.Session
	failures chan error
	done     chan struct{}
}

func newSessionPool() *sessionPool {
	return &sessionPool{
		get:      make(chan *session.Session),
		failures: make(chan error),
		done:     make(chan struct{}, 1),
	}
}

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	errLogger := clientLogger.With().Caller().Logger()
	env, err := readEnvironment(&errLogger)
	if err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := &Client{
		sessions:   newSessionPool(),
		bucketName: env.BucketName,
		region:     env.Region,
		env:        env,
	}
	if err := client.acquireNewSession(); err != nil {
		return nil, err
	}
	go client.serveSessions()
	return client, nil
}

// Upload stores data under key.
func (client *Client) Upload(ctx context.Context, data []byte, key string, contentType string) (*s3manager.UploadOutput, error) {
	var output *s3manager.UploadOutput
	err := client.withSession(ctx, "upload", key, func(sess *session.Session) error {
		input := &s3manager.UploadInput{
			Bucket: aws.String(client.bucketName),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		}
		if contentType != "" {
			input.ContentType = aws.String(contentType)
		}
		uploader := s3manager.NewUploader(client.sdkSession(sess, key))
		var err error
		output, err = uploader.UploadWithContext(ctx, input)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	clientLogger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Uploaded file")
	return output, nil
}

// Download returns the whole object stored under key.
func (client *Client) Download(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := client.withSession(ctx, "download", key, func(sess *session.Session) error {
		buf := aws.NewWriteAtBuffer([]byte{})
		downloader := s3manager.NewDownloader(client.sdkSession(sess, key))
		size, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
			Bucket: aws.String(client.bucketName),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		clientLogger.Debug().Str("key", key).Int64("bytes", size).Msg("Downloaded file")
		data = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	return data, nil
}

func (client *Client) Close() {
	select {
	case client.sessions.done <- struct{}{}:
	default:
	}
}

// withSession runs do with the current session. A failed request is retried
// once on a refreshed session unless ctx is done.
func (client *Client) withSession(ctx context.Context, op string, key string, do func(*session.Session) error) error {
	sess, err := client.session(ctx)
	if err != nil {
		return err
	}
	err = do(sess)
	if err == nil || ctx.Err() != nil {
		return err
	}
	clientLogger.Warn().Err(err).
		Str("op", op).
		Str("key", key).
		Str("bucket", client.bucketName).
		Msg("S3 request failed, retrying with refreshed session")
	if sess, err = client.refreshSession(ctx, err); err != nil {
		return err
	}
	return do(sess)
}

func (client *Client) sdkSession(sess *session.Session, key string) *session.Session {
	sdkLog := sdkLogger.With().
		Str("key", key).
		Str("bucket", client.bucketName).Logger()
	return sess.Copy(&aws.Config{Logger: newSDKLogger(sdkLog)})
}

func (client *Client) serveSessions() {
	pool := client.sessions
	for {
		select {
		case pool.get <- pool.current:
			continue
		default:
		}
		select {
		case pool.get <- pool.current:
		case err := <-pool.failures:
			clientLogger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
			if err = client.acquireNewSession(); err != nil {
				clientLogger.Error().Err(err).Msg("Caught error while refreshing S3 session")
				continue
			}
			clientLogger.Info().Msg("Successfully refreshed session")
		case <-pool.done:
			clientLogger.Info().Msg("Closing client")
			return
		}
	}
}

func (client *Client) session(ctx context.Context) (*session.Session, error) {
	select {
	case sess := <-client.sessions.get:
		if sess == nil {
			return nil, errors.New("could not get session")
		}
		return sess, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (client *Client) refreshSession(ctx context.Context, cause error) (*session.Session, error) {
	var sess *session.Session
	select {
	case client.sessions.failures <- cause:
		select {
		case sess = <-client.sessions.get:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	case sess = <-client.sessions.get:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if sess == nil {
		return nil, errors.New("failed to refresh session")
	}
	return sess, nil
}

type credentialSource struct {
	name   string
	config func() (*aws.Config, error)
}

// credentialSources lists the ways to build a session, in order of preference.
func (client *Client) credentialSources() []credentialSource {
	return []credentialSource{
		{name: "EC2", config: func() (*aws.Config, error) { return client.createEC2Config(), nil }},
		{name: "env credentials", config: client.envCredentialsConfig},
	}
}

func (client *Client) createEC2Config() *aws.Config {
	return &aws.Config{
		Region:     aws.String(client.region),
		MaxRetries: aws.Int(maxRetries),
		LogLevel:   aws.LogLevel(aws.LogDebug),
	}
}

func (client *Client) createEnvConfig() *aws.Config {
	creds := credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "")
	cfg := aws.NewConfig().
		WithRegion(client.region).
		WithMaxRetries(maxRetries).
		WithCredentials(creds).
		WithLogLevel(aws.LogDebug)

	if client.usesCustomEndpoint() {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).
			WithS3ForcePathStyle(true)
	}
	return cfg
}

func (client *Client) envCredentialsConfig() (*aws.Config, error) {
	if _, err := credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "").Get(); err != nil {
		return nil, fmt.Errorf("s3 credentials: %w", err)
	}
	return client.createEnvConfig(), nil
}

// usesCustomEndpoint is true for a dev setup such as minio, which has no STS.
func (client *Client) usesCustomEndpoint() bool {
	return client.env.InDevEnv() && len(client.env.AwsEndpoint) > 0
}

func (client *Client) acquireNewSession() error {
	var failures []string
	for _, source := range client.credentialSources() {
		sess, err := client.newVerifiedSession(source)
		if err != nil {
			clientLogger.Info().Err(err).Str("credentials", source.name).Msg("Could not initialize S3 session")
			failures = append(failures, source.name+": "+err.Error())
			continue
		}
		client.sessions.current = sess
		clientLogger.Info().Str("credentials", source.name).Msg("S3 session successfully initialized")
		return nil
	}
	client.sessions.current = nil
	return fmt.Errorf("could not initialize S3 session (%s)", strings.Join(failures, "; "))
}

func (client *Client) newVerifiedSession(source credentialSource) (*session.Session, error) {
	cfg, err := source.config()
	if err != nil {
		return nil, err
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if source.name != "EC2" && client.usesCustomEndpoint() {
		return sess, nil
	}
	if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		return nil, err
	}
	return sess, nil
}

type EnvironmentConfig struct {
	BucketName  string `envconfig:"RUBLIMP_STORAGE_BUCKET_NAME" required:"true"`
	Env         string `envconfig:"RUBLIMP_ENV" default:"prod"`
	Region      string `envconfig:"RUBLIMP_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"RUBLIMP_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"RUBLIMP_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"RUBLIMP_AWS_ACCESS_KEY" default:""`
}

func (env EnvironmentConfig) InDevEnv() bool {
	return env.Env == "dev"
}

func readEnvironment(errLogger *zerolog.Logger) (EnvironmentConfig, error) {
	var config EnvironmentConfig
	if err := envconfig.Process("", &config); err != nil {
		errLogger.Err(err).Msg("Got error while processing environment")
		return config, err
	}
	return config, nil
}

// sdkLoggerAdapter implements aws.Logger on top of zerolog.
type sdkLoggerAdapter struct {
	log zerolog.Logger
}

func newSDKLogger(log zerolog.Logger) *sdkLoggerAdapter {
	return &sdkLoggerAdapter{log: log}
}

func (a *sdkLoggerAdapter) Log(v ...interface{}) {
	a.log.Debug().Msg(fmt.Sprint(v...))
}
