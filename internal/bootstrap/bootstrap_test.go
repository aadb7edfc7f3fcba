package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"subscription_expiry_notifier/internal/infra/config"
	"subscription_expiry_notifier/internal/infra/email"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateAWSEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
}

func baseConfig() *config.AppConfig {
	return &config.AppConfig{
		DirectoryBackend:  config.BackendAppSync,
		GraphQLEndpoint:   "https://abc.appsync-api.us-east-1.amazonaws.com/graphql",
		AWSRegion:         "us-east-1",
		SigningService:    "appsync",
		DirectoryPageSize: 100,
		MailTransport:     config.TransportSES,
		MailSource:        config.DefaultMailSource,
		SMTPPort:          587,
		NotifySubject:     config.DefaultNotifySubject,
		NotifyBody:        config.DefaultNotifyBody,
		BatchSize:         100,
		ExpiryPolicy:      config.PolicyLegacy,
		CronSpec:          "0 9 * * *",
	}
}

func testLogger() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func TestNew_AppSyncAndSES(t *testing.T) {
	isolateAWSEnv(t)

	svc, err := New(context.Background(), baseConfig(), testLogger())
	require.NoError(t, err)
	require.NotNil(t, svc.ExpiryNotificationService)
	assert.NoError(t, svc.Close())
}

func TestNew_InvalidEndpoint(t *testing.T) {
	isolateAWSEnv(t)
	cfg := baseConfig()
	cfg.GraphQLEndpoint = "/graphql"

	_, err := New(context.Background(), cfg, testLogger())
	assert.Error(t, err)
}

func TestNew_UnknownPolicy(t *testing.T) {
	cfg := baseConfig()
	cfg.ExpiryPolicy = "lenient"

	_, err := New(context.Background(), cfg, testLogger())
	assert.Error(t, err)
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.DirectoryBackend = "ldap"

	_, err := New(context.Background(), cfg, testLogger())
	assert.ErrorContains(t, err, "unknown directory backend")
}

func TestNewSender_SMTP(t *testing.T) {
	cfg := baseConfig()
	cfg.MailTransport = config.TransportSMTP
	cfg.SMTPHost = "smtp.example.com"

	loadAWS := func() (aws.Config, error) {
		return aws.Config{}, errors.New("AWS must not be loaded for SMTP")
	}
	sender, err := newSender(cfg, loadAWS)
	require.NoError(t, err)
	assert.IsType(t, &email.SMTPSender{}, sender)
}

func TestNewSender_SESPropagatesAWSError(t *testing.T) {
	awsErr := errors.New("failed to load shared config")
	_, err := newSender(baseConfig(), func() (aws.Config, error) { return aws.Config{}, awsErr })
	assert.ErrorIs(t, err, awsErr)
}

func TestService_CloseRunsClosers(t *testing.T) {
	closeErr := errors.New("close failed")
	var calls int
	svc := &Service{closers: []func() error{
		func() error { calls++; return closeErr },
		func() error { calls++; return nil },
	}}

	assert.ErrorIs(t, svc.Close(), closeErr)
	assert.Equal(t, 2, calls)
}
