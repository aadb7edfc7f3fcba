package logger

import (
	"testing"

	"subscription_expiry_notifier/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInit_LevelAndFormatter(t *testing.T) {
	Init(&config.AppConfig{LogLevel: "debug", Environment: "production"})
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)

	Init(&config.AppConfig{LogLevel: "warn", Environment: "development"})
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, Log.Formatter)
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	Init(&config.AppConfig{LogLevel: "chatty", Environment: "development"})
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestComponent(t *testing.T) {
	entry := Component("mailer")
	assert.Equal(t, "mailer", entry.Data["component"])
}
