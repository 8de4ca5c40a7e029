package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/medialens-io/medialens/config"
)

// Fields is structured logging fields.
type Fields = logrus.Fields

// NewLogger creates a JSON logger at the configured level.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(config.GetLogLevel())
	return logger
}

// NewLoggerWithService creates a logger that stamps every entry with the
// service name.
func NewLoggerWithService(serviceName string) *logrus.Logger {
	logger := NewLogger()
	return logger.WithField("service", serviceName).Logger
}
