package utils

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// GetLogger returns a singleton logger instance
func GetLogger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()

		level := os.Getenv("LOG_LEVEL")
		if level == "" {
			level = "info"
		}

		logLevel, err := logrus.ParseLevel(level)
		if err != nil {
			logLevel = logrus.InfoLevel
		}
		logger.SetLevel(logLevel)

		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
		logger.SetOutput(os.Stdout)
	})

	return logger
}

// ComponentLogger returns an entry tagged with the component name
func ComponentLogger(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}
