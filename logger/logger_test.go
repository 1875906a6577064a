package logger

import (
	"testing"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestStringToLogrusLogType(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{input: "error", expected: logrus.ErrorLevel},
		{input: "WARN", expected: logrus.WarnLevel},
		{input: "warning", expected: logrus.WarnLevel},
		{input: " Info ", expected: logrus.InfoLevel},
		{input: "debug", expected: logrus.DebugLevel},
		{input: "trace", expected: logrus.ErrorLevel},
		{input: "", expected: logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StringToLogrusLogType(tt.input))
		})
	}
}

func TestSetup(t *testing.T) {
	cfg := config.GetDefault()
	cfg.Logs.Level = "info"
	cfg.Logs.OutputLogsAsJSON = true

	Setup(*cfg)

	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	_, isJSON := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}
