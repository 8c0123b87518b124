package sinks

import (
	"context"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/sirupsen/logrus"
)

const LogSinkName = "log"

// LogSink writes events to the structured logger at a fixed level.
type LogSink struct {
	logger *logrus.Logger
	level  logrus.Level
}

func NewLogSink(logger *logrus.Logger, level logrus.Level) *LogSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogSink{logger: logger, level: level}
}

func (s *LogSink) Name() string {
	return LogSinkName + "_" + s.level.String()
}

func (s *LogSink) Handle(_ context.Context, event security.Event) error {
	fields := logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"severity":   event.Severity,
		"ip":         event.Source.IP,
		"method":     event.Source.Method,
		"path":       event.Source.Path,
		"user_agent": event.Source.UserAgent,
	}
	if event.User != nil {
		fields["user_id"] = event.User.ID
		fields["user_email"] = event.User.Email
	}
	if len(event.Details) > 0 {
		fields["details"] = event.Details
	}
	s.logger.WithFields(fields).WithTime(event.Timestamp).Log(s.level, "security event")
	return nil
}
