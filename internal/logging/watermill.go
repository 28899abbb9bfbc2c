package logging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/sirupsen/logrus"
)

// WatermillLogger adapts logrus to watermill.LoggerAdapter.
type WatermillLogger struct {
	entry logrus.FieldLogger
}

var _ watermill.LoggerAdapter = WatermillLogger{}

func NewWatermillLogger(logger logrus.FieldLogger) WatermillLogger {
	return WatermillLogger{entry: logger.WithField("component", "events")}
}

func (l WatermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.entry.WithFields(logrus.Fields(fields)).WithError(err).Error(msg)
}

func (l WatermillLogger) Info(msg string, fields watermill.LogFields) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l WatermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l WatermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.entry.WithFields(logrus.Fields(fields)).Trace(msg)
}

func (l WatermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return WatermillLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}
