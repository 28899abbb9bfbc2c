package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	tlog "go.temporal.io/sdk/log"
)

// New builds the process logger. format is "json" or "text"; unknown levels
// fall back to info.
func New(level, format string) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, format)
}

func NewWithOutput(out io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(strings.TrimSpace(format), "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// TemporalLogger adapts a logrus logger to the Temporal SDK logger interface.
type TemporalLogger struct {
	entry logrus.FieldLogger
}

var (
	_ tlog.Logger     = TemporalLogger{}
	_ tlog.WithLogger = TemporalLogger{}
)

func NewTemporalLogger(logger logrus.FieldLogger) TemporalLogger {
	return TemporalLogger{entry: logger.WithField("component", "temporal")}
}

func (l TemporalLogger) Debug(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Debug(msg)
}

func (l TemporalLogger) Info(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Info(msg)
}

func (l TemporalLogger) Warn(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Warn(msg)
}

func (l TemporalLogger) Error(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Error(msg)
}

func (l TemporalLogger) With(keyvals ...interface{}) tlog.Logger {
	return TemporalLogger{entry: l.entry.WithFields(fields(keyvals))}
}

// fields pairs up alternating key/value arguments. A dangling key is kept
// with an empty value.
func fields(keyvals []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keyvals)/2+1)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 < len(keyvals) {
			f[key] = keyvals[i+1]
		} else {
			f[key] = ""
		}
	}
	return f
}
