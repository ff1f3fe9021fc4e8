package combine

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

type Logger interface {
	WithField(string, interface{}) Logger
	With(map[string]interface{}) Logger

	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})

	Debug(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Error(...interface{})
}

// NewLogger returns a Logger backed by the logrus standard logger.
func NewLogger() Logger {
	return &logrusLoggerWrapper{logrus.StandardLogger()}
}

// NewLoggerTo returns a Logger writing to out. It copies level and formatter
// from the standard logger.
func NewLoggerTo(out io.Writer) Logger {
	std := logrus.StandardLogger()
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(std.GetLevel())
	l.SetFormatter(std.Formatter)
	return &logrusLoggerWrapper{l}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logrusLoggerWrapper{l}
}

type logrusLoggerWrapper struct {
	*logrus.Logger
}

func (l *logrusLoggerWrapper) WithField(field string, value interface{}) Logger {
	return &logrusEntryWrapper{l.Logger.WithField(field, value)}
}

func (l *logrusLoggerWrapper) With(fields map[string]interface{}) Logger {
	return &logrusEntryWrapper{l.Logger.WithFields(fields)}
}

type logrusEntryWrapper struct {
	*logrus.Entry
}

func (e *logrusEntryWrapper) WithField(field string, value interface{}) Logger {
	return &logrusEntryWrapper{e.Entry.WithField(field, value)}
}

func (e *logrusEntryWrapper) With(fields map[string]interface{}) Logger {
	return &logrusEntryWrapper{e.Entry.WithFields(fields)}
}

// ParseLevel maps the configured level name onto a logrus level. Unknown names
// fall back to INFO.
func ParseLevel(name string) logrus.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return logrus.DebugLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ConfigureLogging applies level and formatter settings to the standard logger.
func ConfigureLogging(conf Config) {
	logrus.SetLevel(ParseLevel(conf.GetStringDefault(KeyLogLevel, "INFO")))

	switch conf.GetStringDefault(KeyLogFormatter, "text") {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
		})
	}
}

func init() {
	ConfigureLogging(GlobalConfig())
}
