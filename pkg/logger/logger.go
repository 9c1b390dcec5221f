package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

// Logger is the logging handle injected into components at construction.
// Fields are alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
}

type loggerImpl struct {
	zl zerolog.Logger
}

// New creates a logger writing to all given writers
func New(writers ...io.Writer) Logger {
	multi := io.MultiWriter(writers...)
	zl := zerolog.New(multi).With().Timestamp().Logger()
	return &loggerImpl{zl: zl}
}

// NewWithLevel creates a logger with a minimum level ("debug", "info", ...).
// Unknown levels fall back to info.
func NewWithLevel(level string, writers ...io.Writer) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	multi := io.MultiWriter(writers...)
	zl := zerolog.New(multi).Level(lvl).With().Timestamp().Logger()
	return &loggerImpl{zl: zl}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return &loggerImpl{zl: zerolog.Nop()}
}

// ConsoleWriter returns a human-readable stdout writer
func ConsoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

// FileWriter returns a rotating file writer
func FileWriter(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}

func (l *loggerImpl) Debug(msg string, fields ...interface{}) {
	logWithFields(l.zl.Debug(), msg, fields...)
}

func (l *loggerImpl) Info(msg string, fields ...interface{}) {
	logWithFields(l.zl.Info(), msg, fields...)
}

func (l *loggerImpl) Warn(msg string, fields ...interface{}) {
	logWithFields(l.zl.Warn(), msg, fields...)
}

func (l *loggerImpl) Error(msg string, fields ...interface{}) {
	logWithFields(l.zl.Error(), msg, fields...)
}

func (l *loggerImpl) Fatal(msg string, fields ...interface{}) {
	logWithFields(l.zl.Fatal(), msg, fields...)
}

// logWithFields attaches alternating key/value pairs to the event.
// A trailing key without a value is ignored.
func logWithFields(event *zerolog.Event, msg string, fields ...interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}
