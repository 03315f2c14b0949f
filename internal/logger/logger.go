package logger

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls where and how much the global logger writes.
type Options struct {
	FilePath string
	Level    string
	Pretty   bool
	// Output replaces stdout when set. Used by tests.
	Output io.Writer
}

var (
	globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	once         sync.Once
)

// InitLogging configures the global zerolog logger. Only the first call takes effect.
func InitLogging(opts Options) {
	once.Do(func() {
		globalLogger = build(opts)
		// Set the global logger used by the zerolog/log package for convenience.
		log.Logger = globalLogger
	})
}

func build(opts Options) zerolog.Logger {
	var console io.Writer = os.Stdout
	if opts.Output != nil {
		console = opts.Output
	}
	if opts.Pretty {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	}
	writers := []io.Writer{console}

	if opts.FilePath != "" {
		file, err := os.OpenFile(opts.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
		if err != nil {
			// We can't use the logger yet, so just print to stderr
			os.Stderr.WriteString("Failed to open log file: " + err.Error() + "\n")
		} else {
			writers = append(writers, file)
		}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	multi := zerolog.MultiLevelWriter(writers...)
	return zerolog.New(multi).With().Timestamp().Logger().Level(level)
}

// Logger returns the global logger.
func Logger() *zerolog.Logger {
	return &globalLogger
}

// WithLogger returns a new context containing the logger with additional fields.
func WithLogger(ctx context.Context, fields map[string]interface{}) context.Context {
	l := getLogger(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// getLogger extracts the zerolog logger from the context, falling back to the global logger.
func getLogger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	// zerolog.Ctx returns a disabled logger if none is in context
	if l.GetLevel() == zerolog.Disabled {
		return &globalLogger
	}
	return l
}

// DebugLog logs a debug level message.
func DebugLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Debug().Msgf(msg, args...)
}

// InfoLog logs an info level message.
func InfoLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Info().Msgf(msg, args...)
}

// WarnLog logs a warning level message.
func WarnLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Warn().Msgf(msg, args...)
}

// ErrorLog logs an error level message. A leading error argument is attached with Err
// and the remaining arguments format msg.
func ErrorLog(ctx context.Context, msg string, args ...interface{}) {
	l := getLogger(ctx)
	if len(args) > 0 {
		if err, ok := args[0].(error); ok {
			l.Error().Err(err).Msgf(msg, args[1:]...)
			return
		}
	}
	l.Error().Msgf(msg, args...)
}
