package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	oteltrace "go.opentelemetry.io/otel/trace"

	"travel/config"
	"travel/shared/constant"
)

const defaultLevel = zerolog.InfoLevel

// Init installs the global logger: console output in development, JSON lines elsewhere,
// at SERVER_LOG_LEVEL (info when unset or unknown).
func Init(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var output io.Writer = os.Stdout
	if cfg.Server.Env == constant.ServerEnvDevelopment || cfg.Server.Env == constant.Empty {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	logContext := zerolog.New(output).With().Timestamp()
	if cfg.App.Name != constant.Empty {
		logContext = logContext.Str("service", cfg.App.Name)
	}

	log.Logger = logContext.Logger()

	level := parseLevel(cfg.Server.LogLevel)
	zerolog.SetGlobalLevel(level)

	log.Debug().Str("level", level.String()).Msg("logger initialized")
}

func parseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(raw)
	if err != nil || raw == constant.Empty {
		return defaultLevel
	}

	return level
}

// FromContext returns the global logger tagged with the trace and span of ctx, if any.
func FromContext(ctx context.Context) *zerolog.Logger {
	spanContext := oteltrace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return &log.Logger
	}

	tagged := log.With().
		Str("trace_id", spanContext.TraceID().String()).
		Str("span_id", spanContext.SpanID().String()).
		Logger()

	return &tagged
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
