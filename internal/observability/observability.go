// Package observability configures the process-wide logger.
//
// By default logs render as text or JSON on stderr. When an OTLP endpoint is
// configured, logs are bridged into an OpenTelemetry log pipeline instead.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const loggerName = "github.com/aymericcousaert/squads-cli"

// Options configures the logging pipeline.
type Options struct {
	Level  slog.Level
	Format string // "text" or "json"

	// OTLPEndpoint enables the OpenTelemetry pipeline when non-empty.
	// "stdout" exports to stdout for debugging; anything else is a host:port
	// collector address.
	OTLPEndpoint string
	OTLPProtocol string // "http" or "grpc"
}

// Instrument installs the process-wide slog default logger and returns a
// shutdown function that flushes any buffered log export.
func Instrument(ctx context.Context, opts Options) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if opts.OTLPEndpoint == "" {
		handlerOpts := &slog.HandlerOptions{Level: opts.Level}
		var handler slog.Handler
		switch opts.Format {
		case "json":
			handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
		case "text", "":
			handler = slog.NewTextHandler(os.Stderr, handlerOpts)
		default:
			return nil, fmt.Errorf("unsupported log format: %s", opts.Format)
		}
		slog.SetDefault(slog.New(handler))
		return noop, nil
	}

	exporter, err := newExporter(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), severity(opts.Level))
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))

	slog.SetDefault(otelslog.NewLogger(loggerName, otelslog.WithLoggerProvider(provider)))
	return provider.Shutdown, nil
}

func newExporter(ctx context.Context, opts Options) (sdklog.Exporter, error) {
	if opts.OTLPEndpoint == "stdout" {
		return stdoutlog.New()
	}

	switch opts.OTLPProtocol {
	case "grpc":
		return otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(opts.OTLPEndpoint))
	case "http", "":
		return otlploghttp.New(ctx, otlploghttp.WithEndpoint(opts.OTLPEndpoint))
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", opts.OTLPProtocol)
	}
}

func severity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
