package commands

import (
	"log/slog"
	"os"

	"github.com/revstat/revstat/pkg/config"
	"github.com/revstat/revstat/pkg/observability"
	"github.com/revstat/revstat/pkg/version"
)

// initObservability builds OTel providers from the loaded configuration.
// Environment variables take precedence over the config file so that a
// collector endpoint can be injected without editing revstat.yaml.
func initObservability(cfg *config.Config, mode observability.AppMode, debug bool) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogLevel = parseLogLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	if cfg.Telemetry.Enabled {
		obsCfg.OTLPEndpoint = cfg.Telemetry.Endpoint
	}

	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		obsCfg.OTLPEndpoint = endpoint
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"

	if debug {
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.DebugTrace = true
		obsCfg.TraceVerbose = true
	}

	return observability.Init(obsCfg)
}

// parseLogLevel maps a config level string onto a slog level. Unknown
// values fall back to info.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
