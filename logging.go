package yamlls

import "log/slog"

// Logger is the structured-logging interface the core accepts, designed
// to be minimal yet compatible with slog, zap, and zerolog via a thin
// adapter. Attrs are alternating key-value pairs, following slog's own
// convention.
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)

	// With returns a new Logger with attrs prepended to every call.
	With(attrs ...any) Logger
}

// NopLogger discards everything. It is the effective default whenever
// Options.Logger is left nil (call sites check for nil rather than
// defaulting it, so this type mainly exists for hosts that want an
// explicit no-op instance to pass around).
type NopLogger struct{}

func (NopLogger) Debug(_ string, _ ...any) {}
func (NopLogger) Info(_ string, _ ...any)  {}
func (NopLogger) Warn(_ string, _ ...any)  {}
func (NopLogger) Error(_ string, _ ...any) {}
func (n NopLogger) With(_ ...any) Logger   { return n }

var _ Logger = NopLogger{}

// SlogAdapter wraps a *slog.Logger to satisfy Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger, or slog.Default() if logger is nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.logger.Debug(msg, attrs...) }
func (s *SlogAdapter) Info(msg string, attrs ...any)  { s.logger.Info(msg, attrs...) }
func (s *SlogAdapter) Warn(msg string, attrs ...any)  { s.logger.Warn(msg, attrs...) }
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.logger.Error(msg, attrs...) }

func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

var _ Logger = (*SlogAdapter)(nil)

func logWarn(logger Logger, msg string, attrs ...any) {
	if logger == nil {
		return
	}
	logger.Warn(msg, attrs...)
}
