package logging

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Station-Manager/logging/correlation"
)

// Service is the process-wide logging service. The zero value plus a Config
// is ready for Initialize.
type Service struct {
	// WorkingDir anchors the relative log file directory. Empty means the
	// process working directory.
	WorkingDir string
	Config     *Config

	logger     atomic.Pointer[zerolog.Logger]
	fileWriter *lumberjack.Logger
	hostname   string

	isInitialized atomic.Bool
	initOnce      sync.Once
	initErr       error

	// mu guards teardown against in-flight log event creation; steady-state
	// logging only takes the read side.
	mu        sync.RWMutex
	wg        sync.WaitGroup
	activeOps atomic.Int64
}

// NewService returns an uninitialized Service for the given config.
func NewService(cfg *Config) *Service {
	return &Service{Config: cfg}
}

// Initialize builds the writers and the base logger. It is idempotent: a
// second call (repeated test setup, framework reload) returns the first
// call's result and never duplicates output sinks.
func (s *Service) Initialize() error {
	const op errors.Op = "logging.Initialize"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	s.initOnce.Do(func() {
		s.initErr = s.initialize(op)
	})
	return s.initErr
}

func (s *Service) initialize(op errors.Op) error {
	if s.Config == nil {
		return errors.New(op).Msg(errMsgCfgNotSet)
	}
	if err := validateConfig(s.Config); err != nil {
		return err
	}

	level, err := parseLevel(s.Config.Level)
	if err != nil {
		return errors.New(op).Err(err).Msg("setting logging level")
	}

	if s.Config.FileLogging {
		dir := filepath.Join(s.WorkingDir, s.Config.RelLogFileDir)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return errors.New(op).Err(err).Msg("failed to create logs directory")
		}
	}

	writers := s.initializeWriters()
	if len(writers) == 0 {
		return errors.New(op).Msg(errMsgNoChannels)
	}

	// Resolved once per process lifetime; the enricher treats it as static.
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	s.hostname = host

	mw := io.MultiWriter(writers...)

	lctx := zerolog.New(mw).Level(level).With().
		Str(FieldServiceName, s.Config.ServiceName).
		Str(FieldHostname, host)
	if s.Config.WithTimestamp {
		lctx = lctx.Timestamp()
	}
	if s.Config.SkipFrameCount > 0 {
		lctx = lctx.CallerWithSkipFrameCount(s.Config.SkipFrameCount)
	}

	logger := lctx.Logger().Hook(correlationHook{})

	s.logger.Store(&logger)
	s.isInitialized.Store(true)
	return nil
}

// Close drains in-flight log operations, bounded by ShutdownTimeoutMS, then
// releases the writers. It is safe to call multiple times and on a nil or
// uninitialized service.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	if !s.isInitialized.CompareAndSwap(true, false) {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timeout := 500 * time.Millisecond
	if s.Config != nil && s.Config.ShutdownTimeoutMS > 0 {
		timeout = time.Duration(s.Config.ShutdownTimeoutMS) * time.Millisecond
	}

	select {
	case <-done:
	case <-time.After(timeout):
		if s.Config != nil && s.Config.ShutdownTimeoutWarning {
			if logger := s.logger.Load(); logger != nil {
				logger.Warn().
					Int64("active_operations", s.activeOps.Load()).
					Msg("Logger shutdown timeout exceeded")
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Store(nil)
	if s.fileWriter != nil {
		err := s.fileWriter.Close()
		s.fileWriter = nil
		if err != nil {
			return errors.New(errors.Op("logging.Close")).Err(err).Msg("failed to close log file")
		}
	}
	return nil
}

// Structured logging methods

// TraceWith returns a LogEvent for structured Trace-level logging.
func (s *Service) TraceWith() LogEvent {
	return logEventBuilder(s, zerolog.TraceLevel)
}

// DebugWith returns a LogEvent for structured Debug-level logging.
func (s *Service) DebugWith() LogEvent {
	return logEventBuilder(s, zerolog.DebugLevel)
}

// InfoWith returns a LogEvent for structured Info-level logging.
// Example: svc.InfoWith().Str("user_id", id).Int("count", 5).Msg("processed")
func (s *Service) InfoWith() LogEvent {
	return logEventBuilder(s, zerolog.InfoLevel)
}

// WarnWith returns a LogEvent for structured Warn-level logging.
func (s *Service) WarnWith() LogEvent {
	return logEventBuilder(s, zerolog.WarnLevel)
}

// ErrorWith returns a LogEvent for structured Error-level logging.
// Example: svc.ErrorWith().Err(err).Str("operation", "database").Msg("query failed")
func (s *Service) ErrorWith() LogEvent {
	return logEventBuilder(s, zerolog.ErrorLevel)
}

// FatalWith returns a LogEvent for structured Fatal-level logging.
// The program exits after the log is written.
func (s *Service) FatalWith() LogEvent {
	return logEventBuilder(s, zerolog.FatalLevel)
}

// With returns a LogContext for creating a child logger with pre-populated
// fields. Example: reqLogger := svc.With().Str("component", "sshd").Logger()
func (s *Service) With() LogContext {
	if s == nil || !s.isInitialized.Load() {
		return &noopLogContext{}
	}
	logger := s.logger.Load()
	if logger == nil {
		return &noopLogContext{}
	}
	return &logContext{
		context: logger.With(),
		service: s,
	}
}

// For returns a child logger with the correlation fields held by ctx
// pre-populated, for call sites that emit many records for one request.
// An absent or empty request context yields a plain child logger.
func (s *Service) For(ctx context.Context) Logger {
	lc := s.With()
	rc := correlation.FromContext(ctx)
	if rc == nil {
		return lc.Logger()
	}
	if rc.CorrelationID != emptyString {
		lc = lc.Str(FieldCorrelationID, rc.CorrelationID)
	}
	for k, v := range rc.Extra {
		lc = lc.Str(k, v)
	}
	return lc.Logger()
}

// Middleware wraps next with the correlation boundary interceptor configured
// from this service: its service name, its enable_correlation setting, and
// request lifecycle logging through its logger.
func (s *Service) Middleware(next http.Handler) http.Handler {
	opts := []correlation.InboundOption{
		correlation.WithServiceName(s.Config.ServiceName),
	}
	if logger := s.logger.Load(); logger != nil {
		opts = append(opts, correlation.WithRequestLogger(logger))
	}
	if !s.Config.EnableCorrelation {
		opts = append(opts, correlation.Disabled())
	}
	return correlation.Handler(next, opts...)
}
