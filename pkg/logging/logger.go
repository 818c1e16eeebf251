package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LevelTrace LogLevel = iota - 1
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level       LogLevel `json:"level"`
	Format      string   `json:"format"`       // "json" or "text"
	Output      string   `json:"output"`       // "stdout", "stderr", "discard", or file path
	EnableFile  bool     `json:"enable_file"`  // Enable file logging
	FilePath    string   `json:"file_path"`    // Log file path
	EnableAsync bool     `json:"enable_async"` // Enable async logging
}

// Logger provides structured logging with context support
type Logger struct {
	config  LogConfig
	slogger *slog.Logger
	file    *os.File
	asyncCh chan LogEntry
	wg      sync.WaitGroup
	once    sync.Once
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	HotelID   *int64                 `json:"hotel_id,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
}

// DefaultLogConfig returns sensible default logging configuration
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       LevelInfo,
		Format:      "json",
		Output:      "stdout",
		EnableFile:  false,
		FilePath:    "/var/log/storefront-cms/app.log",
		EnableAsync: false,
	}
}

// ParseLevel maps a config string (trace, debug, info, warn, error, fatal) to a LogLevel.
func ParseLevel(s string) LogLevel {
	return levelFromString(strings.ToUpper(strings.TrimSpace(s)))
}

// NewLogger creates a new structured logger
func NewLogger(config LogConfig) (*Logger, error) {
	logger := &Logger{config: config}

	var writer io.Writer
	switch config.Output {
	case "", "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	case "discard":
		writer = io.Discard
	default:
		config.FilePath = config.Output
		logger.config.FilePath = config.Output
		if err := logger.setupFileLogging(); err != nil {
			return nil, fmt.Errorf("failed to setup file logging: %w", err)
		}
		writer = logger.file
	}

	if config.EnableFile && logger.file == nil {
		if err := logger.setupFileLogging(); err != nil {
			return nil, fmt.Errorf("failed to setup file logging: %w", err)
		}
		writer = io.MultiWriter(writer, logger.file)
	}

	opts := &slog.HandlerOptions{
		Level: toSlog(config.Level),
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	logger.slogger = slog.New(handler)

	if config.EnableAsync {
		logger.asyncCh = make(chan LogEntry, 1000)
		logger.wg.Add(1)
		go logger.asyncWorker()
	}

	return logger, nil
}

// NewNop returns a logger that drops everything. Handy for tests.
func NewNop() *Logger {
	l, _ := NewLogger(LogConfig{Level: LevelFatal + 1, Format: "text", Output: "discard"})
	return l
}

// setupFileLogging creates log directory and file
func (l *Logger) setupFileLogging() error {
	if l.config.FilePath == "" {
		return fmt.Errorf("file path is required for file logging")
	}

	dir := filepath.Dir(l.config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(l.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.file = file
	return nil
}

// asyncWorker drains the entry channel until Close closes it.
func (l *Logger) asyncWorker() {
	defer l.wg.Done()
	for entry := range l.asyncCh {
		l.writeEntry(entry)
	}
}

// writeEntry writes a log entry to the output
func (l *Logger) writeEntry(entry LogEntry) {
	level := toSlog(levelFromString(entry.Level))

	attrs := make([]slog.Attr, 0, 6+len(entry.Fields))
	if entry.Component != "" {
		attrs = append(attrs, slog.String("component", entry.Component))
	}
	if entry.HotelID != nil {
		attrs = append(attrs, slog.Int64("hotel_id", *entry.HotelID))
	}
	if entry.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", entry.SessionID))
	}
	if entry.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", entry.RequestID))
	}
	if entry.Error != "" {
		attrs = append(attrs, slog.String("error", entry.Error))
	}
	if entry.Caller != "" {
		attrs = append(attrs, slog.String("caller", entry.Caller))
	}
	for key, value := range entry.Fields {
		attrs = append(attrs, slog.Any(key, value))
	}

	l.slogger.LogAttrs(context.Background(), level, entry.Message, attrs...)
}

// Close flushes pending async entries and closes the log file.
func (l *Logger) Close() error {
	var err error
	l.once.Do(func() {
		if l.asyncCh != nil {
			close(l.asyncCh)
			l.wg.Wait()
		}
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// Context helpers

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	hotelIDKey   ctxKey = "hotel_id"
	sessionIDKey ctxKey = "session_id"
)

// WithRequestID stores a request id for ContextLogger.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithHotelID stores the hotel under edit for ContextLogger.
func WithHotelID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, hotelIDKey, id)
}

// WithSessionID stores the draft session id for ContextLogger.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// WithContext returns a logger with context information
func (l *Logger) WithContext(ctx context.Context) *ContextLogger {
	return &ContextLogger{logger: l, ctx: ctx}
}

// WithComponent returns a logger with component information
func (l *Logger) WithComponent(component string) *ComponentLogger {
	return &ComponentLogger{logger: l, component: component}
}

// ContextLogger provides context-aware logging
type ContextLogger struct {
	logger    *Logger
	ctx       context.Context
	component string
}

// ComponentLogger provides component-specific logging
type ComponentLogger struct {
	logger    *Logger
	component string
}

func (l *Logger) Trace(msg string, fields ...Field) { l.log(LevelTrace, msg, "", "", fields...) }
func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, "", "", fields...) }
func (l *Logger) Info(msg string, fields ...Field) { l.log(LevelInfo, msg, "", "", fields...) }
func (l *Logger) Warn(msg string, fields ...Field) { l.log(LevelWarn, msg, "", "", fields...) }

func (l *Logger) Error(msg string, err error, fields ...Field) {
	l.log(LevelError, msg, errString(err), "", fields...)
}

// Fatal logs at fatal level and exits
func (l *Logger) Fatal(msg string, err error, fields ...Field) {
	l.log(LevelFatal, msg, errString(err), "", fields...)
	l.Close()
	os.Exit(1)
}

func (cl *ComponentLogger) Debug(msg string, fields ...Field) {
	cl.logger.log(LevelDebug, msg, "", cl.component, fields...)
}

func (cl *ComponentLogger) Info(msg string, fields ...Field) {
	cl.logger.log(LevelInfo, msg, "", cl.component, fields...)
}

func (cl *ComponentLogger) Warn(msg string, fields ...Field) {
	cl.logger.log(LevelWarn, msg, "", cl.component, fields...)
}

func (cl *ComponentLogger) Error(msg string, err error, fields ...Field) {
	cl.logger.log(LevelError, msg, errString(err), cl.component, fields...)
}

// With binds the component logger to a context so request/session/hotel ids are attached.
func (cl *ComponentLogger) With(ctx context.Context) *ContextLogger {
	return &ContextLogger{logger: cl.logger, ctx: ctx, component: cl.component}
}

func (cl *ContextLogger) Debug(msg string, fields ...Field) {
	cl.logger.logWithContext(cl.ctx, LevelDebug, msg, "", cl.component, fields...)
}

func (cl *ContextLogger) Info(msg string, fields ...Field) {
	cl.logger.logWithContext(cl.ctx, LevelInfo, msg, "", cl.component, fields...)
}

func (cl *ContextLogger) Warn(msg string, fields ...Field) {
	cl.logger.logWithContext(cl.ctx, LevelWarn, msg, "", cl.component, fields...)
}

func (cl *ContextLogger) Error(msg string, err error, fields ...Field) {
	cl.logger.logWithContext(cl.ctx, LevelError, msg, errString(err), cl.component, fields...)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (l *Logger) log(level LogLevel, msg, errorStr, component string, fields ...Field) {
	l.logWithContext(context.Background(), level, msg, errorStr, component, fields...)
}

func (l *Logger) logWithContext(ctx context.Context, level LogLevel, msg, errorStr, component string, fields ...Field) {
	if l == nil || level < l.config.Level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     levelToString(level),
		Message:   msg,
		Component: component,
		Error:     errorStr,
		Fields:    make(map[string]interface{}, len(fields)),
	}

	if id, ok := ctx.Value(requestIDKey).(string); ok {
		entry.RequestID = id
	}
	if id, ok := ctx.Value(hotelIDKey).(int64); ok {
		entry.HotelID = &id
	}
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		entry.SessionID = id
	}

	if level >= LevelWarn {
		if _, file, line, ok := runtime.Caller(3); ok {
			entry.Caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}

	for _, field := range fields {
		field.AddTo(entry.Fields)
	}

	if l.asyncCh != nil {
		select {
		case l.asyncCh <- entry:
		default:
			// buffer full, write inline
			l.writeEntry(entry)
		}
		return
	}
	l.writeEntry(entry)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// AddTo adds the field to the provided map
func (f Field) AddTo(m map[string]interface{}) {
	m[f.Key] = f.Value
}

func String(key, value string) Field { return Field{Key: key, Value: value} }
func Int(key string, value int) Field { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }
func Strings(key string, value []string) Field { return Field{Key: key, Value: value} }
func Duration(key string, v time.Duration) Field { return Field{Key: key, Value: v} }
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

func Error(err error) Field {
	return Field{Key: "error", Value: errString(err)}
}

// toSlog maps LogLevel onto slog's spacing (debug=-4, info=0, warn=4, error=8).
func toSlog(level LogLevel) slog.Level {
	return slog.Level((int(level) - 1) * 4)
}

func levelToString(level LogLevel) string {
	switch level {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func levelFromString(level string) LogLevel {
	switch level {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	default:
		return LevelInfo
	}
}
