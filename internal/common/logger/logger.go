package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AlibekovAA/book-reviews/internal/common/constants"
)

type Fields map[string]interface{}

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	CRITICAL
)

var levelNames = map[LogLevel]string{
	DEBUG:    "DEBUG",
	INFO:     "INFO",
	WARNING:  "WARNING",
	ERROR:    "ERROR",
	CRITICAL: "CRITICAL",
}

type Logger struct {
	level       LogLevel
	out         *log.Logger
	serviceName string
	mu          sync.RWMutex
}

// New builds a logger writing to stdout and, when logDir is set, to a
// rotated <serviceName>.log inside it.
func New(logDir, serviceName, level string) (*Logger, error) {
	l := &Logger{}
	if err := l.Initialize(logDir, serviceName, level); err != nil {
		return nil, err
	}
	return l, nil
}

// NewWithWriter is used by tests that need to inspect output.
func NewWithWriter(w io.Writer, serviceName, level string) *Logger {
	return &Logger{
		level:       parseLevel(level),
		out:         log.New(w, "", 0),
		serviceName: serviceName,
	}
}

func (l *Logger) Initialize(logDir, serviceName, level string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var writer io.Writer = os.Stdout

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, logFileName(serviceName)),
			MaxSize:    constants.LoggerMaxSize,
			MaxBackups: constants.LoggerMaxBackups,
			MaxAge:     constants.LoggerMaxAge,
			Compress:   true,
		}
		writer = io.MultiWriter(os.Stdout, fileWriter)
	}

	l.out = log.New(writer, "", log.LstdFlags)
	l.level = parseLevel(level)
	l.serviceName = serviceName

	return nil
}

func (l *Logger) ShouldLog(level LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *Logger) log(level LogLevel, msg string) {
	l.logWithFields(level, nil, msg, nil)
}

func (l *Logger) logWithFields(level LogLevel, ctx context.Context, msg string, fields Fields) {
	if l == nil {
		return
	}

	l.mu.RLock()
	currentLevel := l.level
	service := l.serviceName
	out := l.out
	l.mu.RUnlock()

	if level < currentLevel || out == nil {
		return
	}

	prefix := levelNames[level]
	if service != "" {
		prefix = fmt.Sprintf("[%s] [%s]", prefix, service)
	} else {
		prefix = fmt.Sprintf("[%s]", prefix)
	}

	var fieldParts []string

	if ctx != nil {
		if traceID, ok := ctx.Value(constants.TraceIDKey).(string); ok && traceID != "" {
			fieldParts = append(fieldParts, fmt.Sprintf("trace_id=%s", traceID))
		}
	}

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, redact(k, fields[k])))
		}
	}

	if len(fieldParts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(fieldParts, " "))
	}

	_, file, line, ok := runtime.Caller(3)
	if !ok {
		file = "unknown"
		line = 0
	} else {
		file = filepath.Base(file)
	}

	_ = out.Output(0, fmt.Sprintf("%s %s:%d %s", prefix, file, line, msg))
}

func (l *Logger) Debug(msg string)    { l.log(DEBUG, msg) }
func (l *Logger) Info(msg string)     { l.log(INFO, msg) }
func (l *Logger) Warn(msg string)     { l.log(WARNING, msg) }
func (l *Logger) Error(msg string)    { l.log(ERROR, msg) }
func (l *Logger) Critical(msg string) { l.log(CRITICAL, msg) }

func (l *Logger) Debugf(format string, args ...any) {
	l.log(DEBUG, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.log(INFO, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.log(WARNING, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log(ERROR, fmt.Sprintf(format, args...))
}

func (l *Logger) Criticalf(format string, args ...any) {
	l.log(CRITICAL, fmt.Sprintf(format, args...))
}

func (l *Logger) Fatal(msg string) {
	l.log(CRITICAL, msg)
	os.Exit(1)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.log(CRITICAL, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func (l *Logger) WithFields(ctx context.Context, fields Fields) *Entry {
	return &Entry{
		logger: l,
		ctx:    ctx,
		fields: fields,
	}
}

type Entry struct {
	logger *Logger
	ctx    context.Context
	fields Fields
}

func (e *Entry) emit(level LogLevel, msg string) {
	e.logger.logWithFields(level, e.ctx, msg, e.fields)
}

func (e *Entry) Debug(msg string)    { e.emit(DEBUG, msg) }
func (e *Entry) Info(msg string)     { e.emit(INFO, msg) }
func (e *Entry) Warn(msg string)     { e.emit(WARNING, msg) }
func (e *Entry) Error(msg string)    { e.emit(ERROR, msg) }
func (e *Entry) Critical(msg string) { e.emit(CRITICAL, msg) }

func (e *Entry) Debugf(format string, args ...any) {
	e.emit(DEBUG, fmt.Sprintf(format, args...))
}

func (e *Entry) Infof(format string, args ...any) {
	e.emit(INFO, fmt.Sprintf(format, args...))
}

func (e *Entry) Warnf(format string, args ...any) {
	e.emit(WARNING, fmt.Sprintf(format, args...))
}

func (e *Entry) Errorf(format string, args ...any) {
	e.emit(ERROR, fmt.Sprintf(format, args...))
}

func (e *Entry) Criticalf(format string, args ...any) {
	e.emit(CRITICAL, fmt.Sprintf(format, args...))
}

func logFileName(serviceName string) string {
	if serviceName == "" {
		return "app.log"
	}
	return serviceName + ".log"
}

// redact hides credential material passed as a field by mistake.
func redact(key string, value interface{}) interface{} {
	switch strings.ToLower(key) {
	case "password", "password_hash", "token", "authorization", "secret":
		return "[REDACTED]"
	}
	return value
}

func parseLevel(value string) LogLevel {
	value = strings.TrimSpace(strings.ToUpper(value))
	switch value {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	case "CRITICAL":
		return CRITICAL
	default:
		return INFO
	}
}
