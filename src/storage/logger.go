package storage

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// LogLevel defines the log severity.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

// Logger is a leveled file logger with size-based rotation.
type Logger struct {
	path     string
	maxBytes int64
	file     *os.File
	mu       sync.Mutex
}

// NewLogger opens (or creates) the log file at path. When maxBytes is
// positive the file is rotated once it grows past that size.
func NewLogger(path string, maxBytes int64) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &Logger{path: path, maxBytes: maxBytes, file: file}, nil
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Log writes one entry: [time] LEVEL: message.
func (l *Logger) Log(level LogLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := fmt.Sprintf("[%s] %s: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level.String(),
		message)

	l.file.WriteString(entry)
	l.checkRotate()
}

// checkRotate renames the log file with a timestamp suffix and reopens it
// when it has grown past maxBytes. Caller holds the mutex.
func (l *Logger) checkRotate() {
	if l.maxBytes <= 0 {
		return
	}
	info, err := l.file.Stat()
	if err != nil || info.Size() <= l.maxBytes {
		return
	}

	l.file.Close()
	rotated := fmt.Sprintf("%s.%s", l.path, time.Now().Format("20060102150405"))
	os.Rename(l.path, rotated)

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	l.file = file
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) }
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }
