package logger

import (
	"log"
	"os"
	"strings"
)

// Level is the minimum severity a Logger writes.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
)

// ParseLevel maps "debug", "info" and "error" to a Level. Anything else is InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger is the logging surface used across the service.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// StdLogger writes through the standard log package with a component prefix.
type StdLogger struct {
	level  Level
	prefix string
	out    *log.Logger
}

func New(level Level, component string) *StdLogger {
	prefix := ""
	if component != "" {
		prefix = "[" + component + "] "
	}
	return &StdLogger{
		level:  level,
		prefix: prefix,
		out:    log.New(os.Stdout, "", log.LstdFlags),
	}
}

// With returns a logger for another component sharing the same level and output.
func (l *StdLogger) With(component string) *StdLogger {
	return &StdLogger{level: l.level, prefix: "[" + component + "] ", out: l.out}
}

func (l *StdLogger) Debug(format string, v ...interface{}) {
	if l.level <= DebugLevel {
		l.out.Printf("DEBUG "+l.prefix+format, v...)
	}
}

func (l *StdLogger) Info(format string, v ...interface{}) {
	if l.level <= InfoLevel {
		l.out.Printf("INFO "+l.prefix+format, v...)
	}
}

func (l *StdLogger) Error(format string, v ...interface{}) {
	if l.level <= ErrorLevel {
		l.out.Printf("ERROR "+l.prefix+format, v...)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
