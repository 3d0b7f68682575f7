package lumen

import (
	"fmt"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes info/debug to stdout and warnings/errors to stderr.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) print(dst *log.Logger, level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		dst.Printf("[%s] %s: %s", l.prefix, level, msg)
		return
	}
	dst.Printf("%s: %s", level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.print(l.out, "DEBUG", format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.print(l.out, "INFO", format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.print(l.err, "WARN", format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.print(l.err, "ERROR", format, args...)
}

type nopLogger struct{}

// NewNopLogger returns a logger that drops everything; useful as a default
// so callers never need a nil check.
func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
