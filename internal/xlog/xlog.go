// Package xlog is a leveled logger for this module's own diagnostics.
//
// Nothing on a success path ever logs: every stream in this module
// reports failure through its own healthy/message pair and through
// Err(), never through a log line. xlog exists for the handful of
// warnings that don't change control flow, e.g. a downstream Close
// error surfacing after the caller's own stream already finalized.
package xlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Level int

const (
	Verbose Level = iota
	Debug
	Info
	Warning
	Error
)

type Logger interface {
	SetLevel(Level)
	IsOutput(Level) bool
	Verbosef(string, ...any)
	Debugf(string, ...any)
	Infof(string, ...any)
	Warningf(string, ...any)
	Errorf(string, ...any)
	SetOutput(io.Writer)
}

var (
	mu            sync.Mutex
	DefaultLogger Logger = NewLogger(1)
)

func SetLevel(l Level)            { mu.Lock(); defer mu.Unlock(); DefaultLogger.SetLevel(l) }
func IsOutput(l Level) bool       { mu.Lock(); defer mu.Unlock(); return DefaultLogger.IsOutput(l) }
func Verbosef(f string, v ...any) { DefaultLogger.Verbosef(f, v...) }
func Debugf(f string, v ...any)   { DefaultLogger.Debugf(f, v...) }
func Infof(f string, v ...any)    { DefaultLogger.Infof(f, v...) }
func Warningf(f string, v ...any) { DefaultLogger.Warningf(f, v...) }
func Errorf(f string, v ...any)   { DefaultLogger.Errorf(f, v...) }
func SetOutput(w io.Writer)       { mu.Lock(); defer mu.Unlock(); DefaultLogger.SetOutput(w) }

type logger struct {
	level Level
	depth int
	log   *log.Logger
}

func NewLogger(extraDepth int) *logger {
	return &logger{
		log:   log.New(os.Stdout, "", log.Lshortfile|log.LstdFlags),
		level: Info,
		depth: 3 + extraDepth,
	}
}

func (l *logger) SetLevel(z Level)      { l.level = z }
func (l *logger) IsOutput(z Level) bool { return l.level <= z }

func (l *logger) output(lev Level, format string, v ...any) {
	if l.level <= lev {
		_ = l.log.Output(l.depth, fmt.Sprintf(format, v...))
	}
}

func (l *logger) Verbosef(format string, v ...any) { l.output(Verbose, format, v...) }
func (l *logger) Debugf(format string, v ...any)   { l.output(Debug, format, v...) }
func (l *logger) Infof(format string, v ...any)    { l.output(Info, format, v...) }
func (l *logger) Warningf(format string, v ...any) { l.output(Warning, format, v...) }
func (l *logger) Errorf(format string, v ...any)   { l.output(Error, format, v...) }

func (l *logger) SetOutput(w io.Writer) { l.log.SetOutput(w) }
