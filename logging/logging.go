// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging is a tiny leveled logger for step/contact/solver
// diagnostics, wrapping the standard library's log.Logger rather than
// adopting a structured-logging dependency (see DESIGN.md).
package logging

import (
	"io"
	"log"
	"os"
)

// Level is a logger's minimum emitted severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelSilent suppresses every message.
	LevelSilent
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "SILENT"
	}
}

// Logger prefixes every line with its severity and filters below Level.
type Logger struct {
	level Level
	out   *log.Logger
}

// New returns a Logger writing to w at the given minimum level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// Default returns a Logger writing to stderr at LevelInfo, the
// engine's default.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	l.out.Printf("["+level.String()+"] "+format, args...)
}

// Debugf logs at LevelDebug.
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Infof logs at LevelInfo.
func (l *Logger) Infof(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warnf logs at LevelWarn.
func (l *Logger) Warnf(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Errorf logs at LevelError.
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

// SetLevel changes the minimum emitted severity.
func (l *Logger) SetLevel(level Level) { l.level = level }
