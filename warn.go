package meson

import "github.com/sirupsen/logrus"

// Location points at a source position for diagnostics.
type Location struct {
	Filename string
	Line     int // 1-based
	Col      int // 0-based
}

// WarnSink receives non-fatal diagnostics from the lexer and parser.
// Warnings never abort processing.
type WarnSink interface {
	Warn(msg string, loc Location)
}

type discardSink struct{}

func (discardSink) Warn(string, Location) {}

// DiscardWarnings drops every warning.
var DiscardWarnings WarnSink = discardSink{}

// Warning is one recorded diagnostic.
type Warning struct {
	Msg string
	Loc Location
}

// CollectSink records warnings in order. Useful in tests and for callers
// that want to render diagnostics themselves.
type CollectSink struct {
	Warnings []Warning
}

func (c *CollectSink) Warn(msg string, loc Location) {
	c.Warnings = append(c.Warnings, Warning{Msg: msg, Loc: loc})
}

// LogSink forwards warnings to a structured logger.
type LogSink struct {
	Logger logrus.FieldLogger
}

func (l *LogSink) Warn(msg string, loc Location) {
	l.Logger.WithFields(logrus.Fields{
		"file": loc.Filename,
		"line": loc.Line,
		"col":  loc.Col,
	}).Warn(msg)
}
