package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrInvalidLogFormat is returned for an unknown --log-format value.
var ErrInvalidLogFormat = errors.New("invalid log format")

// Log formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// newLogger builds the CLI logger writing to w.
// Level: error with --quiet, debug with --verbose, info otherwise.
func newLogger(w io.Writer, f commonFlags) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(w)

	switch f.logFormat {
	case "", logFormatText:
		l.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: !f.verbose,
			FullTimestamp:    true,
		})
	case logFormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("%w: %q (must be text or json)", ErrInvalidLogFormat, f.logFormat)
	}

	switch {
	case f.quiet:
		l.SetLevel(logrus.ErrorLevel)
	case f.verbose:
		l.SetLevel(logrus.DebugLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return l, nil
}
