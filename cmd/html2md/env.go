package main

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-html2md/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration and logging.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // Loaded once, shared across the batch
	Logger *logrus.Logger // Set by the command from --verbose/--quiet/--log-format
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}

// logger returns the configured logger, or one that discards output.
func (e *Environment) logger() *logrus.Logger {
	if e.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.Logger = l
	}
	return e.Logger
}
