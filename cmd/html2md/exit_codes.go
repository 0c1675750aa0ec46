package main

import (
	"errors"
	"os"

	html2md "github.com/alnah/go-html2md"
	"github.com/alnah/go-html2md/internal/config"
)

// Exit codes for html2md CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitBrowser  = 4 // Browser/Chrome errors
	ExitNotFound = 5 // Article root missing from the document
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, html2md.ErrBrowserConnect) ||
		errors.Is(err, html2md.ErrPageCreate) ||
		errors.Is(err, html2md.ErrPageLoad) {
		return ExitBrowser
	}

	// Missing article (exit 5)
	if errors.Is(err, html2md.ErrNotFound) {
		return ExitNotFound
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadHTML) ||
		errors.Is(err, ErrWriteMarkdown) ||
		errors.Is(err, ErrOutputDirectory) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, html2md.ErrEmptyHTML) ||
		errors.Is(err, html2md.ErrInvalidInput) ||
		errors.Is(err, html2md.ErrInvalidSelector) ||
		errors.Is(err, html2md.ErrInvalidBaseURL) ||
		errors.Is(err, html2md.ErrInvalidCellLinks) ||
		errors.Is(err, html2md.ErrInvalidCodeLanguage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidNaming) ||
		errors.Is(err, ErrInvalidLogFormat) {
		return ExitUsage
	}

	return ExitGeneral
}
