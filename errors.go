package html2md

import "errors"

// Sentinel errors for library operations.
var (
	ErrNotFound  = errors.New("article root not found")
	ErrEmptyHTML = errors.New("HTML content cannot be empty")
	ErrParseHTML = errors.New("failed to parse HTML")

	// Input validation errors.
	ErrInvalidInput = errors.New("invalid input")

	// Option validation errors.
	ErrInvalidSelector     = errors.New("invalid CSS selector")
	ErrInvalidBaseURL      = errors.New("invalid base URL")
	ErrInvalidCodeLanguage = errors.New("invalid code language mode")
	ErrInvalidCellLinks    = errors.New("invalid cell link mode")

	// Browser errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Preview errors.
	ErrPreview = errors.New("preview rendering failed")
)
