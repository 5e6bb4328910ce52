package issuedoc

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are not Word documents.
	ErrUnsupportedFormat = errors.New("issuedoc: unsupported document format")

	// ErrExtractionFailed is returned when the document archive cannot be read.
	ErrExtractionFailed = errors.New("issuedoc: document extraction failed")

	// ErrNoContent is returned when a document yields no content blocks.
	ErrNoContent = errors.New("issuedoc: document has no content")

	// ErrNoIssues is returned when a submission is attempted with zero issues.
	ErrNoIssues = errors.New("issuedoc: no issues to submit")

	// ErrTrackerNotConfigured is returned when Submit is called without
	// tracker credentials in the configuration.
	ErrTrackerNotConfigured = errors.New("issuedoc: issue tracker not configured")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("issuedoc: invalid configuration")
)
