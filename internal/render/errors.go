package render

import "errors"

// Stage failures are stable sentinels so callers can map them to transport
// errors with errors.Is instead of parsing log text.
var (
	// ErrInvalidInput signals an empty SVG source. No workspace is created.
	ErrInvalidInput = errors.New("svg input is required")
	// ErrWorkspaceUnavailable signals that the request-scoped work directory
	// could not be created. Infrastructure defect, not a data problem.
	ErrWorkspaceUnavailable = errors.New("workspace unavailable")
	// ErrSplitFailed signals that the source could not be partitioned into
	// pages, including the zero-pages case.
	ErrSplitFailed = errors.New("split failed")
	// ErrConvertFailed signals a non-zero exit from the per-page SVG to PDF
	// conversion.
	ErrConvertFailed = errors.New("conversion failed")
	// ErrCombineFailed signals a non-zero exit from the PDF merge.
	ErrCombineFailed = errors.New("combine failed")
	// ErrOutputMissing signals that the merge reported success but the output
	// artifact is absent or empty.
	ErrOutputMissing = errors.New("output missing or empty")
	// ErrToolNotFound signals that a required external program is not
	// installed. Deployment defect, not a per-request data problem.
	ErrToolNotFound = errors.New("external tool not found")
)
