package status

import "errors"

// ErrorCode is a numeric code to classify API errors in a stable way
type ErrorCode int

// Reserved ranges by domain:
//   1000-1999: Extraction
//   2000-2999: Validation
//   3000-3999: Generation
//   4000-4999: Retrieval

// Client/validation errors start at 0
const (
	InvalidRequestBody ErrorCode = iota // 0
	MissingParams                       // 1
	SessionNotFound                     // 2
)

// Extraction errors (1000-1999)
const (
	ExtractionFailed       ErrorCode = 1000 + iota // 1000
	ExtractionUnreadable                           // 1001
	ExtractionNoPages                              // 1002
	ExtractionTooManyPages                         // 1003
	ExtractionEmptyText                            // 1004
)

// Validation errors (2000-2999): structurally invalid model output
const (
	ValidationFailed ErrorCode = 2000 + iota // 2000
)

// Generation errors (3000-3999): LLM/parse failure surviving all retries
const (
	GenerationFailed        ErrorCode = 3000 + iota // 3000
	GenerationNoContent                             // 3001
	GenerationUnknownType                           // 3002
)

// Retrieval errors (4000-4999)
const (
	RetrievalUnavailable ErrorCode = 4000 + iota // 4000
)

const (
	ErrorCodeInternal ErrorCode = 9000
)

// CodedError represents an error with an associated ErrorCode
type CodedError interface {
	error
	ErrorCode() ErrorCode
}

type codedError struct {
	code ErrorCode
	err  error
}

func (e codedError) Error() string        { return e.err.Error() }
func (e codedError) Unwrap() error        { return e.err }
func (e codedError) ErrorCode() ErrorCode { return e.code }

// New creates a new CodedError with the given code and underlying error
func New(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return codedError{code: code, err: err}
}

// Code extracts the ErrorCode from err, or ErrorCodeInternal when none is attached.
func Code(err error) ErrorCode {
	var ce CodedError
	if errors.As(err, &ce) {
		return ce.ErrorCode()
	}
	return ErrorCodeInternal
}
