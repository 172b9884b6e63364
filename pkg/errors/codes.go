package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeInvalidParam  ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_003"
	ErrCodeTimeout       ErrorCode = "COMMON_004"
	ErrCodeCanceled      ErrorCode = "COMMON_005"
	ErrCodeSerialization ErrorCode = "COMMON_006"
	ErrCodeIO            ErrorCode = "COMMON_007"
	ErrCodeConfig        ErrorCode = "COMMON_008"
)

// Decoder error codes.
const (
	ErrCodeFileTooLarge      ErrorCode = "DEC_001"
	ErrCodeUnsupportedFormat ErrorCode = "DEC_002"
	ErrCodeEmptyExtraction   ErrorCode = "DEC_003"
	ErrCodeDecodeFailed      ErrorCode = "DEC_004"
	ErrCodeOCRUnavailable    ErrorCode = "DEC_005"
)

// Recognizer error codes.
const (
	ErrCodeRecognizerFailed    ErrorCode = "REC_001"
	ErrCodeDateUnparseable     ErrorCode = "REC_002"
	ErrCodeClaimBlockMalformed ErrorCode = "REC_003"
	ErrCodeNotesBlockMissing   ErrorCode = "REC_004"
)

// Consolidation error codes.
const (
	ErrCodeNoDocuments         ErrorCode = "CASE_001"
	ErrCodeConsolidationFailed ErrorCode = "CASE_002"
	ErrCodeChronologyViolation ErrorCode = "CASE_003"
	ErrCodeFieldConflict       ErrorCode = "CASE_004"
)

// Validation error codes.
const (
	ErrCodeValidationFailed   ErrorCode = "VAL_001"
	ErrCodeLegalInsufficiency ErrorCode = "VAL_002"
)

// Hydrated-output error codes.
const (
	ErrCodeHydrationFailed ErrorCode = "HYD_001"
	ErrCodeSchemaCompile   ErrorCode = "HYD_002"
	ErrCodeSchemaViolation ErrorCode = "HYD_003"
)

// Output-layout error codes.
const (
	ErrCodeOutputLayout ErrorCode = "OUT_001"
	ErrCodeOutputExists ErrorCode = "OUT_002"
	ErrCodeOutputWrite  ErrorCode = "OUT_003"
)

// Eventing error codes.
const (
	ErrCodeSinkUnavailable ErrorCode = "EVT_001"
	ErrCodePublishFailed   ErrorCode = "EVT_002"
)

// Infrastructure adapter error codes.
const (
	ErrCodeCacheError   ErrorCode = "INF_001"
	ErrCodeLockError    ErrorCode = "INF_002"
	ErrCodeArchiveError ErrorCode = "INF_003"
	ErrCodeIndexError   ErrorCode = "INF_004"
	ErrCodeUnavailable  ErrorCode = "INF_005"
)

// Aliases used at call sites throughout the codebase.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")

	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeInvalidParam
	CodeNotFound     = ErrCodeNotFound
	CodeCanceled     = ErrCodeCanceled
	CodeIO           = ErrCodeIO

	CodeFileTooLarge      = ErrCodeFileTooLarge
	CodeUnsupportedFormat = ErrCodeUnsupportedFormat
	CodeEmptyExtraction   = ErrCodeEmptyExtraction
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:      "internal error",
	ErrCodeInvalidParam:  "invalid parameter",
	ErrCodeNotFound:      "resource not found",
	ErrCodeTimeout:       "operation timed out",
	ErrCodeCanceled:      "operation canceled",
	ErrCodeSerialization: "serialization failed",
	ErrCodeIO:            "i/o error",
	ErrCodeConfig:        "invalid configuration",

	ErrCodeFileTooLarge:      "file exceeds maximum size",
	ErrCodeUnsupportedFormat: "unsupported document format",
	ErrCodeEmptyExtraction:   "no text extracted from document",
	ErrCodeDecodeFailed:      "document decoding failed",
	ErrCodeOCRUnavailable:    "OCR binary not available",

	ErrCodeRecognizerFailed:    "entity recognition failed",
	ErrCodeDateUnparseable:     "date could not be parsed",
	ErrCodeClaimBlockMalformed: "LEGAL_CLAIMS block malformed",
	ErrCodeNotesBlockMissing:   "attorney-notes block not found",

	ErrCodeNoDocuments:         "no documents processed",
	ErrCodeConsolidationFailed: "case consolidation failed",
	ErrCodeChronologyViolation: "case chronology violation",
	ErrCodeFieldConflict:       "conflicting field values across documents",

	ErrCodeValidationFailed:   "case validation failed",
	ErrCodeLegalInsufficiency: "case fails legal sufficiency rules",

	ErrCodeHydrationFailed: "hydrated record build failed",
	ErrCodeSchemaCompile:   "hydrated schema compilation failed",
	ErrCodeSchemaViolation: "hydrated record violates schema",

	ErrCodeOutputLayout: "case directory layout failed",
	ErrCodeOutputExists: "output artifact already exists",
	ErrCodeOutputWrite:  "output write failed",

	ErrCodeSinkUnavailable: "event sink unavailable",
	ErrCodePublishFailed:   "event publish failed",

	ErrCodeCacheError:   "extraction cache error",
	ErrCodeLockError:    "case lock error",
	ErrCodeArchiveError: "case archive error",
	ErrCodeIndexError:   "case index error",
	ErrCodeUnavailable:  "infrastructure backend unavailable",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
