package vault

import (
	"encoding/json"
	"errors"
)

// Error codes for vault operations. Validation and resolution denials are
// deterministic; ErrCodeMkdirFailed and ErrCodeWriteFailed wrap an
// environmental cause.
const (
	ErrCodeEmptyFilename      = "ERR_EMPTY_FILENAME"
	ErrCodeAbsolutePath       = "ERR_ABSOLUTE_PATH"
	ErrCodeForbiddenCharacter = "ERR_FORBIDDEN_CHARACTER"
	ErrCodePathTraversal      = "ERR_PATH_TRAVERSAL"
	ErrCodeOutsideVault       = "ERR_OUTSIDE_VAULT"
	ErrCodeMkdirFailed        = "ERR_MKDIR_FAILED"
	ErrCodeFileExists         = "ERR_FILE_EXISTS"
	ErrCodeWriteFailed        = "ERR_WRITE_FAILED"
	ErrCodeNotAFile           = "ERR_NOT_A_FILE"
)

// Error is a machine-readable error body for surfacing back to callers
// (and to the agent as JSON tool results).
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	cause   error
}

// Error returns a compact, single-line JSON string to keep tool_result
// payloads small. The wrapped cause is available via Unwrap, not the JSON.
func (e *Error) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Unwrap exposes the underlying I/O cause, if any.
func (e *Error) Unwrap() error { return e.cause }

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code, message, path string, cause error) *Error {
	return &Error{Code: code, Message: message, Path: path, cause: cause}
}

// CodeOf returns the vault error code of err, or "" when err is not a
// vault error.
func CodeOf(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
