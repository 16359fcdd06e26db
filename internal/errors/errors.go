package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies failures the review tool can report
type ErrorCode string

const (
	// ErrorFormat marks a malformed class colour file; fatal at startup.
	ErrorFormat ErrorCode = "FORMAT_ERROR"
	// ErrorParse marks a malformed or incomplete annotation file.
	ErrorParse ErrorCode = "PARSE_ERROR"
	// ErrorIO marks an unreadable file or a failed move.
	ErrorIO ErrorCode = "IO_ERROR"
)

// ReviewError is a structured error carrying the offending path and the failed action
type ReviewError struct {
	Code    ErrorCode
	Message string
	Path    string
	Action  string
	Cause   error
}

func (e *ReviewError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Action != "" {
		msg = fmt.Sprintf("%s: %s failed: %s", e.Code, e.Action, e.Message)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ReviewError) Unwrap() error {
	return e.Cause
}

// Factory functions

func NewFormatError(path string, line int, message string, cause error) *ReviewError {
	return &ReviewError{
		Code:    ErrorFormat,
		Message: fmt.Sprintf("line %d: %s", line, message),
		Path:    path,
		Action:  "load class file",
		Cause:   cause,
	}
}

func NewParseError(path string, message string, cause error) *ReviewError {
	return &ReviewError{
		Code:    ErrorParse,
		Message: message,
		Path:    path,
		Action:  "parse annotation",
		Cause:   cause,
	}
}

func NewIOError(path, action string, cause error) *ReviewError {
	msg := "i/o error"
	if cause != nil {
		msg = cause.Error()
	}
	return &ReviewError{
		Code:    ErrorIO,
		Message: msg,
		Path:    path,
		Action:  action,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first ReviewError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var re *ReviewError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

func IsFormatError(err error) bool { return CodeOf(err) == ErrorFormat }

func IsParseError(err error) bool { return CodeOf(err) == ErrorParse }

func IsIOError(err error) bool { return CodeOf(err) == ErrorIO }
