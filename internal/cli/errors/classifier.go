// Package errors classifies tool failures so the CLI can attach a useful
// hint instead of dumping raw xcodebuild output.
package errors

import (
	"strings"
)

type ErrorKind string

const (
	ErrorKindToolchain ErrorKind = "toolchain"
	ErrorKindScheme    ErrorKind = "scheme"
	ErrorKindSimulator ErrorKind = "simulator"
	ErrorKindCompile   ErrorKind = "compile"
	ErrorKindSigning   ErrorKind = "signing"
	ErrorKindNotFound  ErrorKind = "not-found"
	ErrorKindOther     ErrorKind = "other"
)

type ClassifiedError struct {
	Kind    ErrorKind
	Message string
	Hint    string
	Raw     error
}

func (e ClassifiedError) Error() string {
	return e.Message
}

// ClassifyMessage maps a failure message from a tool onto a kind and hint.
func ClassifyMessage(message string) ClassifiedError {
	msg := strings.ToLower(message)

	switch {
	case strings.Contains(msg, "xcode-select") || strings.Contains(msg, "xcrun: error") ||
		strings.Contains(msg, "requires xcode"):
		return ClassifiedError{
			Kind:    ErrorKindToolchain,
			Message: message,
			Hint:    "Run 'xcmcp-cli call doctor' to check the toolchain",
		}
	case strings.Contains(msg, "does not contain a scheme") || strings.Contains(msg, "no such scheme") ||
		strings.Contains(msg, "cannot find a scheme"):
		return ClassifiedError{
			Kind:    ErrorKindScheme,
			Message: message,
			Hint:    "Run 'xcmcp-cli call list-schemes project_path=...' to see valid schemes",
		}
	case strings.Contains(msg, "unable to boot") || strings.Contains(msg, "invalid device") ||
		strings.Contains(msg, "no devices are booted"):
		return ClassifiedError{
			Kind:    ErrorKindSimulator,
			Message: message,
			Hint:    "Run 'xcmcp-cli call list-sims' and boot a simulator first",
		}
	case strings.Contains(msg, "code signing") || strings.Contains(msg, "provisioning profile"):
		return ClassifiedError{
			Kind:    ErrorKindSigning,
			Message: message,
			Hint:    "Check the signing settings of the target in Xcode",
		}
	case strings.Contains(msg, "build failed") || strings.Contains(msg, "error:"):
		return ClassifiedError{
			Kind:    ErrorKindCompile,
			Message: message,
			Hint:    "Inspect the compiler errors above",
		}
	case strings.Contains(msg, "no such file") || strings.Contains(msg, "not found"):
		return ClassifiedError{
			Kind:    ErrorKindNotFound,
			Message: message,
			Hint:    "Check the paths passed to the tool",
		}
	default:
		return ClassifiedError{
			Kind:    ErrorKindOther,
			Message: message,
		}
	}
}

// Classify wraps ClassifyMessage for Go errors.
func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{}
	}
	c := ClassifyMessage(err.Error())
	c.Raw = err
	return c
}
