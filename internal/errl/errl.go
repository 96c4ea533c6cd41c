// Package errl wraps errors with the source location of the caller, so log
// entries point to the place where the error was detected instead of where it
// was finally logged.
package errl

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Error wraps err with the file and line of the caller.
func Error(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", location(2), err)
}

// Errorf is like fmt.Errorf, prefixing the file and line of the caller.
func Errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", location(2), fmt.Errorf(format, args...))
}

func location(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
