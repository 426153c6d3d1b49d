package scan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks construction-time misconfiguration. It is the
	// only class of problem reported before any work starts.
	ErrConfiguration = errors.New("configuration error")
	// ErrNoAccessibleRoots marks a run in which every supplied root failed.
	ErrNoAccessibleRoots = errors.New("no accessible roots")
	// ErrCancelled marks a run stopped by the caller's context.
	ErrCancelled = errors.New("scan cancelled")
)

// Wrap builds an error that includes component context while tagging it with
// the provided marker for later classification.
func Wrap(marker error, component, message string, err error) error {
	detail := buildDetail(component, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, message string) string {
	parts := make([]string, 0, 2)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "scan failure"
	}
	return strings.Join(parts, ": ")
}
