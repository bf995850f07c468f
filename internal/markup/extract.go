// Package markup pulls the generated HTML document out of a model reply.
package markup

import (
	"fmt"
	"strings"
)

const (
	// StartMarker opens the document; extraction starts exactly here.
	StartMarker = "<!DOCTYPE html>"
	// EndMarker closes the document; extraction ends right after its first occurrence.
	EndMarker = "</html>"
)

// MalformedResponseError reports a reply that does not embed a full document.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed response: " + e.Reason
}

// Extract returns the substring from the first StartMarker to the end of the
// first EndMarker. Surrounding prose and code fences are dropped.
func Extract(message string) (string, error) {
	start := strings.Index(message, StartMarker)
	if start < 0 {
		return "", &MalformedResponseError{Reason: fmt.Sprintf("missing %q", StartMarker)}
	}
	end := strings.Index(message, EndMarker)
	if end < 0 {
		return "", &MalformedResponseError{Reason: fmt.Sprintf("missing %q", EndMarker)}
	}
	if end < start {
		return "", &MalformedResponseError{Reason: fmt.Sprintf("%q precedes %q", EndMarker, StartMarker)}
	}
	return message[start : end+len(EndMarker)], nil
}
