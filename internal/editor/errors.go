package editor

import (
	"fmt"

	"github.com/hanpama/graphcache/internal/nodeid"
)

// ErrorKind classifies why a write was aborted.
type ErrorKind string

const (
	MalformedPayload   ErrorKind = "MalformedPayload"
	UnresolvedVariable ErrorKind = "UnresolvedVariable"
	InvalidSelection   ErrorKind = "InvalidSelection"
	InternalInvariant  ErrorKind = "Internal"
)

// Error describes why a write failed, with the path inside the payload
// where the problem was found. A non-nil Error means the write was aborted
// atomically: no partial snapshot is ever published.
type Error struct {
	Kind    ErrorKind
	Path    nodeid.Path
	Message string
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path.String(), e.Message)
}

func newError(kind ErrorKind, path nodeid.Path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}
