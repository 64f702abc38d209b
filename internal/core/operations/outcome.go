package operations

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/davstat/internal/core/files"
	"github.com/davstat/internal/core/webdav"
)

var ErrPayloadOnFailure = errors.New("payload can only be attached to a successful outcome")

// Outcome is the result of one remote operation attempt. It is one of
// Success, ProtocolFailure or Fault.
type Outcome interface {
	Success() bool
	// StatusCode is 0 when no response was received.
	StatusCode() int
	Payload() []*files.FileMetadata
	Err() error
	Code() Code
	// Message is a human readable summary meant for logs.
	Message() string

	outcome()
}

// Success is a 207 or 200 response.
type Success struct {
	Status int
	Files  []*files.FileMetadata
}

// ProtocolFailure is a well formed response with any other status.
type ProtocolFailure struct {
	Status int
}

// Fault is an attempt that failed before a usable response was read.
type Fault struct {
	Cause error
	// Path is the remote path of the attempt, when known.
	Path string
}

// IsSuccessStatus reports whether status is a successful PROPFIND outcome.
func IsSuccessStatus(status int) bool {
	return status == webdav.StatusMultiStatus || status == http.StatusOK
}

// FromStatus builds the outcome of a well formed response. A success flag
// that disagrees with the status is downgraded to a failure.
func FromStatus(success bool, status int) Outcome {
	if success && IsSuccessStatus(status) {
		return Success{Status: status}
	}
	return ProtocolFailure{Status: status}
}

func FromFault(err error, remotePath string) Outcome {
	if err == nil {
		err = errors.New("unknown fault")
	}
	return Fault{Cause: err, Path: remotePath}
}

// Attach returns o carrying payload. Non-success outcomes are returned
// unchanged together with ErrPayloadOnFailure.
func Attach(o Outcome, payload ...*files.FileMetadata) (Outcome, error) {
	s, ok := o.(Success)
	if !ok {
		return o, ErrPayloadOnFailure
	}
	return s.WithPayload(payload...), nil
}

// WithPayload returns a copy of s with payload; nil entries are skipped.
func (s Success) WithPayload(payload ...*files.FileMetadata) Success {
	out := make([]*files.FileMetadata, 0, len(payload))
	for _, f := range payload {
		if f != nil {
			out = append(out, f)
		}
	}
	s.Files = out
	return s
}

func (s Success) Success() bool                  { return true }
func (s Success) StatusCode() int                { return s.Status }
func (s Success) Payload() []*files.FileMetadata { return s.Files }
func (s Success) Err() error                     { return nil }
func (s Success) Code() Code                     { return CodeOK }
func (s Success) outcome()                       {}

func (s Success) Message() string {
	return fmt.Sprintf("Operation finished with HTTP status code %d (success)", s.Status)
}

func (f ProtocolFailure) Success() bool                  { return false }
func (f ProtocolFailure) StatusCode() int                { return f.Status }
func (f ProtocolFailure) Payload() []*files.FileMetadata { return nil }
func (f ProtocolFailure) Err() error                     { return nil }
func (f ProtocolFailure) Code() Code                     { return codeForStatus(f.Status) }
func (f ProtocolFailure) outcome()                       {}

func (f ProtocolFailure) Message() string {
	return fmt.Sprintf("Operation finished with HTTP status code %d (fail): %s", f.Status, f.Code())
}

func (f Fault) Success() bool                  { return false }
func (f Fault) StatusCode() int                { return 0 }
func (f Fault) Payload() []*files.FileMetadata { return nil }
func (f Fault) Err() error                     { return f.Cause }
func (f Fault) Code() Code                     { return codeForError(f.Cause) }
func (f Fault) outcome()                       {}

func (f Fault) Message() string {
	if f.Path == "" {
		return fmt.Sprintf("%s: %v", f.Code(), f.Cause)
	}
	return fmt.Sprintf("%s on %s: %v", f.Code(), f.Path, f.Cause)
}
