package operations

import (
	"errors"
	"fmt"
	"time"

	"github.com/davstat/internal/core/checks"
	"github.com/davstat/internal/core/files"
	restypes "github.com/davstat/internal/core/webdav/restypes"
	"github.com/davstat/internal/interfaces"
)

const (
	DefaultReadTimeout    = 40 * time.Second
	DefaultConnectTimeout = 5 * time.Second
)

var (
	ErrEmptyPath        = errors.New("remote path is empty")
	ErrEmptyMultistatus = errors.New("multistatus response has no entries")
)

// ReadFile reads the metadata of a single remote file or folder with one
// Depth 0 PROPFIND. Its configuration never changes after NewReadFile, so
// one ReadFile may be run concurrently as long as every run gets its own
// transport resource.
type ReadFile struct {
	remotePath     string
	readTimeout    time.Duration
	connectTimeout time.Duration
	logger         interfaces.ErrorFormatLogger
}

type ReadFileOption func(*ReadFile)

// WithTimeouts replaces the default timeouts; zero values keep the default.
func WithTimeouts(read, connect time.Duration) ReadFileOption {
	return func(op *ReadFile) {
		if read > 0 {
			op.readTimeout = read
		}
		if connect > 0 {
			op.connectTimeout = connect
		}
	}
}

// WithLogger sets where failed attempts are reported.
func WithLogger(l interfaces.ErrorFormatLogger) ReadFileOption {
	return func(op *ReadFile) {
		if l != nil {
			op.logger = l
		}
	}
}

func NewReadFile(remotePath string, opts ...ReadFileOption) *ReadFile {
	op := &ReadFile{
		remotePath:     remotePath,
		readTimeout:    DefaultReadTimeout,
		connectTimeout: DefaultConnectTimeout,
		logger:         nopLogger{},
	}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

func (op *ReadFile) RemotePath() string { return op.remotePath }

func (op *ReadFile) Timeouts() (read, connect time.Duration) {
	return op.readTimeout, op.connectTimeout
}

// Operation returns op as an Operation value.
func (op *ReadFile) Operation() Operation {
	return op.Run
}

// Run performs the read. Every error, panics included, is returned as a
// Fault outcome and logged once.
func (op *ReadFile) Run(client interfaces.TransportClient) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = FromFault(fmt.Errorf("read file panicked: %v", r), op.remotePath)
		}
		if f, ok := out.(Fault); ok {
			op.logger.Errorf("Read file %s failed: %s", op.remotePath, f.Message())
		}
	}()

	if checks.IsNil(client) {
		return FromFault(ErrNilClient, op.remotePath)
	}
	return op.run(client)
}

func (op *ReadFile) run(client interfaces.TransportClient) Outcome {
	if op.remotePath == "" {
		return FromFault(ErrEmptyPath, op.remotePath)
	}

	uri, err := client.FilesDavURI(op.remotePath)
	if err != nil {
		return FromFault(err, op.remotePath)
	}

	call := client.NewPropfind(uri, restypes.FilePropSet, restypes.DepthZero)
	if checks.IsNil(call) {
		return FromFault(fmt.Errorf("no propfind for %s", uri), op.remotePath)
	}
	defer call.Release()

	status, err := call.Execute(op.readTimeout, op.connectTimeout)
	if err != nil {
		return FromFault(err, op.remotePath)
	}

	if !IsSuccessStatus(status) {
		// a drain error does not change the outcome, the status is already known
		_ = call.Exhaust()
		return FromStatus(false, status)
	}

	ms, err := call.MultiStatus()
	if err != nil {
		return FromFault(err, op.remotePath)
	}
	if len(ms.Responses) == 0 {
		return FromFault(fmt.Errorf("%w (status %d)", ErrEmptyMultistatus, status), op.remotePath)
	}

	file, err := files.Parse(ms.Responses[0], client.FilesDavPath())
	if err != nil {
		return FromFault(err, op.remotePath)
	}

	out, err := Attach(FromStatus(true, status), file)
	if err != nil {
		return FromFault(err, op.remotePath)
	}
	return out
}
