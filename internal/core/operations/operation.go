package operations

import (
	"errors"
	"fmt"

	"github.com/davstat/internal/core/checks"
	"github.com/davstat/internal/interfaces"
)

var ErrNilClient = errors.New("no transport client")

// Operation is one remote operation run against a connected client.
type Operation func(client interfaces.TransportClient) Outcome

// Execute runs op, turning a missing client or operation and any panic
// raised by op into a Fault. It never returns nil.
func Execute(op Operation, client interfaces.TransportClient) (out Outcome) {
	if op == nil {
		return FromFault(errors.New("no operation"), "")
	}
	if checks.IsNil(client) {
		return FromFault(ErrNilClient, "")
	}

	defer func() {
		if r := recover(); r != nil {
			out = FromFault(fmt.Errorf("operation panicked: %v", r), "")
		}
	}()

	out = op(client)
	if out == nil {
		out = FromFault(errors.New("operation returned no outcome"), "")
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Errorf(string, ...any) {}
