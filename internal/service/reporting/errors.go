package reporting

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/herd-admin/pkg/clients/upstream"
)

// ErrUnknownReportType indicates the requested report tag is not supported.
var ErrUnknownReportType = errors.New("unknown report type")

// UpstreamError reports that a source service could not deliver the data a
// report needs. Message carries the remote message when one was sent.
type UpstreamError struct {
	Operation string
	Message   string
	Err       error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstreamFailure(operation string, err error) error {
	var already *UpstreamError
	if errors.As(err, &already) {
		return err
	}

	message := err.Error()
	var remote *upstream.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		message = remote.Message
	}

	return &UpstreamError{Operation: operation, Message: message, Err: err}
}
