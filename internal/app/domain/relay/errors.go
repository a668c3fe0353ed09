package relay

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedContent = errors.New("unsupported content")
	ErrRateLimited        = errors.New("rate limited")
	ErrBlocked            = errors.New("user is blocked")
	ErrUnknownBanner      = errors.New("reply does not target a tracked banner")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotBlocked         = errors.New("user is not blocked")
	ErrBadArgument        = errors.New("bad command argument")
	ErrBadControl         = errors.New("malformed control data")
	ErrTransport          = errors.New("transport failure")
)

// TransportError - отказ внешнего адаптера. errors.Is(err, ErrTransport) == true.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedContent):
		return "unsupported"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrUnknownBanner):
		return "unknown_banner"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrNotBlocked):
		return "not_blocked"
	case errors.Is(err, ErrBadArgument):
		return "bad_argument"
	case errors.Is(err, ErrTransport):
		return "transport"
	}
	return "other"
}
