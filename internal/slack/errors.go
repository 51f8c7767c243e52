package slack

import "fmt"

// CodeTransportFailure is the UpstreamError code used when no Slack
// envelope could be read (network error, non-JSON body, HTTP error page).
const CodeTransportFailure = "transport_failure"

// InputError reports a conversations.history response without a usable
// message history.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid slack API response: " + e.Reason
}

// UpstreamError reports a failed Slack Web API call. Code carries the
// platform's error code (e.g. "channel_not_found") or CodeTransportFailure.
type UpstreamError struct {
	Method string
	Code   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("slack API error (%s): %s: %v", e.Method, e.Code, e.Err)
	}
	return fmt.Sprintf("slack API error (%s): %s", e.Method, e.Code)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the call failed before Slack answered with an envelope.
func (e *UpstreamError) IsTransport() bool {
	return e.Code == CodeTransportFailure
}

func transportError(method string, err error) error {
	return &UpstreamError{Method: method, Code: CodeTransportFailure, Err: err}
}
