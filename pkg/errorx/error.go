package errorx

import "fmt"

// Unknown is returned when a request fails before any classifiable response
// arrives, for example a transport-level error.
var Unknown = Error{Code: Unclassified, Message: "Request failed"}

type Error struct {
	Code    Code
	Message string

	// Context carries the serialized upstream response body when one is
	// available. It is empty for locally raised errors.
	Context string
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) WithContext(context string) Error {
	e.Context = context
	return e
}
