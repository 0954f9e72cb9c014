package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string

	// Detail is an optional structured payload sent to the client beside the
	// message, e.g. the wrong question indices of a rejected quiz.
	Detail any
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) WithDetail(detail any) Error {
	e.Detail = detail
	return e
}

func (e Error) Error() string {
	return e.Message
}

// Is reports whether target is an Error with the same code.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == e.Code
}
