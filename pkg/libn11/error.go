package libn11

import (
	"fmt"

	"github.com/pkg/errors"
)

// An N11Error is the only error kind returned by a Client.
// It reprensents a transport failure, a SOAP fault or a failed result envelope.
type N11Error struct {
	Message string
	// Code is the fault code or the errorCode of a failed result envelope.
	Code string
	// Err is the underlying error (e.g. a *Fault).
	Err error
	// Response is the raw decoded response (*Record or *Fault), when there is one.
	Response any
}

// IsN11Error returns true if err or one of its causes is an N11Error.
func IsN11Error(err error) bool {
	var n11err *N11Error
	return errors.As(err, &n11err)
}

// Error implements error interface.
func (e *N11Error) Error() string {
	return e.Message
}

// Cause implements github.com/pkg/errors causer interface.
func (e *N11Error) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error.
func (e *N11Error) Unwrap() error {
	return e.Err
}

// Format implements fmt.Formatter. The `%+v` verb also prints the code and the cause.
func (e *N11Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "n11: [%s]: %s", e.Code, e.Message)
			if e.Err != nil {
				fmt.Fprintf(s, ": %+v", e.Err)
			}
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(s, e.Message)
	case 'q':
		fmt.Fprintf(s, "%q", e.Message)
	}
}

// A Fault is a SOAP 1.1 fault returned by a remote service.
type Fault struct {
	Code   string
	String string
	Actor  string
	Detail string
}

// Error implements error interface.
func (f *Fault) Error() string {
	return f.String
}
