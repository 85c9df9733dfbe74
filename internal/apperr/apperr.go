package apperr

import "errors"

// Kind classifies a failure so the HTTP boundary can pick a status code
// without inspecting message strings.
type Kind int

const (
	KindValidation Kind = iota // malformed or disallowed field
	KindAuth                   // bad credentials or missing/invalid/revoked token
	KindNotFound               // absent, or not owned by the caller
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }
func Auth(msg string) error       { return &Error{Kind: KindAuth, Msg: msg} }
func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Msg: msg} }

// KindOf reports the kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
