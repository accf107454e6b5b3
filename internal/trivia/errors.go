package trivia

import "errors"

// Service errors. Handlers map them onto the HTTP error envelope with errors.Is;
// anything else is treated as an internal failure.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrBadRequest    = errors.New("bad request")
	ErrUnprocessable = errors.New("unprocessable")
)
