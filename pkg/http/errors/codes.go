package errors

import "net/http"

// Messages carried in the error envelope, keyed by HTTP status.
const (
	MsgBadRequest          = "bad request"
	MsgNotFound            = "resource not found"
	MsgMethodNotAllowed    = "method not allowed"
	MsgUnprocessable       = "unprocessable"
	MsgInternalServerError = "internal server error"
)

var messages = map[int]string{
	http.StatusBadRequest:          MsgBadRequest,
	http.StatusNotFound:            MsgNotFound,
	http.StatusMethodNotAllowed:    MsgMethodNotAllowed,
	http.StatusUnprocessableEntity: MsgUnprocessable,
	http.StatusInternalServerError: MsgInternalServerError,
}

// MessageFor returns the fixed envelope message for status, falling back to
// the standard status text for codes outside the taxonomy.
func MessageFor(status int) string {
	if msg, ok := messages[status]; ok {
		return msg
	}
	return http.StatusText(status)
}
