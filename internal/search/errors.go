package search

import (
	"errors"
	"net/http"
)

var (
	// ErrTransient tags failures worth retrying: timeouts, connection
	// errors, and overload or server-side status codes.
	ErrTransient = errors.New("transient search failure")
	// ErrProtocol tags malformed requests or responses; these are never
	// retried for the same request.
	ErrProtocol = errors.New("search protocol error")
)

func retryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}
