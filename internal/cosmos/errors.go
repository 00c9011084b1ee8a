package cosmos

import (
	"errors"
	"fmt"
)

// RPCError is a JSON-RPC error object returned by the COSMOS API.
type RPCError struct {
	Code    int
	Message string
	// Class is the server-side exception class, when the API reports one.
	Class string
}

func (e *RPCError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("%s: %s", e.Class, e.Message)
	}
	return e.Message
}

// IsRPCError reports whether err is or wraps an RPCError.
func IsRPCError(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr)
}

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("COSMOS API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("COSMOS API returned HTTP %d: %s", e.StatusCode, e.Body)
}
