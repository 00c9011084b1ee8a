package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ConnectionErrorType categorizes why the gateway could not be reached.
type ConnectionErrorType int

const (
	ConnectionErrorUnknown ConnectionErrorType = iota
	ConnectionErrorTLS
	ConnectionErrorNetwork
	ConnectionErrorTimeout
	ConnectionErrorDNS
)

func (t ConnectionErrorType) String() string {
	switch t {
	case ConnectionErrorTLS:
		return "TLS certificate error"
	case ConnectionErrorNetwork:
		return "Network error"
	case ConnectionErrorTimeout:
		return "Connection timeout"
	case ConnectionErrorDNS:
		return "DNS resolution error"
	default:
		return "Connection error"
	}
}

// ConnectionError reports a failed connection to a gateway endpoint.
type ConnectionError struct {
	Endpoint string
	Type     ConnectionErrorType
	Reason   error
}

func (e *ConnectionError) Error() string {
	msg := fmt.Sprintf("%s: cannot reach cosmos-mcp at %s: %v", e.Type, e.Endpoint, e.Reason)
	if e.Type == ConnectionErrorNetwork {
		msg += "\n\nIs the gateway running? Start it with:\n  cosmos-mcp serve"
	}
	return msg
}

func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

// ClassifyConnectionError wraps err in a ConnectionError of the matching
// type. It returns nil for a nil err.
func ClassifyConnectionError(err error, endpoint string) *ConnectionError {
	if err == nil {
		return nil
	}
	ce := &ConnectionError{Endpoint: endpoint, Type: ConnectionErrorUnknown, Reason: err}

	var dnsErr *net.DNSError
	switch {
	case isTLSError(err):
		ce.Type = ConnectionErrorTLS
	case errors.As(err, &dnsErr):
		ce.Type = ConnectionErrorDNS
	case isTimeoutError(err):
		ce.Type = ConnectionErrorTimeout
	case isNetworkError(err.Error()):
		ce.Type = ConnectionErrorNetwork
	}
	return ce
}

func isTLSError(err error) bool {
	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	if errors.As(err, &certErr) || errors.As(err, &hostErr) || errors.As(err, &unknownAuthErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "x509:") || strings.Contains(msg, "tls:")
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "deadline exceeded")
}

func isNetworkError(msg string) bool {
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
	} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// ToolError is returned when the gateway answered a call with an error
// outcome. The text is what the gateway produced.
type ToolError struct {
	Tool string
	Text string
}

func (e *ToolError) Error() string {
	return e.Text
}

// gateway error outcomes start with one of these
var errorPrefixes = []string{"Error: ", "Error executing "}

func isErrorText(text string) bool {
	for _, p := range errorPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}
