package cli

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ConnectionErrorType
	}{
		{"refused", errors.New("dial tcp 127.0.0.1:3443: connect: connection refused"), ConnectionErrorNetwork},
		{"dns", &net.DNSError{Err: "no such host", Name: "cosmos.invalid"}, ConnectionErrorDNS},
		{"tls", errors.New("tls: failed to verify certificate: x509: certificate signed by unknown authority"), ConnectionErrorTLS},
		{"timeout", errors.New("context deadline exceeded"), ConnectionErrorTimeout},
		{"other", errors.New("unexpected EOF"), ConnectionErrorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := ClassifyConnectionError(tt.err, "http://localhost:3443/mcp")
			assert.Equal(t, tt.want, ce.Type)
			assert.ErrorIs(t, ce, tt.err)
			assert.Contains(t, ce.Error(), "http://localhost:3443/mcp")
		})
	}
	assert.Nil(t, ClassifyConnectionError(nil, "x"))
}

func TestConnectionError_NetworkHint(t *testing.T) {
	ce := ClassifyConnectionError(errors.New("connection refused"), "http://localhost:3443/mcp")
	assert.Contains(t, ce.Error(), "cosmos-mcp serve")
}

func TestIsErrorText(t *testing.T) {
	assert.True(t, isErrorText("Error: tool 'x' not found"))
	assert.True(t, isErrorText("Error executing openc3_cmd: boom"))
	assert.False(t, isErrorText("Errors: 0"))
	assert.False(t, isErrorText("INST"))
}
