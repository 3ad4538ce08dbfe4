package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"offer_sniper/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Access token",
			input:  []byte(`{"accessToken":"eyJhbGciOiJFUzI1NiIsInR5cC","refreshToken":"eyJhbGciOiJFUzI1NiIsInR5cCI6IkpXVCJ9"}`),
			output: []byte(`{"accessToken":"[MASKED]","refreshToken":"[MASKED]"}`),
		},
		{
			name:   "Session cookies",
			input:  []byte(`{"accessToken":"tok","cookies":[{"name":"_session","value":"s3cr3t"}],"userAgent":"Mozilla/5.0"}`),
			output: []byte(`{"accessToken":"[MASKED]","cookies":[[MASKED]],"userAgent":"Mozilla/5.0"}`),
		},
		{
			name:   "Authorization and cookie headers",
			input:  []byte("GET /offers HTTP/1.1\r\nAuthorization: Bearer eyJhbGciOiJFUzI1NiI\r\nCookie: _session=s3cr3t\r\n\r\n"),
			output: []byte("GET /offers HTTP/1.1\r\nAuthorization: Bearer [MASKED]\r\nCookie: [MASKED]\r\n\r\n"),
		},
		{
			name:   "Account email",
			input:  []byte(`{"email": "partner@example.com", "status": "RUNNING"}`),
			output: []byte(`{"email": "[MASKED]", "status": "RUNNING"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
