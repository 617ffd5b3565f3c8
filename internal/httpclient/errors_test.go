package httpclient_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"

	"fireworksbench/internal/httpclient"
	"fireworksbench/internal/metrics"
)

type fakeTimeoutError struct{}

func (fakeTimeoutError) Error() string   { return "i/o timeout" }
func (fakeTimeoutError) Timeout() bool   { return true }
func (fakeTimeoutError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"deadline exceeded",
			fmt.Errorf("do request: %w", context.DeadlineExceeded),
			metrics.ErrKindTimeout,
		},
		{
			"net timeout",
			&url.Error{Op: "Get", URL: "http://example.com", Err: fakeTimeoutError{}},
			metrics.ErrKindTimeout,
		},
		{
			"dns failure",
			&url.Error{Op: "Get", URL: "http://nope.invalid", Err: &net.OpError{
				Op:  "dial",
				Err: &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true},
			}},
			metrics.ErrKindDNS,
		},
		{
			"connection refused",
			&url.Error{Op: "Get", URL: "http://127.0.0.1:1", Err: &net.OpError{
				Op:  "dial",
				Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
			}},
			metrics.ErrKindConnRefused,
		},
		{
			"connection reset",
			&net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ECONNRESET)},
			metrics.ErrKindConnReset,
		},
		{
			"tls handshake",
			errors.New("remote error: tls: handshake failure"),
			metrics.ErrKindTLS,
		},
		{
			"anything else",
			errors.New("short write"),
			metrics.ErrKindTransport,
		},
	}

	for _, tc := range cases {
		kind, msg := httpclient.ClassifyError(tc.err)
		if kind != tc.want {
			t.Errorf("%s: kind = %q, want %q", tc.name, kind, tc.want)
		}
		if msg == "" {
			t.Errorf("%s: empty sample message", tc.name)
		}
	}

	if kind, msg := httpclient.ClassifyError(nil); kind != "" || msg != "" {
		t.Errorf("nil error should classify to empty kind, got %q/%q", kind, msg)
	}
}
