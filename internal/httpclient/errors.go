package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"syscall"

	"fireworksbench/internal/metrics"
)

// ClassifyError maps a terminal transport failure to an error kind bucket
// plus the message retained as a sample in the report.
func ClassifyError(err error) (kind, msg string) {
	if err == nil {
		return "", ""
	}
	msg = err.Error()

	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.ErrKindTimeout, msg
	case errors.As(err, &dnsErr):
		return metrics.ErrKindDNS, msg
	case errors.Is(err, syscall.ECONNREFUSED):
		return metrics.ErrKindConnRefused, msg
	case errors.Is(err, syscall.ECONNRESET):
		return metrics.ErrKindConnReset, msg
	case isTLSError(err):
		return metrics.ErrKindTLS, msg
	case errors.As(err, &netErr) && netErr.Timeout():
		return metrics.ErrKindTimeout, msg
	default:
		return metrics.ErrKindTransport, msg
	}
}

func isTLSError(err error) bool {
	var recordErr tls.RecordHeaderError
	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &recordErr) || errors.As(err, &certErr) ||
		errors.As(err, &unknownAuthority) || errors.As(err, &hostnameErr) {
		return true
	}
	// net/http wraps some handshake failures without exported types.
	return strings.Contains(err.Error(), "tls:")
}
