package metrics

import (
	"fmt"
	"time"
)

// ClassError is the aggregation bucket for attempt chains that exhausted
// their retries without ever receiving a status code.
const ClassError = "ERROR"

// Error kinds assigned to terminal transport failures.
const (
	ErrKindTimeout     = "timeout"
	ErrKindDNS         = "dns_failure"
	ErrKindConnRefused = "connection_refused"
	ErrKindConnReset   = "connection_reset"
	ErrKindTLS         = "tls_failure"
	ErrKindTransport   = "transport"
)

// StatusClass maps an HTTP status code to its aggregation bucket, e.g.
// 404 -> "4XX". Codes outside 100..599 fall into the ERROR bucket.
func StatusClass(code int) string {
	hundreds := code / 100
	if hundreds < 1 || hundreds > 5 {
		return ClassError
	}
	return fmt.Sprintf("%dXX", hundreds)
}

// Outcome is the terminal result of one full attempt chain for a single
// logical request. Latency spans all attempts, including retried ones.
type Outcome struct {
	Class    string
	Latency  time.Duration
	Attempts int
	// ErrKind and ErrMsg are set only when Class is ClassError.
	ErrKind string
	ErrMsg  string
}
