// Package httpclient issues the individual HTTP requests of a load test.
//
// [RequestBuilder] turns a validated configuration into reusable
// *http.Request values. [Executor] runs one full attempt chain per call:
// up to retries+1 attempts, each bounded by its own timeout, with transport
// errors and timeouts retried and any received status code treated as
// terminal. The resulting [metrics.Outcome] carries the status class, the
// latency across the whole chain, and a classified error kind when the chain
// exhausted its retries.
//
// Total wall time per Execute call is bounded by timeout * (retries + 1).
package httpclient
