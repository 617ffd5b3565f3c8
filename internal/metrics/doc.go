// Package metrics provides thread-safe accumulation of load test outcomes.
//
// The [Collector] buckets latencies by HTTP status class ("2XX".."5XX", plus
// a distinguished ERROR bucket for attempt chains that never produced a
// status code) and counts terminal transport failures by error kind.
//
// Two properties matter for correctness under high throughput:
//
//   - Latency data and error data live behind independent locks, so
//     concurrent writers touching different halves never serialize against
//     each other.
//   - Per-class running aggregates (count, sum, min, max, sum of squares)
//     are maintained incrementally at insertion time. The bounded raw-sample
//     window evicts its oldest entries under long runs, but eviction never
//     invalidates the aggregates or the HdrHistogram percentiles.
//
// [Collector.Snapshot] returns a consistent point-in-time copy suitable for
// building a report while workers keep recording.
package metrics
