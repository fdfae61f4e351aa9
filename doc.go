// Package rx provides a set of operations on push-based streams of values.
// Streams form a graph of operations that values are pushed through.
//
// A Stream is a function that, given an Observer, starts producing values and returns a Subscription.
// Streams are cold: every call runs the producer again, with private state.
// Streams are constructed from slices, channels, timers (Interval), event targets (FromEvent),
// or futures (FromFuture).
//
// Values may then be transformed using single-input operators (Map, Scan, StartWith, Take, ...),
// or combined using multi-input operators (Merge, Flatten, Combine). Operators are plain functions from
// Stream to Stream, and chains of them are assembled using Pipe.
//
// Finally, a stream is consumed by attaching an Observer using Subscribe, or by one of the blocking
// consumers such as Each or Reduce.
//
// Calling a Subscription cancels the stream, which transitively cancels every upstream and inner
// subscription it created. Subscriptions returned by this package may be called any number of times,
// from any goroutine, including from inside the stream's own callbacks.
//
// An Observer's callbacks are never called concurrently. Sources that are driven by goroutines,
// such as timers, serialize their deliveries, and so do operators that combine multiple streams.
package rx
